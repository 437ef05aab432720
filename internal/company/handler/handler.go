package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/merchantdesk/backoffice/internal/company/domain"
	"github.com/merchantdesk/backoffice/internal/company/usecase/command"
	"github.com/merchantdesk/backoffice/internal/company/usecase/query"
	"github.com/merchantdesk/backoffice/pkg/apperr"
	"github.com/merchantdesk/backoffice/pkg/logger"
)

// CompanyHandler handles HTTP requests for companies and the credit ledger
// using the CQRS pattern
type CompanyHandler struct {
	// Command handlers
	createCompanyHandler  *command.CreateCompanyHandler
	registerUserHandler   *command.RegisterUserHandler
	loginUserHandler      *command.LoginUserHandler
	changeRoleHandler     *command.ChangeRoleHandler
	setCreditLimitHandler *command.SetCreditLimitHandler
	reserveCreditHandler  *command.ReserveCreditHandler
	releaseCreditHandler  *command.ReleaseCreditHandler
	adjustCreditHandler   *command.AdjustCreditHandler

	// Query handlers
	getCompanyHandler     *query.GetCompanyHandler
	listCompaniesHandler  *query.ListCompaniesHandler
	getCreditInfoHandler  *query.GetCreditInfoHandler
	listTransactionsHandler *query.ListCreditTransactionsHandler
}

// NewCompanyHandlerWithDI creates a new company handler using dependency injection
func NewCompanyHandlerWithDI(
	createCompanyHandler *command.CreateCompanyHandler,
	registerUserHandler *command.RegisterUserHandler,
	loginUserHandler *command.LoginUserHandler,
	changeRoleHandler *command.ChangeRoleHandler,
	setCreditLimitHandler *command.SetCreditLimitHandler,
	reserveCreditHandler *command.ReserveCreditHandler,
	releaseCreditHandler *command.ReleaseCreditHandler,
	adjustCreditHandler *command.AdjustCreditHandler,
	getCompanyHandler *query.GetCompanyHandler,
	listCompaniesHandler *query.ListCompaniesHandler,
	getCreditInfoHandler *query.GetCreditInfoHandler,
	listTransactionsHandler *query.ListCreditTransactionsHandler,
) *CompanyHandler {
	return &CompanyHandler{
		createCompanyHandler:    createCompanyHandler,
		registerUserHandler:     registerUserHandler,
		loginUserHandler:        loginUserHandler,
		changeRoleHandler:       changeRoleHandler,
		setCreditLimitHandler:   setCreditLimitHandler,
		reserveCreditHandler:    reserveCreditHandler,
		releaseCreditHandler:    releaseCreditHandler,
		adjustCreditHandler:     adjustCreditHandler,
		getCompanyHandler:       getCompanyHandler,
		listCompaniesHandler:    listCompaniesHandler,
		getCreditInfoHandler:    getCreditInfoHandler,
		listTransactionsHandler: listTransactionsHandler,
	}
}

type Response struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Data    interface{}            `json:"data,omitempty"`
	Error   string                 `json:"error,omitempty"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Register handles POST /auth/register
func (h *CompanyHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CompanyID uint   `json:"company_id"`
		Username  string `json:"username"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		FullName  string `json:"full_name"`
		Role      string `json:"role"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.registerUserHandler.Handle(command.RegisterUserCommand{
		CompanyID: req.CompanyID,
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FullName:  req.FullName,
		Role:      req.Role,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "User registered successfully",
		Data:    user,
	})
}

// Login handles POST /auth/login
func (h *CompanyHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.loginUserHandler.Handle(command.LoginUserCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		// Credential failures always map to 401 here, not 403.
		if apperr.Is(err, apperr.CodeUnauthorized) {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Login successful",
		Data:    resp,
	})
}

// CreateCompany handles POST /api/companies
func (h *CompanyHandler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string          `json:"name"`
		Email        string          `json:"email"`
		InitialLimit decimal.Decimal `json:"initial_limit"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	company, err := h.createCompanyHandler.Handle(command.CreateCompanyCommand{
		Name:         req.Name,
		Email:        req.Email,
		InitialLimit: req.InitialLimit,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Company created successfully",
		Data:    company,
	})
}

// GetCompany handles GET /api/companies/{id}
func (h *CompanyHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	company, err := h.getCompanyHandler.Handle(query.GetCompanyQuery{ID: id})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: company})
}

// ListCompanies handles GET /api/companies
func (h *CompanyHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	companies, err := h.listCompaniesHandler.Handle(query.ListCompaniesQuery{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to list companies")
		respondError(w, http.StatusInternalServerError, "Failed to list companies")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"companies": companies,
			"total":     len(companies),
		},
	})
}

// ChangeRole handles PATCH /api/users/{id}/role
func (h *CompanyHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.changeRoleHandler.Handle(command.ChangeRoleCommand{
		UserID:  id,
		NewRole: req.Role,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Role updated successfully",
		Data:    user,
	})
}

// GetCreditInfo handles GET /api/companies/{id}/credit
func (h *CompanyHandler) GetCreditInfo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	info, err := h.getCreditInfoHandler.Handle(query.GetCreditInfoQuery{CompanyID: id})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: info})
}

// SetCreditLimit handles PUT /api/companies/{id}/credit/limit
func (h *CompanyHandler) SetCreditLimit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		NewLimit decimal.Decimal `json:"new_limit"`
		Reason   string          `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	actingUserID, _ := r.Context().Value(UserIDKey).(uint)

	result, err := h.setCreditLimitHandler.Handle(r.Context(), command.SetCreditLimitCommand{
		CompanyID:    id,
		NewLimit:     req.NewLimit,
		ActingUserID: actingUserID,
		Reason:       req.Reason,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Credit limit updated successfully",
		Data:    result,
	})
}

// ReserveCredit handles POST /api/companies/{id}/credit/reserve
func (h *CompanyHandler) ReserveCredit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Amount        decimal.Decimal `json:"amount"`
		ReferenceID   string          `json:"reference_id"`
		ReferenceType string          `json:"reference_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	actingUserID, _ := r.Context().Value(UserIDKey).(uint)

	result, err := h.reserveCreditHandler.Handle(r.Context(), command.ReserveCreditCommand{
		CompanyID:     id,
		Amount:        req.Amount,
		ReferenceID:   req.ReferenceID,
		ReferenceType: req.ReferenceType,
		ActingUserID:  actingUserID,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Credit reserved successfully",
		Data:    result,
	})
}

// ReleaseCredit handles POST /api/companies/{id}/credit/release
func (h *CompanyHandler) ReleaseCredit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Amount        decimal.Decimal `json:"amount"`
		ReferenceID   string          `json:"reference_id"`
		ReferenceType string          `json:"reference_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	actingUserID, _ := r.Context().Value(UserIDKey).(uint)

	result, err := h.releaseCreditHandler.Handle(r.Context(), command.ReleaseCreditCommand{
		CompanyID:     id,
		Amount:        req.Amount,
		ReferenceID:   req.ReferenceID,
		ReferenceType: req.ReferenceType,
		ActingUserID:  actingUserID,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Credit released successfully",
		Data:    result,
	})
}

// AdjustCredit handles POST /api/companies/{id}/credit/adjust
func (h *CompanyHandler) AdjustCredit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Amount decimal.Decimal `json:"amount"`
		Reason string          `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	actingUserID, _ := r.Context().Value(UserIDKey).(uint)

	result, err := h.adjustCreditHandler.Handle(r.Context(), command.AdjustCreditCommand{
		CompanyID:    id,
		Amount:       req.Amount,
		ActingUserID: actingUserID,
		Reason:       req.Reason,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Credit adjusted successfully",
		Data:    result,
	})
}

// ListCreditTransactions handles GET /api/companies/{id}/credit/transactions
func (h *CompanyHandler) ListCreditTransactions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	filter := domain.TransactionFilter{
		ReferenceID: r.URL.Query().Get("reference_id"),
		Limit:       limit,
		Offset:      offset,
	}

	if types := r.URL.Query()["type"]; len(types) > 0 {
		filter.Types = types
	}
	if from := r.URL.Query().Get("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filter.From = &t
		}
	}
	if to := r.URL.Query().Get("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter.To = &t
		}
	}

	transactions, err := h.listTransactionsHandler.Handle(query.ListCreditTransactionsQuery{
		CompanyID: id,
		Filter:    filter,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"transactions": transactions,
			"total":        len(transactions),
		},
	})
}

// RegisterRoutes registers all company routes
func (h *CompanyHandler) RegisterRoutes(router *mux.Router) {
	authMw := AuthMiddleware()
	manageMw := RequireRoles(domain.RoleOwner, domain.RoleAdmin)
	spendMw := RequireRoles(domain.RoleOwner, domain.RoleAdmin, domain.RoleFinance)

	// Public routes
	router.HandleFunc("/auth/register", h.Register).Methods("POST")
	router.HandleFunc("/auth/login", h.Login).Methods("POST")
	// Public for demo/bootstrap; lock down behind the gateway in production
	router.HandleFunc("/api/companies", h.CreateCompany).Methods("POST")

	// Authenticated read routes
	router.HandleFunc("/api/companies", authMw(h.ListCompanies)).Methods("GET")
	router.HandleFunc("/api/companies/{id}", authMw(h.GetCompany)).Methods("GET")
	router.HandleFunc("/api/companies/{id}/credit", authMw(h.GetCreditInfo)).Methods("GET")
	router.HandleFunc("/api/companies/{id}/credit/transactions", authMw(h.ListCreditTransactions)).Methods("GET")

	// Credit mutations guarded by role
	router.HandleFunc("/api/companies/{id}/credit/limit", authMw(manageMw(h.SetCreditLimit))).Methods("PUT")
	router.HandleFunc("/api/companies/{id}/credit/adjust", authMw(manageMw(h.AdjustCredit))).Methods("POST")
	router.HandleFunc("/api/companies/{id}/credit/reserve", authMw(spendMw(h.ReserveCredit))).Methods("POST")
	router.HandleFunc("/api/companies/{id}/credit/release", authMw(spendMw(h.ReleaseCredit))).Methods("POST")

	// Role management
	router.HandleFunc("/api/users/{id}/role", authMw(manageMw(h.ChangeRole))).Methods("PATCH")
}

// RegisterHealthCheck registers the health check endpoint
func (h *CompanyHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   "Database unavailable",
			})
			return
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Company service is healthy",
		})
	}).Methods("GET")
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}

func respondDomainError(w http.ResponseWriter, err error) {
	respondJSON(w, apperr.HTTPStatus(err), Response{
		Success: false,
		Error:   err.Error(),
		Code:    string(apperr.CodeOf(err)),
		Details: apperr.Details(err),
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
