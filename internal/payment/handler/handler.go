package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/merchantdesk/backoffice/internal/payment/usecase/command"
	"github.com/merchantdesk/backoffice/internal/payment/usecase/query"
	"github.com/merchantdesk/backoffice/kafka"
	"github.com/merchantdesk/backoffice/pkg/apperr"
	"github.com/merchantdesk/backoffice/pkg/logger"
)

// PaymentHandler handles HTTP requests for payments and refunds using the
// CQRS pattern
type PaymentHandler struct {
	// Command handlers
	createPaymentHandler *command.CreatePaymentHandler
	createRefundHandler  *command.CreateRefundHandler
	updateStatusHandler  *command.UpdateStatusHandler
	cancelPaymentHandler *command.CancelPaymentHandler

	// Query handlers
	getPaymentHandler    *query.GetPaymentHandler
	listPaymentsHandler  *query.ListPaymentsHandler
	getMyPaymentsHandler *query.GetMyPaymentsHandler
	listRefundsHandler   *query.ListRefundsHandler

	// Optional event publisher; nil when Kafka is not configured
	publisher *kafka.Publisher
}

// NewPaymentHandlerWithDI creates a new payment handler using dependency injection
func NewPaymentHandlerWithDI(
	createPaymentHandler *command.CreatePaymentHandler,
	createRefundHandler *command.CreateRefundHandler,
	updateStatusHandler *command.UpdateStatusHandler,
	cancelPaymentHandler *command.CancelPaymentHandler,
	getPaymentHandler *query.GetPaymentHandler,
	listPaymentsHandler *query.ListPaymentsHandler,
	getMyPaymentsHandler *query.GetMyPaymentsHandler,
	listRefundsHandler *query.ListRefundsHandler,
) *PaymentHandler {
	return &PaymentHandler{
		createPaymentHandler: createPaymentHandler,
		createRefundHandler:  createRefundHandler,
		updateStatusHandler:  updateStatusHandler,
		cancelPaymentHandler: cancelPaymentHandler,
		getPaymentHandler:    getPaymentHandler,
		listPaymentsHandler:  listPaymentsHandler,
		getMyPaymentsHandler: getMyPaymentsHandler,
		listRefundsHandler:   listRefundsHandler,
	}
}

// SetPublisher wires the Kafka publisher after construction
func (h *PaymentHandler) SetPublisher(p *kafka.Publisher) {
	h.publisher = p
}

type Response struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Data    interface{}            `json:"data,omitempty"`
	Error   string                 `json:"error,omitempty"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// CreatePayment handles POST /api/payments
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID       string          `json:"order_id"`
		Amount        decimal.Decimal `json:"amount"`
		Currency      string          `json:"currency"`
		PaymentMethod string          `json:"payment_method"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := r.Context()
	userID, _ := ctx.Value(UserIDKey).(uint)
	companyID, _ := ctx.Value(CompanyIDKey).(uint)

	result, err := h.createPaymentHandler.Handle(ctx, command.CreatePaymentCommand{
		OrderID:       req.OrderID,
		CompanyID:     companyID,
		UserID:        userID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	p := result.Payment
	if h.publisher != nil {
		event := kafka.PaymentCompletedEvent{
			PaymentID:     p.ID,
			OrderID:       p.OrderID,
			CompanyID:     p.CompanyID,
			UserID:        p.UserID,
			Amount:        p.Amount,
			Currency:      p.Currency,
			PaymentMethod: p.PaymentMethod,
		}
		if err := h.publisher.PublishPaymentCompleted(ctx, event); err != nil {
			// The payment is committed; event delivery failure must not fail
			// the request.
			logger.Error(ctx).Err(err).Uint("payment_id", p.ID).Msg("Failed to publish payment completed event")
		}
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Payment completed successfully",
		Data:    p,
	})
}

// CreateRefund handles POST /api/payments/{id}/refund
func (h *PaymentHandler) CreateRefund(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Amount         decimal.Decimal `json:"amount"`
		Reason         string          `json:"reason"`
		IdempotencyKey string          `json:"idempotency_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if key := r.Header.Get("Idempotency-Key"); key != "" {
		req.IdempotencyKey = key
	}

	ctx := r.Context()
	userID, _ := ctx.Value(UserIDKey).(uint)

	result, err := h.createRefundHandler.Handle(ctx, command.CreateRefundCommand{
		PaymentID:      id,
		Amount:         req.Amount,
		Reason:         req.Reason,
		RequestedBy:    userID,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		refundOutcomes.WithLabelValues("failed").Inc()
		respondDomainError(w, err)
		return
	}

	if result.Replayed {
		refundOutcomes.WithLabelValues("replayed").Inc()
		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Refund already processed",
			Data:    result,
		})
		return
	}
	refundOutcomes.WithLabelValues("completed").Inc()

	if h.publisher != nil {
		event := kafka.RefundCompletedEvent{
			RefundID:  result.Refund.ID,
			PaymentID: result.Payment.ID,
			OrderID:   result.Payment.OrderID,
			CompanyID: result.Payment.CompanyID,
			Amount:    result.Refund.Amount,
			Currency:  result.Payment.Currency,
			Reason:    result.Refund.Reason,
		}
		if err := h.publisher.PublishRefundCompleted(ctx, event); err != nil {
			logger.Error(ctx).Err(err).Uint("refund_id", result.Refund.ID).Msg("Failed to publish refund completed event")
		}
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Refund processed successfully",
		Data:    result,
	})
}

// UpdateStatus handles PATCH /api/payments/{id}/status
func (h *PaymentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	payment, err := h.updateStatusHandler.Handle(r.Context(), command.UpdateStatusCommand{
		PaymentID: id,
		Status:    req.Status,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Payment status updated successfully",
		Data:    payment,
	})
}

// CancelPayment handles POST /api/payments/{id}/cancel
func (h *PaymentHandler) CancelPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	userID, _ := ctx.Value(UserIDKey).(uint)

	payment, err := h.cancelPaymentHandler.Handle(ctx, command.CancelPaymentCommand{
		PaymentID:   id,
		CancelledBy: userID,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Payment cancelled successfully",
		Data:    payment,
	})
}

// GetPayment handles GET /api/payments/{id}
func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	payment, err := h.getPaymentHandler.Handle(r.Context(), query.GetPaymentQuery{PaymentID: id})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: payment})
}

// ListPayments handles GET /api/payments
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	payments, err := h.listPaymentsHandler.Handle(r.Context(), query.ListPaymentsQuery{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to list payments")
		respondError(w, http.StatusInternalServerError, "Failed to list payments")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"payments": payments,
			"total":    len(payments),
		},
	})
}

// GetMyPayments handles GET /api/payments/my
func (h *PaymentHandler) GetMyPayments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := ctx.Value(UserIDKey).(uint)

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	payments, err := h.getMyPaymentsHandler.Handle(ctx, query.GetMyPaymentsQuery{
		UserID: userID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to list user payments")
		respondError(w, http.StatusInternalServerError, "Failed to list payments")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"payments": payments,
			"total":    len(payments),
		},
	})
}

// ListRefunds handles GET /api/payments/{id}/refunds
func (h *PaymentHandler) ListRefunds(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	refunds, err := h.listRefundsHandler.Handle(r.Context(), query.ListRefundsQuery{PaymentID: id})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"refunds": refunds,
			"total":   len(refunds),
		},
	})
}

// RegisterRoutes registers all payment routes
func (h *PaymentHandler) RegisterRoutes(router *mux.Router) {
	authMw := AuthMiddleware()
	backofficeMw := RequireRoles(roleOwner, roleAdmin)
	refundMw := RequireRoles(roleOwner, roleAdmin, roleFinance)

	router.HandleFunc("/api/payments", authMw(h.CreatePayment)).Methods("POST")
	router.HandleFunc("/api/payments", authMw(backofficeMw(h.ListPayments))).Methods("GET")
	router.HandleFunc("/api/payments/my", authMw(h.GetMyPayments)).Methods("GET")
	router.HandleFunc("/api/payments/{id}", authMw(h.GetPayment)).Methods("GET")
	router.HandleFunc("/api/payments/{id}/refunds", authMw(h.ListRefunds)).Methods("GET")
	router.HandleFunc("/api/payments/{id}/cancel", authMw(h.CancelPayment)).Methods("POST")

	// Backoffice operations guarded by role
	router.HandleFunc("/api/payments/{id}/status", authMw(backofficeMw(h.UpdateStatus))).Methods("PATCH")
	router.HandleFunc("/api/payments/{id}/refund", authMw(refundMw(h.CreateRefund))).Methods("POST")
}

// RegisterHealthCheck registers the health check endpoint
func (h *PaymentHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
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
			Message: "Payment service is healthy",
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
