package query

import (
	"github.com/shopspring/decimal"

	"github.com/merchantdesk/backoffice/internal/company/domain"
	"github.com/merchantdesk/backoffice/pkg/apperr"
)

// GetCreditInfoQuery represents the query for a company's credit standing
type GetCreditInfoQuery struct {
	CompanyID uint
}

// CreditInfo is the read model for a company's credit line
type CreditInfo struct {
	CompanyID       uint            `json:"company_id"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	AvailableCredit decimal.Decimal `json:"available_credit"`
	UsedCredit      decimal.Decimal `json:"used_credit"`
}

// GetCreditInfoHandler handles the get credit info query
type GetCreditInfoHandler struct {
	repo domain.CreditRepository
}

// NewGetCreditInfoHandler creates a new get credit info handler
func NewGetCreditInfoHandler(repo domain.CreditRepository) *GetCreditInfoHandler {
	return &GetCreditInfoHandler{repo: repo}
}

// Handle executes the get credit info query
func (h *GetCreditInfoHandler) Handle(q GetCreditInfoQuery) (*CreditInfo, error) {
	if q.CompanyID == 0 {
		return nil, apperr.New(apperr.CodeInvalidArgument, "company_id is required")
	}

	account, err := h.repo.FindAccountByCompanyID(q.CompanyID)
	if err != nil {
		return nil, err
	}

	return &CreditInfo{
		CompanyID:       account.CompanyID,
		CreditLimit:     account.CreditLimit,
		AvailableCredit: account.AvailableCredit,
		UsedCredit:      account.UsedCredit(),
	}, nil
}
