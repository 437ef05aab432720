package query

import (
	"github.com/merchantdesk/backoffice/internal/company/domain"
	"github.com/merchantdesk/backoffice/pkg/apperr"
)

// ListCreditTransactionsQuery represents the query for a company's ledger
type ListCreditTransactionsQuery struct {
	CompanyID uint
	Filter    domain.TransactionFilter
}

// ListCreditTransactionsHandler handles the list credit transactions query
type ListCreditTransactionsHandler struct {
	repo domain.CreditRepository
}

// NewListCreditTransactionsHandler creates a new list credit transactions handler
func NewListCreditTransactionsHandler(repo domain.CreditRepository) *ListCreditTransactionsHandler {
	return &ListCreditTransactionsHandler{repo: repo}
}

// Handle executes the list credit transactions query
func (h *ListCreditTransactionsHandler) Handle(q ListCreditTransactionsQuery) ([]domain.CreditTransaction, error) {
	if q.CompanyID == 0 {
		return nil, apperr.New(apperr.CodeInvalidArgument, "company_id is required")
	}

	for _, t := range q.Filter.Types {
		switch t {
		case domain.TxTypeLimitAssignment, domain.TxTypeIncrease, domain.TxTypePayment,
			domain.TxTypeAdjustment, domain.TxTypeRefund:
		default:
			return nil, apperr.New(apperr.CodeInvalidArgument, "invalid transaction type: %s", t)
		}
	}

	return h.repo.ListTransactions(q.CompanyID, q.Filter)
}
