package query

import (
	"context"

	"github.com/merchantdesk/backoffice/internal/payment/domain"
)

// ListPaymentsQuery represents a paginated request for all payments
type ListPaymentsQuery struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ListPaymentsHandler handles listing payments
type ListPaymentsHandler struct {
	payments domain.PaymentRepository
}

// NewListPaymentsHandler creates a new ListPaymentsHandler
func NewListPaymentsHandler(payments domain.PaymentRepository) *ListPaymentsHandler {
	return &ListPaymentsHandler{payments: payments}
}

// Handle executes the list payments query
func (h *ListPaymentsHandler) Handle(ctx context.Context, q ListPaymentsQuery) ([]domain.Payment, error) {
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return h.payments.FindAll(q.Limit, q.Offset)
}
