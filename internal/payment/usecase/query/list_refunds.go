package query

import (
	"context"

	"github.com/merchantdesk/backoffice/internal/payment/domain"
)

// ListRefundsQuery represents a request for all refunds against a payment
type ListRefundsQuery struct {
	PaymentID uint `json:"payment_id"`
}

// ListRefundsHandler handles listing refunds for a payment
type ListRefundsHandler struct {
	payments domain.PaymentRepository
	refunds  domain.RefundRepository
}

// NewListRefundsHandler creates a new ListRefundsHandler
func NewListRefundsHandler(payments domain.PaymentRepository, refunds domain.RefundRepository) *ListRefundsHandler {
	return &ListRefundsHandler{payments: payments, refunds: refunds}
}

// Handle executes the list refunds query. The payment is looked up first so
// a missing payment surfaces as NotFound instead of an empty list.
func (h *ListRefundsHandler) Handle(ctx context.Context, q ListRefundsQuery) ([]domain.Refund, error) {
	if _, err := h.payments.FindByID(q.PaymentID); err != nil {
		return nil, err
	}
	return h.refunds.FindByPaymentID(q.PaymentID)
}
