package query

import (
	"context"

	"github.com/merchantdesk/backoffice/internal/payment/domain"
)

// GetPaymentQuery represents a request for a single payment with its refunds
type GetPaymentQuery struct {
	PaymentID uint `json:"payment_id"`
}

// GetPaymentHandler handles payment lookups
type GetPaymentHandler struct {
	payments domain.PaymentRepository
}

// NewGetPaymentHandler creates a new GetPaymentHandler
func NewGetPaymentHandler(payments domain.PaymentRepository) *GetPaymentHandler {
	return &GetPaymentHandler{payments: payments}
}

// Handle executes the get payment query
func (h *GetPaymentHandler) Handle(ctx context.Context, q GetPaymentQuery) (*domain.Payment, error) {
	return h.payments.FindByIDWithRefunds(q.PaymentID)
}
