package query

import (
	"context"

	"github.com/merchantdesk/backoffice/internal/payment/domain"
)

// GetMyPaymentsQuery represents a paginated request for the caller's payments
type GetMyPaymentsQuery struct {
	UserID uint `json:"user_id"`
	Limit  int  `json:"limit"`
	Offset int  `json:"offset"`
}

// GetMyPaymentsHandler handles listing the authenticated user's payments
type GetMyPaymentsHandler struct {
	payments domain.PaymentRepository
}

// NewGetMyPaymentsHandler creates a new GetMyPaymentsHandler
func NewGetMyPaymentsHandler(payments domain.PaymentRepository) *GetMyPaymentsHandler {
	return &GetMyPaymentsHandler{payments: payments}
}

// Handle executes the get my payments query
func (h *GetMyPaymentsHandler) Handle(ctx context.Context, q GetMyPaymentsQuery) ([]domain.Payment, error) {
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return h.payments.FindByUserID(q.UserID, q.Limit, q.Offset)
}
