package command

import (
	"context"

	"github.com/merchantdesk/backoffice/internal/payment/domain"
	"github.com/merchantdesk/backoffice/pkg/logger"
)

// CancelPaymentCommand represents the intent to cancel a payment before capture completes
type CancelPaymentCommand struct {
	PaymentID   uint `json:"payment_id"`
	CancelledBy uint `json:"cancelled_by"`
}

// CancelPaymentHandler handles payment cancellation
type CancelPaymentHandler struct {
	payments domain.PaymentRepository
}

// NewCancelPaymentHandler creates a new CancelPaymentHandler
func NewCancelPaymentHandler(payments domain.PaymentRepository) *CancelPaymentHandler {
	return &CancelPaymentHandler{payments: payments}
}

// Handle executes the cancel payment command. The transition table only
// admits cancellation from pending or processing, so completed payments
// are rejected here and must go through the refund flow instead.
func (h *CancelPaymentHandler) Handle(ctx context.Context, cmd CancelPaymentCommand) (*domain.Payment, error) {
	payment, err := h.payments.UpdateStatusChecked(ctx, cmd.PaymentID, domain.StatusCancelled)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("payment_id", payment.ID).
		Uint("cancelled_by", cmd.CancelledBy).
		Msg("Payment cancelled")

	return payment, nil
}
