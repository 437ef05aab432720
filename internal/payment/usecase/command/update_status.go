package command

import (
	"context"

	"github.com/merchantdesk/backoffice/internal/payment/domain"
	"github.com/merchantdesk/backoffice/pkg/apperr"
	"github.com/merchantdesk/backoffice/pkg/logger"
)

// UpdateStatusCommand represents the intent to move a payment to a new status
type UpdateStatusCommand struct {
	PaymentID uint   `json:"payment_id"`
	Status    string `json:"status"`
}

// UpdateStatusHandler handles status updates against the transition table
type UpdateStatusHandler struct {
	payments domain.PaymentRepository
}

// NewUpdateStatusHandler creates a new UpdateStatusHandler
func NewUpdateStatusHandler(payments domain.PaymentRepository) *UpdateStatusHandler {
	return &UpdateStatusHandler{payments: payments}
}

// Handle executes the update status command
func (h *UpdateStatusHandler) Handle(ctx context.Context, cmd UpdateStatusCommand) (*domain.Payment, error) {
	if !domain.ValidStatus(cmd.Status) {
		return nil, apperr.New(apperr.CodeInvalidArgument, "unknown payment status: "+cmd.Status)
	}
	if cmd.Status == domain.StatusRefunded {
		// refunded is only reachable through the refund flow
		return nil, apperr.New(apperr.CodeInvalidState, "refunded status is set by the refund flow")
	}

	payment, err := h.payments.UpdateStatusChecked(ctx, cmd.PaymentID, cmd.Status)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("payment_id", payment.ID).
		Str("status", payment.Status).
		Msg("Payment status updated")

	return payment, nil
}
