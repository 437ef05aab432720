package command

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/merchantdesk/backoffice/internal/payment/domain"
	"github.com/merchantdesk/backoffice/internal/payment/gateway"
	"github.com/merchantdesk/backoffice/pkg/apperr"
	"github.com/merchantdesk/backoffice/pkg/logger"
)

// CreateRefundCommand represents the intent to refund part or all of a payment
type CreateRefundCommand struct {
	PaymentID      uint            `json:"payment_id"`
	Amount         decimal.Decimal `json:"amount"`
	Reason         string          `json:"reason"`
	RequestedBy    uint            `json:"requested_by"`
	IdempotencyKey string          `json:"idempotency_key"`
}

// CreateRefundResult is the outcome of a refund request
type CreateRefundResult struct {
	Refund  *domain.Refund  `json:"refund"`
	Payment *domain.Payment `json:"payment"`
	// Replayed is true when the idempotency key matched an earlier request
	// and no new refund was attempted.
	Replayed bool `json:"replayed,omitempty"`
}

// CreateRefundHandler validates a refund request, records the attempt, calls
// the gateway, and applies the result. The refund row is written before the
// gateway call so a crash mid-flight leaves a visible pending attempt.
type CreateRefundHandler struct {
	payments domain.PaymentRepository
	refunds  domain.RefundRepository
	gw       gateway.PaymentGateway
}

// NewCreateRefundHandler creates a new CreateRefundHandler
func NewCreateRefundHandler(payments domain.PaymentRepository, refunds domain.RefundRepository, gw gateway.PaymentGateway) *CreateRefundHandler {
	return &CreateRefundHandler{payments: payments, refunds: refunds, gw: gw}
}

// Handle executes the create refund command
func (h *CreateRefundHandler) Handle(ctx context.Context, cmd CreateRefundCommand) (*CreateRefundResult, error) {
	if cmd.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperr.New(apperr.CodeInvalidArgument, "refund amount must be positive")
	}
	if cmd.IdempotencyKey == "" {
		cmd.IdempotencyKey = uuid.New().String()
	}

	// A replayed key returns the earlier attempt without touching the
	// gateway, whatever state that attempt is in.
	if existing, err := h.refunds.FindByIdempotencyKey(cmd.IdempotencyKey); err == nil {
		payment, perr := h.payments.FindByID(existing.PaymentID)
		if perr != nil {
			return nil, perr
		}
		logger.Info(ctx).
			Uint("refund_id", existing.ID).
			Str("idempotency_key", cmd.IdempotencyKey).
			Msg("Refund request replayed by idempotency key")
		return &CreateRefundResult{Refund: existing, Payment: payment, Replayed: true}, nil
	} else if apperr.CodeOf(err) != apperr.CodeNotFound {
		return nil, err
	}

	payment, err := h.payments.FindByID(cmd.PaymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != domain.StatusCompleted {
		return nil, apperr.New(apperr.CodeInvalidState, "only completed payments can be refunded")
	}
	if !domain.MethodSupportsRefund(payment.PaymentMethod) {
		return nil, apperr.New(apperr.CodeUnsupportedMethod, "payment method "+payment.PaymentMethod+" does not support refunds")
	}
	if cmd.Amount.GreaterThan(payment.RefundableAmount()) {
		return nil, apperr.New(apperr.CodeAmountExceeded, "refund amount exceeds refundable amount").
			WithDetails(map[string]interface{}{
				"requested":  cmd.Amount.String(),
				"refundable": payment.RefundableAmount().String(),
			})
	}

	refund := &domain.Refund{
		PaymentID:      payment.ID,
		Amount:         cmd.Amount,
		Status:         domain.RefundStatusPending,
		Reason:         cmd.Reason,
		RequestedBy:    cmd.RequestedBy,
		IdempotencyKey: cmd.IdempotencyKey,
	}
	if err := h.refunds.Create(refund); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "failed to record refund")
	}

	gwCtx, cancel := context.WithTimeout(ctx, gatewayTimeout)
	defer cancel()

	result, err := h.gw.Refund(gwCtx, gateway.RefundRequest{
		ProviderPaymentID: payment.ProviderPaymentID,
		Amount:            cmd.Amount,
		Currency:          payment.Currency,
		IdempotencyKey:    cmd.IdempotencyKey,
	})
	if err != nil {
		if markErr := h.refunds.MarkFailed(refund.ID, err.Error()); markErr != nil {
			logger.Error(ctx).Err(markErr).Uint("refund_id", refund.ID).Msg("Failed to mark refund failed")
		}
		logger.Warn(ctx).
			Err(err).
			Uint("refund_id", refund.ID).
			Uint("payment_id", payment.ID).
			Msg("Gateway refund failed")
		return nil, err
	}

	updatedPayment, updatedRefund, err := h.payments.ApplyRefundResult(ctx, refund.ID, result.TransactionID)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("refund_id", updatedRefund.ID).
		Uint("payment_id", updatedPayment.ID).
		Str("amount", updatedRefund.Amount.String()).
		Str("refunded_total", updatedPayment.RefundedAmount.String()).
		Str("payment_status", updatedPayment.Status).
		Msg("Refund completed")

	return &CreateRefundResult{Refund: updatedRefund, Payment: updatedPayment}, nil
}
