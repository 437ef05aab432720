package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/merchantdesk/backoffice/internal/payment/domain"
	"github.com/merchantdesk/backoffice/internal/payment/gateway"
	"github.com/merchantdesk/backoffice/pkg/apperr"
	"github.com/merchantdesk/backoffice/pkg/logger"
)

// gatewayTimeout bounds every call to the external provider.
const gatewayTimeout = 10 * time.Second

// CreatePaymentCommand represents the intent to charge for an order
type CreatePaymentCommand struct {
	OrderID       string          `json:"order_id"`
	CompanyID     uint            `json:"company_id"`
	UserID        uint            `json:"user_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	PaymentMethod string          `json:"payment_method"`
}

// CreatePaymentResult is the outcome of creating a payment
type CreatePaymentResult struct {
	Payment *domain.Payment `json:"payment"`
}

// CreatePaymentHandler records the payment before attempting capture, so a
// crash mid-call leaves an auditable pending row rather than silence.
type CreatePaymentHandler struct {
	payments domain.PaymentRepository
	gw       gateway.PaymentGateway
}

// NewCreatePaymentHandler creates a new CreatePaymentHandler
func NewCreatePaymentHandler(payments domain.PaymentRepository, gw gateway.PaymentGateway) *CreatePaymentHandler {
	return &CreatePaymentHandler{payments: payments, gw: gw}
}

// Handle executes the create payment command
func (h *CreatePaymentHandler) Handle(ctx context.Context, cmd CreatePaymentCommand) (*CreatePaymentResult, error) {
	if cmd.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperr.New(apperr.CodeInvalidArgument, "payment amount must be positive")
	}
	if cmd.PaymentMethod == "" {
		return nil, apperr.New(apperr.CodeInvalidArgument, "payment method is required")
	}
	if cmd.OrderID == "" {
		cmd.OrderID = fmt.Sprintf("ORD-%s", uuid.New().String()[:8])
	}
	if cmd.Currency == "" {
		cmd.Currency = "USD"
	}

	payment := &domain.Payment{
		OrderID:        cmd.OrderID,
		CompanyID:      cmd.CompanyID,
		UserID:         cmd.UserID,
		Amount:         cmd.Amount,
		Currency:       cmd.Currency,
		Status:         domain.StatusPending,
		RefundedAmount: decimal.Zero,
		PaymentMethod:  cmd.PaymentMethod,
	}
	if err := h.payments.Create(payment); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "failed to record payment")
	}

	gwCtx, cancel := context.WithTimeout(ctx, gatewayTimeout)
	defer cancel()

	capture, err := h.gw.Capture(gwCtx, gateway.CaptureRequest{
		OrderID:        payment.OrderID,
		Amount:         payment.Amount,
		Currency:       payment.Currency,
		PaymentMethod:  payment.PaymentMethod,
		IdempotencyKey: fmt.Sprintf("cap-%s", payment.OrderID),
	})
	if err != nil {
		payment.FailureReason = err.Error()
		if updateErr := h.payments.Update(payment); updateErr != nil {
			logger.Error(ctx).Err(updateErr).Uint("payment_id", payment.ID).Msg("Failed to record capture failure")
		}
		if _, trErr := h.payments.UpdateStatusChecked(ctx, payment.ID, domain.StatusFailed); trErr != nil {
			logger.Error(ctx).Err(trErr).Uint("payment_id", payment.ID).Msg("Failed to mark payment failed")
		}
		logger.Warn(ctx).
			Err(err).
			Uint("payment_id", payment.ID).
			Str("order_id", payment.OrderID).
			Msg("Payment capture failed")
		return nil, err
	}

	payment.ProviderPaymentID = capture.ProviderPaymentID
	if err := h.payments.Update(payment); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "failed to record provider payment id")
	}
	updated, err := h.payments.UpdateStatusChecked(ctx, payment.ID, domain.StatusCompleted)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("payment_id", updated.ID).
		Str("order_id", updated.OrderID).
		Str("amount", updated.Amount.String()).
		Str("provider_payment_id", updated.ProviderPaymentID).
		Msg("Payment completed")

	return &CreatePaymentResult{Payment: updated}, nil
}
