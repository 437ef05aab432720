package command

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merchantdesk/backoffice/internal/payment/domain"
	"github.com/merchantdesk/backoffice/pkg/apperr"
)

func TestCreatePayment(t *testing.T) {
	ctx := context.Background()

	t.Run("successful capture completes the payment", func(t *testing.T) {
		payments := newFakePaymentRepo(newFakeRefundRepo())
		gw := &fakeGateway{}
		h := NewCreatePaymentHandler(payments, gw)

		result, err := h.Handle(ctx, CreatePaymentCommand{
			OrderID:       "ORD-42",
			UserID:        7,
			Amount:        decimal.RequireFromString("120.50"),
			PaymentMethod: domain.MethodCreditCard,
		})
		require.NoError(t, err)

		assert.Equal(t, domain.StatusCompleted, result.Payment.Status)
		assert.Equal(t, "prov_pay_1", result.Payment.ProviderPaymentID)
		assert.Equal(t, "USD", result.Payment.Currency)
		assert.Equal(t, 1, gw.captures)
	})

	t.Run("gateway decline leaves a failed payment with the reason", func(t *testing.T) {
		payments := newFakePaymentRepo(newFakeRefundRepo())
		gw := &fakeGateway{failCapture: true}
		h := NewCreatePaymentHandler(payments, gw)

		_, err := h.Handle(ctx, CreatePaymentCommand{
			OrderID:       "ORD-43",
			Amount:        decimal.RequireFromString("50"),
			PaymentMethod: domain.MethodCreditCard,
		})
		require.Error(t, err)
		assert.Equal(t, apperr.CodeGatewayFailure, apperr.CodeOf(err))

		stored, ferr := payments.FindByOrderID("ORD-43")
		require.NoError(t, ferr)
		assert.Equal(t, domain.StatusFailed, stored.Status)
		assert.NotEmpty(t, stored.FailureReason)
	})

	t.Run("missing order id gets generated", func(t *testing.T) {
		payments := newFakePaymentRepo(newFakeRefundRepo())
		h := NewCreatePaymentHandler(payments, &fakeGateway{})

		result, err := h.Handle(ctx, CreatePaymentCommand{
			Amount:        decimal.RequireFromString("10"),
			PaymentMethod: domain.MethodPaypal,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, result.Payment.OrderID)
	})

	t.Run("invalid input rejected before any gateway call", func(t *testing.T) {
		payments := newFakePaymentRepo(newFakeRefundRepo())
		gw := &fakeGateway{}
		h := NewCreatePaymentHandler(payments, gw)

		_, err := h.Handle(ctx, CreatePaymentCommand{Amount: decimal.Zero, PaymentMethod: domain.MethodCreditCard})
		require.Error(t, err)
		assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))

		_, err = h.Handle(ctx, CreatePaymentCommand{Amount: decimal.RequireFromString("10")})
		require.Error(t, err)
		assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))

		assert.Equal(t, 0, gw.captures)
	})
}

func TestUpdatePaymentStatus(t *testing.T) {
	ctx := context.Background()

	newHandler := func() (*UpdateStatusHandler, *fakePaymentRepo) {
		payments := newFakePaymentRepo(newFakeRefundRepo())
		return NewUpdateStatusHandler(payments), payments
	}

	t.Run("legal transition applied", func(t *testing.T) {
		h, payments := newHandler()
		p := &domain.Payment{OrderID: "ORD-1", Amount: decimal.RequireFromString("10"), Status: domain.StatusPending, PaymentMethod: domain.MethodCreditCard}
		require.NoError(t, payments.Create(p))

		updated, err := h.Handle(ctx, UpdateStatusCommand{PaymentID: p.ID, Status: domain.StatusProcessing})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusProcessing, updated.Status)
	})

	t.Run("illegal transition rejected", func(t *testing.T) {
		h, payments := newHandler()
		p := &domain.Payment{OrderID: "ORD-2", Amount: decimal.RequireFromString("10"), Status: domain.StatusFailed, PaymentMethod: domain.MethodCreditCard}
		require.NoError(t, payments.Create(p))

		_, err := h.Handle(ctx, UpdateStatusCommand{PaymentID: p.ID, Status: domain.StatusCompleted})
		require.Error(t, err)
		assert.Equal(t, apperr.CodeInvalidState, apperr.CodeOf(err))
	})

	t.Run("refunded cannot be set directly", func(t *testing.T) {
		h, payments := newHandler()
		p := &domain.Payment{OrderID: "ORD-3", Amount: decimal.RequireFromString("10"), Status: domain.StatusCompleted, PaymentMethod: domain.MethodCreditCard}
		require.NoError(t, payments.Create(p))

		_, err := h.Handle(ctx, UpdateStatusCommand{PaymentID: p.ID, Status: domain.StatusRefunded})
		require.Error(t, err)
		assert.Equal(t, apperr.CodeInvalidState, apperr.CodeOf(err))
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		h, _ := newHandler()
		_, err := h.Handle(ctx, UpdateStatusCommand{PaymentID: 1, Status: "exploded"})
		require.Error(t, err)
		assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
	})
}

func TestCancelPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("pending payment cancelled", func(t *testing.T) {
		payments := newFakePaymentRepo(newFakeRefundRepo())
		h := NewCancelPaymentHandler(payments)
		p := &domain.Payment{OrderID: "ORD-1", Amount: decimal.RequireFromString("10"), Status: domain.StatusPending, PaymentMethod: domain.MethodCreditCard}
		require.NoError(t, payments.Create(p))

		result, err := h.Handle(ctx, CancelPaymentCommand{PaymentID: p.ID, CancelledBy: 7})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, result.Status)
	})

	t.Run("completed payment cannot be cancelled", func(t *testing.T) {
		payments := newFakePaymentRepo(newFakeRefundRepo())
		h := NewCancelPaymentHandler(payments)
		p := &domain.Payment{OrderID: "ORD-2", Amount: decimal.RequireFromString("10"), Status: domain.StatusCompleted, PaymentMethod: domain.MethodCreditCard}
		require.NoError(t, payments.Create(p))

		_, err := h.Handle(ctx, CancelPaymentCommand{PaymentID: p.ID})
		require.Error(t, err)
		assert.Equal(t, apperr.CodeInvalidState, apperr.CodeOf(err))
	})
}
