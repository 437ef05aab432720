package command

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merchantdesk/backoffice/internal/payment/domain"
	"github.com/merchantdesk/backoffice/internal/payment/gateway"
	"github.com/merchantdesk/backoffice/pkg/apperr"
)

// In-memory repositories mirroring the contracts of the GORM implementations.

type fakePaymentRepo struct {
	payments map[uint]*domain.Payment
	refunds  *fakeRefundRepo
	nextID   uint
}

func newFakePaymentRepo(refunds *fakeRefundRepo) *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uint]*domain.Payment), refunds: refunds}
}

func (f *fakePaymentRepo) Create(p *domain.Payment) error {
	f.nextID++
	p.ID = f.nextID
	copied := *p
	f.payments[p.ID] = &copied
	return nil
}

func (f *fakePaymentRepo) FindByID(id uint) (*domain.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, apperr.New(apperr.CodeNotFound, "payment not found")
	}
	copied := *p
	return &copied, nil
}

func (f *fakePaymentRepo) FindByIDWithRefunds(id uint) (*domain.Payment, error) {
	return f.FindByID(id)
}

func (f *fakePaymentRepo) FindByOrderID(orderID string) (*domain.Payment, error) {
	for _, p := range f.payments {
		if p.OrderID == orderID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, apperr.New(apperr.CodeNotFound, "payment not found")
}

func (f *fakePaymentRepo) FindByUserID(userID uint, limit, offset int) ([]domain.Payment, error) {
	var out []domain.Payment
	for _, p := range f.payments {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) FindAll(limit, offset int) ([]domain.Payment, error) {
	var out []domain.Payment
	for _, p := range f.payments {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePaymentRepo) Update(p *domain.Payment) error {
	copied := *p
	f.payments[p.ID] = &copied
	return nil
}

func (f *fakePaymentRepo) UpdateStatusChecked(ctx context.Context, id uint, newStatus string) (*domain.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, apperr.New(apperr.CodeNotFound, "payment not found")
	}
	if !domain.CanTransition(p.Status, newStatus) {
		return nil, apperr.New(apperr.CodeInvalidState, "cannot transition payment from %s to %s", p.Status, newStatus)
	}
	p.Status = newStatus
	copied := *p
	return &copied, nil
}

func (f *fakePaymentRepo) ApplyRefundResult(ctx context.Context, refundID uint, gatewayTransactionID string) (*domain.Payment, *domain.Refund, error) {
	refund, ok := f.refunds.refunds[refundID]
	if !ok {
		return nil, nil, apperr.New(apperr.CodeNotFound, "refund not found")
	}
	payment, ok := f.payments[refund.PaymentID]
	if !ok {
		return nil, nil, apperr.New(apperr.CodeNotFound, "payment not found")
	}

	newRefunded := payment.RefundedAmount.Add(refund.Amount)
	if newRefunded.GreaterThan(payment.Amount) {
		return nil, nil, apperr.New(apperr.CodeAmountExceeded, "refund would exceed payment amount")
	}

	refund.Status = domain.RefundStatusCompleted
	refund.TransactionID = gatewayTransactionID
	payment.RefundedAmount = newRefunded
	if newRefunded.Equal(payment.Amount) {
		payment.Status = domain.StatusRefunded
	}

	paymentCopy := *payment
	refundCopy := *refund
	return &paymentCopy, &refundCopy, nil
}

type fakeRefundRepo struct {
	refunds map[uint]*domain.Refund
	nextID  uint
}

func newFakeRefundRepo() *fakeRefundRepo {
	return &fakeRefundRepo{refunds: make(map[uint]*domain.Refund)}
}

func (f *fakeRefundRepo) Create(r *domain.Refund) error {
	f.nextID++
	r.ID = f.nextID
	copied := *r
	f.refunds[r.ID] = &copied
	return nil
}

func (f *fakeRefundRepo) FindByID(id uint) (*domain.Refund, error) {
	r, ok := f.refunds[id]
	if !ok {
		return nil, apperr.New(apperr.CodeNotFound, "refund not found")
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRefundRepo) FindByPaymentID(paymentID uint) ([]domain.Refund, error) {
	var out []domain.Refund
	for _, r := range f.refunds {
		if r.PaymentID == paymentID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRefundRepo) FindByIdempotencyKey(key string) (*domain.Refund, error) {
	for _, r := range f.refunds {
		if r.IdempotencyKey == key {
			copied := *r
			return &copied, nil
		}
	}
	return nil, apperr.New(apperr.CodeNotFound, "refund not found")
}

func (f *fakeRefundRepo) Update(r *domain.Refund) error {
	copied := *r
	f.refunds[r.ID] = &copied
	return nil
}

func (f *fakeRefundRepo) MarkFailed(id uint, reason string) error {
	r, ok := f.refunds[id]
	if !ok {
		return apperr.New(apperr.CodeNotFound, "refund not found")
	}
	r.Status = domain.RefundStatusFailed
	r.FailureReason = reason
	return nil
}

// fakeGateway records calls and can be told to fail.
type fakeGateway struct {
	failCapture bool
	failRefund  bool
	captures    int
	refundCalls int
}

func (f *fakeGateway) Capture(ctx context.Context, req gateway.CaptureRequest) (*gateway.CaptureResult, error) {
	f.captures++
	if f.failCapture {
		return nil, apperr.New(apperr.CodeGatewayFailure, "card declined")
	}
	return &gateway.CaptureResult{ProviderPaymentID: "prov_pay_1", Status: "succeeded"}, nil
}

func (f *fakeGateway) Refund(ctx context.Context, req gateway.RefundRequest) (*gateway.RefundResult, error) {
	f.refundCalls++
	if f.failRefund {
		return nil, apperr.New(apperr.CodeGatewayFailure, "provider unavailable")
	}
	return &gateway.RefundResult{TransactionID: "prov_ref_1", Status: "succeeded"}, nil
}

func completedPayment(t *testing.T, repo *fakePaymentRepo, amount, method string) *domain.Payment {
	t.Helper()
	p := &domain.Payment{
		OrderID:           "ORD-1",
		UserID:            7,
		Amount:            decimal.RequireFromString(amount),
		Currency:          "USD",
		Status:            domain.StatusCompleted,
		RefundedAmount:    decimal.Zero,
		PaymentMethod:     method,
		ProviderPaymentID: "prov_pay_1",
	}
	require.NoError(t, repo.Create(p))
	return p
}

func TestCreateRefund(t *testing.T) {
	ctx := context.Background()

	t.Run("full refund flips payment to refunded", func(t *testing.T) {
		refunds := newFakeRefundRepo()
		payments := newFakePaymentRepo(refunds)
		gw := &fakeGateway{}
		p := completedPayment(t, payments, "100", domain.MethodCreditCard)

		h := NewCreateRefundHandler(payments, refunds, gw)
		result, err := h.Handle(ctx, CreateRefundCommand{PaymentID: p.ID, Amount: decimal.RequireFromString("100"), Reason: "order returned"})
		require.NoError(t, err)

		assert.Equal(t, domain.StatusRefunded, result.Payment.Status)
		assert.True(t, result.Payment.RefundedAmount.Equal(decimal.RequireFromString("100")))
		assert.Equal(t, domain.RefundStatusCompleted, result.Refund.Status)
		assert.Equal(t, "prov_ref_1", result.Refund.TransactionID)
		assert.False(t, result.Replayed)
	})

	t.Run("partial refunds accumulate", func(t *testing.T) {
		refunds := newFakeRefundRepo()
		payments := newFakePaymentRepo(refunds)
		gw := &fakeGateway{}
		p := completedPayment(t, payments, "100", domain.MethodCreditCard)
		h := NewCreateRefundHandler(payments, refunds, gw)

		first, err := h.Handle(ctx, CreateRefundCommand{PaymentID: p.ID, Amount: decimal.RequireFromString("30"), IdempotencyKey: "k1"})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, first.Payment.Status)

		second, err := h.Handle(ctx, CreateRefundCommand{PaymentID: p.ID, Amount: decimal.RequireFromString("70"), IdempotencyKey: "k2"})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRefunded, second.Payment.Status)
		assert.True(t, second.Payment.RefundedAmount.Equal(decimal.RequireFromString("100")))
	})

	t.Run("over-refund rejected with details", func(t *testing.T) {
		refunds := newFakeRefundRepo()
		payments := newFakePaymentRepo(refunds)
		gw := &fakeGateway{}
		p := completedPayment(t, payments, "100", domain.MethodCreditCard)
		h := NewCreateRefundHandler(payments, refunds, gw)

		_, err := h.Handle(ctx, CreateRefundCommand{PaymentID: p.ID, Amount: decimal.RequireFromString("60"), IdempotencyKey: "k1"})
		require.NoError(t, err)

		_, err = h.Handle(ctx, CreateRefundCommand{PaymentID: p.ID, Amount: decimal.RequireFromString("60"), IdempotencyKey: "k2"})
		require.Error(t, err)
		assert.Equal(t, apperr.CodeAmountExceeded, apperr.CodeOf(err))
		assert.Equal(t, "40", apperr.Details(err)["refundable"])
		// the gateway was never called for the rejected attempt
		assert.Equal(t, 1, gw.refundCalls)
	})

	t.Run("only completed payments can be refunded", func(t *testing.T) {
		refunds := newFakeRefundRepo()
		payments := newFakePaymentRepo(refunds)
		h := NewCreateRefundHandler(payments, refunds, &fakeGateway{})

		p := &domain.Payment{OrderID: "ORD-2", Amount: decimal.RequireFromString("50"), Status: domain.StatusPending, PaymentMethod: domain.MethodCreditCard}
		require.NoError(t, payments.Create(p))

		_, err := h.Handle(ctx, CreateRefundCommand{PaymentID: p.ID, Amount: decimal.RequireFromString("10")})
		require.Error(t, err)
		assert.Equal(t, apperr.CodeInvalidState, apperr.CodeOf(err))
	})

	t.Run("unsupported payment method", func(t *testing.T) {
		refunds := newFakeRefundRepo()
		payments := newFakePaymentRepo(refunds)
		h := NewCreateRefundHandler(payments, refunds, &fakeGateway{})
		p := completedPayment(t, payments, "50", domain.MethodCashOnDelivery)

		_, err := h.Handle(ctx, CreateRefundCommand{PaymentID: p.ID, Amount: decimal.RequireFromString("10")})
		require.Error(t, err)
		assert.Equal(t, apperr.CodeUnsupportedMethod, apperr.CodeOf(err))
	})

	t.Run("idempotency key replays without a second gateway call", func(t *testing.T) {
		refunds := newFakeRefundRepo()
		payments := newFakePaymentRepo(refunds)
		gw := &fakeGateway{}
		p := completedPayment(t, payments, "100", domain.MethodCreditCard)
		h := NewCreateRefundHandler(payments, refunds, gw)

		first, err := h.Handle(ctx, CreateRefundCommand{PaymentID: p.ID, Amount: decimal.RequireFromString("40"), IdempotencyKey: "retry-me"})
		require.NoError(t, err)

		second, err := h.Handle(ctx, CreateRefundCommand{PaymentID: p.ID, Amount: decimal.RequireFromString("40"), IdempotencyKey: "retry-me"})
		require.NoError(t, err)

		assert.True(t, second.Replayed)
		assert.Equal(t, first.Refund.ID, second.Refund.ID)
		assert.Equal(t, 1, gw.refundCalls)
		// the balance moved exactly once
		assert.True(t, second.Payment.RefundedAmount.Equal(decimal.RequireFromString("40")))
	})

	t.Run("gateway failure marks the refund failed and keeps the payment", func(t *testing.T) {
		refunds := newFakeRefundRepo()
		payments := newFakePaymentRepo(refunds)
		gw := &fakeGateway{failRefund: true}
		p := completedPayment(t, payments, "100", domain.MethodCreditCard)
		h := NewCreateRefundHandler(payments, refunds, gw)

		_, err := h.Handle(ctx, CreateRefundCommand{PaymentID: p.ID, Amount: decimal.RequireFromString("40"), IdempotencyKey: "k1"})
		require.Error(t, err)
		assert.Equal(t, apperr.CodeGatewayFailure, apperr.CodeOf(err))

		// the attempt is recorded as failed
		stored, err := refunds.FindByIdempotencyKey("k1")
		require.NoError(t, err)
		assert.Equal(t, domain.RefundStatusFailed, stored.Status)
		assert.NotEmpty(t, stored.FailureReason)

		// the payment is untouched
		reloaded, err := payments.FindByID(p.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, reloaded.Status)
		assert.True(t, reloaded.RefundedAmount.IsZero())
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		refunds := newFakeRefundRepo()
		payments := newFakePaymentRepo(refunds)
		h := NewCreateRefundHandler(payments, refunds, &fakeGateway{})

		_, err := h.Handle(ctx, CreateRefundCommand{PaymentID: 1, Amount: decimal.Zero})
		require.Error(t, err)
		assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
	})
}
