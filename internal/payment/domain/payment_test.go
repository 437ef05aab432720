package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from    string
		to      string
		allowed bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusCompleted, true},
		{StatusPending, StatusFailed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusRefunded, false},

		{StatusProcessing, StatusCompleted, true},
		{StatusProcessing, StatusFailed, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusProcessing, StatusPending, false},
		{StatusProcessing, StatusRefunded, false},

		{StatusCompleted, StatusRefunded, true},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusPending, false},
		{StatusCompleted, StatusFailed, false},

		// terminal states admit nothing
		{StatusFailed, StatusPending, false},
		{StatusFailed, StatusCompleted, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusCompleted, false},
		{StatusRefunded, StatusCompleted, false},
		{StatusRefunded, StatusRefunded, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestIsTerminal(t *testing.T) {
	for status, terminal := range map[string]bool{
		StatusPending:    false,
		StatusProcessing: false,
		StatusCompleted:  false,
		StatusFailed:     true,
		StatusCancelled:  true,
		StatusRefunded:   true,
	} {
		p := &Payment{Status: status}
		assert.Equal(t, terminal, p.IsTerminal(), "status %s", status)
	}
}

func TestCanBeRefunded(t *testing.T) {
	base := Payment{
		Amount:        decimal.NewFromInt(100),
		PaymentMethod: MethodCreditCard,
	}

	t.Run("completed payment with headroom", func(t *testing.T) {
		p := base
		p.Status = StatusCompleted
		assert.True(t, p.CanBeRefunded())
	})

	t.Run("pending payment", func(t *testing.T) {
		p := base
		p.Status = StatusPending
		assert.False(t, p.CanBeRefunded())
	})

	t.Run("fully refunded payment", func(t *testing.T) {
		p := base
		p.Status = StatusRefunded
		p.RefundedAmount = p.Amount
		assert.False(t, p.CanBeRefunded())
	})

	t.Run("unsupported method", func(t *testing.T) {
		p := base
		p.Status = StatusCompleted
		p.PaymentMethod = MethodCashOnDelivery
		assert.False(t, p.CanBeRefunded())
	})
}

func TestRefundableAmount(t *testing.T) {
	p := &Payment{
		Amount:         decimal.RequireFromString("100.50"),
		RefundedAmount: decimal.RequireFromString("30.25"),
	}
	assert.True(t, p.RefundableAmount().Equal(decimal.RequireFromString("70.25")))
}

func TestMethodSupportsRefund(t *testing.T) {
	assert.True(t, MethodSupportsRefund(MethodCreditCard))
	assert.True(t, MethodSupportsRefund(MethodPaypal))
	assert.True(t, MethodSupportsRefund(MethodCompanyCredit))
	assert.False(t, MethodSupportsRefund(MethodCashOnDelivery))
	assert.False(t, MethodSupportsRefund("carrier_pigeon"))
}
