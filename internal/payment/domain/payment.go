package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment statuses
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusRefunded   = "refunded"
	StatusCancelled  = "cancelled"
)

// statusTransitions is the single source of truth for payment status
// legality. Any transition not listed here is rejected with InvalidState.
var statusTransitions = map[string][]string{
	StatusPending:    {StatusProcessing, StatusCompleted, StatusFailed, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusFailed, StatusCancelled},
	StatusCompleted:  {StatusRefunded},
	// failed, cancelled and refunded are terminal
}

// CanTransition reports whether a payment may move from one status to another.
func CanTransition(from, to string) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether the status name is known.
func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed, StatusRefunded, StatusCancelled:
		return true
	}
	return false
}

// Payment methods
const (
	MethodCreditCard    = "credit_card"
	MethodDebitCard     = "debit_card"
	MethodPaypal        = "paypal"
	MethodCompanyCredit = "company_credit"
	MethodCashOnDelivery = "cash_on_delivery"
)

// MethodSupportsRefund reports whether a payment method can be refunded
// through the gateway. Cash on delivery has no programmatic refund path.
func MethodSupportsRefund(method string) bool {
	switch method {
	case MethodCreditCard, MethodDebitCard, MethodPaypal, MethodCompanyCredit:
		return true
	}
	return false
}

// Payment represents the payment entity. RefundedAmount never decreases,
// never exceeds Amount, and only moves while the payment is completed or
// refunded.
type Payment struct {
	ID                uint            `json:"id" gorm:"primaryKey"`
	OrderID           string          `json:"order_id" gorm:"not null;uniqueIndex"`
	CompanyID         uint            `json:"company_id" gorm:"index"` // zero for personal orders
	UserID            uint            `json:"user_id" gorm:"not null;index"`
	Amount            decimal.Decimal `json:"amount" gorm:"type:decimal(20,4);not null"`
	Currency          string          `json:"currency" gorm:"default:'USD'"`
	Status            string          `json:"status" gorm:"default:'pending';index"`
	RefundedAmount    decimal.Decimal `json:"refunded_amount" gorm:"type:decimal(20,4);not null;default:0"`
	PaymentMethod     string          `json:"payment_method"`
	ProviderPaymentID string          `json:"provider_payment_id" gorm:"index"`
	FailureReason     string          `json:"failure_reason,omitempty"`
	Refunds           []Refund        `json:"refunds,omitempty" gorm:"foreignKey:PaymentID"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	DeletedAt         gorm.DeletedAt  `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Payment) TableName() string {
	return "payments"
}

// CanBeRefunded reports whether a refund may be created against this payment.
func (p *Payment) CanBeRefunded() bool {
	return p.Status == StatusCompleted &&
		p.RefundedAmount.LessThan(p.Amount) &&
		MethodSupportsRefund(p.PaymentMethod)
}

// RefundableAmount is the portion of the payment not yet refunded.
func (p *Payment) RefundableAmount() decimal.Decimal {
	return p.Amount.Sub(p.RefundedAmount)
}

// IsTerminal reports whether no further status transitions are possible.
func (p *Payment) IsTerminal() bool {
	return len(statusTransitions[p.Status]) == 0
}

// PaymentRepository defines the contract for payment data access.
// UpdateStatusChecked and ApplyRefundResult run inside a store transaction
// with the payment row locked, so concurrent mutations of the same payment
// serialize.
type PaymentRepository interface {
	Create(payment *Payment) error
	FindByID(id uint) (*Payment, error)
	FindByIDWithRefunds(id uint) (*Payment, error)
	FindByOrderID(orderID string) (*Payment, error)
	FindByUserID(userID uint, limit, offset int) ([]Payment, error)
	FindAll(limit, offset int) ([]Payment, error)
	Update(payment *Payment) error

	// UpdateStatusChecked transitions the payment status, enforcing the
	// transition table. Illegal transitions fail with InvalidState.
	UpdateStatusChecked(ctx context.Context, id uint, newStatus string) (*Payment, error)

	// ApplyRefundResult marks the refund completed with the gateway
	// transaction id and increments the payment's refunded amount in the
	// same transaction, flipping the payment to refunded when fully
	// refunded.
	ApplyRefundResult(ctx context.Context, refundID uint, gatewayTransactionID string) (*Payment, *Refund, error)
}
