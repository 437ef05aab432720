package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Refund statuses
const (
	RefundStatusPending   = "pending"
	RefundStatusCompleted = "completed"
	RefundStatusFailed    = "failed"
)

// Refund represents a single refund attempt against a payment. The row is
// created before the gateway is called, so an operator can always see an
// attempt that died mid-flight.
type Refund struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	PaymentID      uint            `json:"payment_id" gorm:"not null;index"`
	Amount         decimal.Decimal `json:"amount" gorm:"type:decimal(20,4);not null"`
	Status         string          `json:"status" gorm:"default:'pending';index"`
	Reason         string          `json:"reason"`
	RequestedBy    uint            `json:"requested_by"`
	IdempotencyKey string          `json:"idempotency_key" gorm:"uniqueIndex;size:64"`
	TransactionID  string          `json:"transaction_id"` // gateway reference, set on completion
	FailureReason  string          `json:"failure_reason,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Refund) TableName() string {
	return "refunds"
}

// RefundRepository defines the contract for refund data access.
type RefundRepository interface {
	Create(refund *Refund) error
	FindByID(id uint) (*Refund, error)
	FindByPaymentID(paymentID uint) ([]Refund, error)
	FindByIdempotencyKey(key string) (*Refund, error)
	Update(refund *Refund) error
	MarkFailed(id uint, reason string) error
}
