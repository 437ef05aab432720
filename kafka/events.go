package kafka

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentCompletedEvent is emitted after a gateway capture succeeds.
type PaymentCompletedEvent struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	PaymentID     uint            `json:"payment_id"`
	OrderID       string          `json:"order_id"`
	CompanyID     uint            `json:"company_id"`
	UserID        uint            `json:"user_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	PaymentMethod string          `json:"payment_method"`
	Timestamp     time.Time       `json:"timestamp"`
}

// RefundCompletedEvent is emitted after a refund is confirmed by the gateway
// and persisted. The company service consumes it to release reserved credit
// for company-funded orders.
type RefundCompletedEvent struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	RefundID  uint            `json:"refund_id"`
	PaymentID uint            `json:"payment_id"`
	OrderID   string          `json:"order_id"`
	CompanyID uint            `json:"company_id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Reason    string          `json:"reason"`
	Timestamp time.Time       `json:"timestamp"`
}

// Event types
const (
	EventTypePaymentCompleted = "payment.completed"
	EventTypeRefundCompleted  = "refund.completed"
)

// Kafka topics
const (
	TopicPaymentCompleted = "payment-completed"
	TopicRefundCompleted  = "refund-completed"
)
