package gateway

import (
	"context"

	"github.com/shopspring/decimal"
)

// CaptureRequest asks the provider to charge a payment method.
type CaptureRequest struct {
	OrderID        string          `json:"order_id"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	PaymentMethod  string          `json:"payment_method"`
	IdempotencyKey string          `json:"-"`
}

// CaptureResult is the provider's answer to a capture.
type CaptureResult struct {
	ProviderPaymentID string `json:"provider_payment_id"`
	Status            string `json:"status"`
}

// RefundRequest asks the provider to return money on a captured payment.
type RefundRequest struct {
	ProviderPaymentID string          `json:"provider_payment_id"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	IdempotencyKey    string          `json:"-"`
}

// RefundResult is the provider's answer to a refund.
type RefundResult struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
}

// PaymentGateway is the external money-movement boundary. Callers bound each
// call with a context deadline; implementations must respect it.
type PaymentGateway interface {
	Capture(ctx context.Context, req CaptureRequest) (*CaptureResult, error)
	Refund(ctx context.Context, req RefundRequest) (*RefundResult, error)
}
