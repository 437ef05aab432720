package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/merchantdesk/backoffice/pkg/apperr"
)

// declineThreshold makes large sandbox charges fail so the failure paths can
// be exercised without a real provider.
var declineThreshold = decimal.NewFromInt(10000)

// SandboxGateway approves everything under the decline threshold after a
// short delay. Used in local development instead of the provider API.
type SandboxGateway struct {
	delay time.Duration
}

// NewSandboxGateway creates a sandbox gateway
func NewSandboxGateway() *SandboxGateway {
	return &SandboxGateway{delay: 100 * time.Millisecond}
}

func (g *SandboxGateway) Capture(ctx context.Context, req CaptureRequest) (*CaptureResult, error) {
	select {
	case <-ctx.Done():
		return nil, apperr.Wrap(apperr.CodeGatewayFailure, ctx.Err(), "gateway call timed out")
	case <-time.After(g.delay):
	}
	if req.Amount.GreaterThanOrEqual(declineThreshold) {
		return nil, apperr.New(apperr.CodeGatewayFailure, "sandbox declined the charge")
	}
	return &CaptureResult{
		ProviderPaymentID: fmt.Sprintf("sbx_pay_%s", uuid.New().String()[:12]),
		Status:            "succeeded",
	}, nil
}

func (g *SandboxGateway) Refund(ctx context.Context, req RefundRequest) (*RefundResult, error) {
	select {
	case <-ctx.Done():
		return nil, apperr.Wrap(apperr.CodeGatewayFailure, ctx.Err(), "gateway call timed out")
	case <-time.After(g.delay):
	}
	if req.ProviderPaymentID == "" {
		return nil, apperr.New(apperr.CodeGatewayFailure, "sandbox refund requires a provider payment id")
	}
	return &RefundResult{
		TransactionID: fmt.Sprintf("sbx_ref_%s", uuid.New().String()[:12]),
		Status:        "succeeded",
	}, nil
}
