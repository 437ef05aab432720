package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/merchantdesk/backoffice/pkg/apperr"
	"github.com/merchantdesk/backoffice/pkg/logger"
)

// ProviderGateway talks to the payment provider's HTTP API.
type ProviderGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewProviderGateway creates a gateway client from environment configuration.
func NewProviderGateway() *ProviderGateway {
	baseURL := os.Getenv("GATEWAY_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:9100"
	}
	return &ProviderGateway{
		baseURL: baseURL,
		apiKey:  os.Getenv("GATEWAY_API_KEY"),
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (g *ProviderGateway) Capture(ctx context.Context, req CaptureRequest) (*CaptureResult, error) {
	var result CaptureResult
	if err := g.post(ctx, "/v1/charges", req.IdempotencyKey, req, &result); err != nil {
		return nil, err
	}
	if result.Status != "succeeded" {
		return nil, apperr.New(apperr.CodeGatewayFailure, "provider declined the charge")
	}
	return &result, nil
}

func (g *ProviderGateway) Refund(ctx context.Context, req RefundRequest) (*RefundResult, error) {
	var result RefundResult
	if err := g.post(ctx, "/v1/refunds", req.IdempotencyKey, req, &result); err != nil {
		return nil, err
	}
	if result.Status != "succeeded" {
		return nil, apperr.New(apperr.CodeGatewayFailure, "provider declined the refund")
	}
	return &result, nil
}

func (g *ProviderGateway) post(ctx context.Context, path, idempotencyKey string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, err, "failed to encode gateway request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, err, "failed to build gateway request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	}
	if idempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		logger.Error(ctx).Err(err).Str("path", path).Msg("Gateway request failed")
		return apperr.Wrap(apperr.CodeGatewayFailure, err, "gateway unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return apperr.New(apperr.CodeGatewayFailure, fmt.Sprintf("gateway returned status %d", resp.StatusCode))
	}
	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(resp.Body)
		logger.Warn(ctx).Int("status", resp.StatusCode).Str("body", string(data)).Msg("Gateway rejected request")
		return apperr.New(apperr.CodeGatewayFailure, fmt.Sprintf("gateway rejected request with status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Wrap(apperr.CodeGatewayFailure, err, "failed to decode gateway response")
	}
	return nil
}
