package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shiftwise/payroll_engine/internal/core/ports/providers"
)

const transferTimeout = 60 * time.Second

// HTTPPaymentClient implements PaymentProvider against a JSON transfer API.
// The idempotency key travels in the Idempotency-Key header so the provider
// deduplicates retried transfers server-side.
type HTTPPaymentClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPPaymentClient creates a payment client for the given API endpoint.
func NewHTTPPaymentClient(baseURL, apiKey string) *HTTPPaymentClient {
	return &HTTPPaymentClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: transferTimeout},
	}
}

var _ providers.PaymentProvider = (*HTTPPaymentClient)(nil)

type transferPayload struct {
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Destination string            `json:"destination"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type transferResponse struct {
	TransferID string `json:"transferId"`
	Error      string `json:"error,omitempty"`
}

// Transfer executes one payment. The call blocks until the provider accepts
// or rejects the transfer.
func (c *HTTPPaymentClient) Transfer(ctx context.Context, req providers.TransferRequest) (*providers.TransferResult, error) {
	body, err := json.Marshal(transferPayload{
		Amount:      req.AmountMinorUnits,
		Currency:    req.CurrencyCode,
		Destination: req.DestinationToken,
		Metadata:    req.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transfer request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/transfers", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build transfer request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("transfer request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read transfer response: %w", err)
	}

	var parsed transferResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("invalid transfer response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		if parsed.Error != "" {
			return nil, fmt.Errorf("transfer rejected (status %d): %s", resp.StatusCode, parsed.Error)
		}
		return nil, fmt.Errorf("transfer rejected with status %d", resp.StatusCode)
	}
	if parsed.TransferID == "" {
		return nil, fmt.Errorf("transfer response missing transfer id")
	}
	return &providers.TransferResult{TransferID: parsed.TransferID}, nil
}
