package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// PushPayload is sent to the mobile push gateway. The gateway fans out to the
// device tokens registered for the tenant.
type PushPayload struct {
	TenantID string `json:"tenant_id"`
	Event    string `json:"event"` // low_stock | payment_received | ...
	Title    string `json:"title"`
	Body     string `json:"body"`
}

// PushResponse is returned by the gateway after fan-out.
type PushResponse struct {
	Delivered int    `json:"delivered"`
	Status    string `json:"status"` // "ok" | "partial" | "failed"
}

// PushClient is an HTTP client for the push gateway. Keeping notification
// delivery behind a separate service isolates its outages from the backend.
type PushClient struct {
	gatewayURL string
	apiKey     string
	httpClient *http.Client
}

func NewPushClient(gatewayURL, apiKey string) *PushClient {
	return &PushClient{
		gatewayURL: gatewayURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Send posts a notification to the gateway.
func (c *PushClient) Send(ctx context.Context, payload PushPayload) (*PushResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("push: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL+"/notify", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("push: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("push: gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("push: gateway returned %d", resp.StatusCode)
	}

	var result PushResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("push: decode response: %w", err)
	}
	return &result, nil
}
