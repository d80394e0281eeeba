package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gordyrad/notereport/internal/config"
)

// maxErrorBody bounds how much of a failed response body is kept for
// diagnostics.
const maxErrorBody = 500

// Invoker performs the HTTP call against the configured endpoint. One
// request, one attempt; the timeout comes from the configuration.
type Invoker struct {
	cfg        config.APIConfig
	httpClient *http.Client
}

// NewInvoker creates an Invoker for the given API configuration.
func NewInvoker(cfg config.APIConfig) *Invoker {
	return &Invoker{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// Do posts the payload to the configured URL and returns the raw response
// body. Transport failures surface as *NetworkError, non-2xx statuses as
// *APIError with a truncated body.
func (inv *Invoker) Do(ctx context.Context, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, inv.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	inv.setHeaders(req.Header)

	resp, err := inv.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Body: truncate(string(raw), maxErrorBody)}
	}
	return raw, nil
}

// setHeaders builds the outbound header set: JSON content type, the auth
// header when a key is configured, then any extra headers. Extra headers
// are applied last and win on a direct key collision.
func (inv *Invoker) setHeaders(h http.Header) {
	h.Set("Content-Type", "application/json")
	if inv.cfg.Key != "" {
		value := inv.cfg.Key
		if inv.cfg.AuthScheme != "" {
			value = strings.TrimSpace(inv.cfg.AuthScheme + " " + inv.cfg.Key)
		}
		h.Set(inv.cfg.AuthHeader, value)
	}
	for k, v := range inv.cfg.ExtraHeaders {
		h.Set(k, v)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
