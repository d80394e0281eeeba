package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gordyrad/notereport/internal/config"
)

// GenericClient implements Client against an arbitrary chat-completion
// endpoint: the request body comes from the default payload or the
// configured template, and the response text is located with the ordered
// dotted-path list.
type GenericClient struct {
	cfg     config.APIConfig
	invoker *Invoker
}

// NewGenericClient creates a client for the configured endpoint.
func NewGenericClient(cfg config.APIConfig) *GenericClient {
	return &GenericClient{
		cfg:     cfg,
		invoker: NewInvoker(cfg),
	}
}

// Complete builds the payload, posts it, and extracts the response text.
func (c *GenericClient) Complete(ctx context.Context, req *Request) (*Response, error) {
	payload, err := BuildPayload(c.cfg.Model, req.SystemPrompt, req.UserPrompt, c.cfg.RequestTemplate)
	if err != nil {
		return nil, err
	}

	raw, err := c.invoker.Do(ctx, payload)
	if err != nil {
		return nil, err
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("api returned non-JSON response: %s", truncate(string(raw), maxErrorBody))
	}

	content, err := Extract(data, c.cfg.ResponsePaths, c.cfg.StripThink)
	if err != nil {
		return nil, err
	}

	resp := &Response{Content: content, Model: c.cfg.Model}

	// Best-effort metadata; absent fields are fine.
	if v, ok := resolvePath(data, "model"); ok {
		if s, ok := v.(string); ok && s != "" {
			resp.Model = s
		}
	}
	if v, ok := resolvePath(data, "usage.total_tokens"); ok {
		if n, ok := v.(float64); ok {
			resp.TokensUsed = int(n)
		}
	}
	return resp, nil
}
