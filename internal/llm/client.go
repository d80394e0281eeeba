package llm

import (
	"context"
	"fmt"

	"github.com/gordyrad/notereport/internal/config"
)

// Client is the interface for completion providers.
type Client interface {
	// Complete sends a prompt pair to the provider and returns the
	// extracted text response. A single attempt is made; callers decide
	// whether a failed request is retried.
	Complete(ctx context.Context, req *Request) (*Response, error)
}

// Request represents a single completion request.
type Request struct {
	SystemPrompt string
	UserPrompt   string
}

// Response represents a completion response.
type Response struct {
	Content    string
	Model      string
	TokensUsed int
}

// NewClient creates the provider configured in cfg.
func NewClient(cfg config.APIConfig) (Client, error) {
	switch cfg.Provider {
	case config.ProviderGeneric:
		return NewGenericClient(cfg), nil
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg.Key, cfg.Model), nil
	case config.ProviderAnthropic:
		return NewAnthropicClient(cfg.Key, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}
