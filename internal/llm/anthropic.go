package llm

import (
	"context"
	"fmt"

	anthropic "github.com/liushuangls/go-anthropic/v2"
)

const (
	defaultMaxTokens   = 4096
	defaultTemperature = 0.2
)

// AnthropicClient implements Client using the Anthropic Claude API.
type AnthropicClient struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicClient creates a new Anthropic Claude client.
func NewAnthropicClient(apiKey, model string) *AnthropicClient {
	return &AnthropicClient{
		client: anthropic.NewClient(apiKey),
		model:  model,
	}
}

// Complete sends a completion request to the Anthropic Claude API.
func (c *AnthropicClient) Complete(ctx context.Context, req *Request) (*Response, error) {
	temperature := float32(defaultTemperature)

	apiReq := anthropic.MessagesRequest{
		Model:       anthropic.Model(c.model),
		MaxTokens:   defaultMaxTokens,
		Temperature: &temperature,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(req.UserPrompt),
		},
	}

	if req.SystemPrompt != "" {
		apiReq.MultiSystem = []anthropic.MessageSystemPart{
			anthropic.NewSystemMessagePart(req.SystemPrompt),
		}
	}

	resp, err := c.client.CreateMessages(ctx, apiReq)
	if err != nil {
		return nil, fmt.Errorf("anthropic API error: %w", err)
	}

	return &Response{
		Content:    resp.GetFirstContentText(),
		Model:      string(resp.Model),
		TokensUsed: resp.Usage.InputTokens + resp.Usage.OutputTokens,
	}, nil
}
