package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

// DefaultMaxTokens bounds responses when a request does not set its own cap.
const DefaultMaxTokens = 4096

// GenerateRequest describes a single text generation call.
type GenerateRequest struct {
	// Prompt is the user-role content sent to the model.
	Prompt string
	// SystemPrompt steers the model for this call. Optional.
	SystemPrompt string
	// MaxTokens caps the response length. Zero means DefaultMaxTokens.
	MaxTokens int64
}

// Generator produces one text completion per call. The engine drives a
// single call at a time, so implementations do not need to support
// concurrent use.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

var _ Generator = (*Client)(nil)

// Generate sends one prompt to the model and returns the concatenated text
// blocks of the response. Token usage is recorded on the client's tracker.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: req.SystemPrompt},
		}
	}

	resp, err := c.inner.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic message call: %w", err)
	}

	c.tracker.Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)

	var b strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(variant.Text)
		}
	}
	return b.String(), nil
}
