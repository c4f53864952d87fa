package backend

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicBackend serves Claude models, usable as the large tier.
type AnthropicBackend struct {
	kind       Kind
	client     anthropic.Client
	model      string
	maxTokens  int
	profile    Profile
	configured bool
}

// NewAnthropicBackend creates a Claude-backed provider for the given tier.
func NewAnthropicBackend(kind Kind, apiKey, model string, maxTokens int, profile Profile) (*AnthropicBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicBackend{
		kind:       kind,
		client:     client,
		model:      model,
		maxTokens:  maxTokens,
		profile:    profile,
		configured: true,
	}, nil
}

// Kind returns the backend tier.
func (b *AnthropicBackend) Kind() Kind {
	return b.kind
}

// Profile returns the static cost/latency profile.
func (b *AnthropicBackend) Profile() Profile {
	return b.profile
}

// IsAvailable reports whether the client was configured with credentials.
func (b *AnthropicBackend) IsAvailable() bool {
	return b.configured
}

// Complete sends a prompt to Claude and returns the response text.
func (b *AnthropicBackend) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = b.maxTokens
	}
	if maxTokens == 0 {
		maxTokens = 4096
	}

	resp, err := b.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(b.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", Classify(b.kind, fmt.Errorf("anthropic API error: %w", err))
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	return content, nil
}
