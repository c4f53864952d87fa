package backend

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIBackend serves OpenAI chat models, usable as the large or cloud tier.
type OpenAIBackend struct {
	kind       Kind
	client     openai.Client
	model      string
	maxTokens  int
	profile    Profile
	configured bool
}

// NewOpenAIBackend creates an OpenAI-backed provider for the given tier.
func NewOpenAIBackend(kind Kind, apiKey, model string, maxTokens int, profile Profile) (*OpenAIBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIBackend{
		kind:       kind,
		client:     client,
		model:      model,
		maxTokens:  maxTokens,
		profile:    profile,
		configured: true,
	}, nil
}

// Kind returns the backend tier.
func (b *OpenAIBackend) Kind() Kind {
	return b.kind
}

// Profile returns the static cost/latency profile.
func (b *OpenAIBackend) Profile() Profile {
	return b.profile
}

// IsAvailable reports whether the client was configured with credentials.
func (b *OpenAIBackend) IsAvailable() bool {
	return b.configured
}

// Complete sends a prompt to OpenAI and returns the response text.
func (b *OpenAIBackend) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = b.maxTokens
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(b.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if maxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(maxTokens))
	}

	resp, err := b.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", Classify(b.kind, fmt.Errorf("openai API error: %w", err))
	}

	if len(resp.Choices) == 0 {
		return "", &Error{Kind: ErrProvider, Backend: b.kind, Err: fmt.Errorf("openai returned no choices")}
	}

	return resp.Choices[0].Message.Content, nil
}
