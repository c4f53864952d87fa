package backend

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GoogleBackend serves Gemini models through the Google GenAI API.
type GoogleBackend struct {
	kind    Kind
	client  *genai.Client
	model   string
	profile Profile
}

// NewGoogleBackend creates a Gemini-backed provider for the given tier.
func NewGoogleBackend(kind Kind, apiKey, model string, profile Profile) (*GoogleBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google API key is required")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create google client: %w", err)
	}

	return &GoogleBackend{
		kind:    kind,
		client:  client,
		model:   model,
		profile: profile,
	}, nil
}

// Kind returns the backend tier.
func (b *GoogleBackend) Kind() Kind {
	return b.kind
}

// Profile returns the static cost/latency profile.
func (b *GoogleBackend) Profile() Profile {
	return b.profile
}

// IsAvailable reports whether the client was configured with credentials.
func (b *GoogleBackend) IsAvailable() bool {
	return b.client != nil
}

// Complete sends a prompt to Gemini and returns the response text.
func (b *GoogleBackend) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	var cfg *genai.GenerateContentConfig
	if opts.MaxTokens > 0 {
		cfg = &genai.GenerateContentConfig{MaxOutputTokens: int32(opts.MaxTokens)}
	}

	resp, err := b.client.Models.GenerateContent(ctx, b.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", Classify(b.kind, fmt.Errorf("google API error: %w", err))
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", &Error{Kind: ErrProvider, Backend: b.kind, Err: fmt.Errorf("google returned no candidates")}
	}

	var content string
	if resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text != "" {
				content += part.Text
			}
		}
	}

	return content, nil
}
