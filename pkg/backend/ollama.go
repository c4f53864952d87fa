package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const defaultOllamaEndpoint = "http://localhost:11434"

// OllamaBackend serves a locally hosted model over Ollama's chat API.
type OllamaBackend struct {
	kind       Kind
	endpoint   string
	model      string
	maxTokens  int
	profile    Profile
	httpClient *http.Client

	mu          sync.Mutex
	lastProbe   time.Time
	lastHealthy bool
}

// ollamaRequest is the /api/chat request body.
type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	NumPredict int `json:"num_predict,omitempty"`
}

// ollamaResponse is the non-streaming /api/chat response body.
type ollamaResponse struct {
	Model   string `json:"model"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done  bool   `json:"done"`
	Error string `json:"error,omitempty"`
}

// NewOllamaBackend creates a local backend for the given tier.
func NewOllamaBackend(kind Kind, endpoint, model string, maxTokens int, profile Profile) *OllamaBackend {
	if endpoint == "" {
		endpoint = defaultOllamaEndpoint
	}
	endpoint = strings.TrimSuffix(endpoint, "/")
	return &OllamaBackend{
		kind:       kind,
		endpoint:   endpoint,
		model:      model,
		maxTokens:  maxTokens,
		profile:    profile,
		httpClient: &http.Client{},
	}
}

// Kind returns the backend tier.
func (b *OllamaBackend) Kind() Kind {
	return b.kind
}

// Profile returns the static cost/latency profile.
func (b *OllamaBackend) Profile() Profile {
	return b.profile
}

// Complete sends a prompt to the local model and returns the response text.
func (b *OllamaBackend) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = b.maxTokens
	}

	reqBody := ollamaRequest{
		Model: b.model,
		Messages: []ollamaMessage{
			{Role: "user", Content: prompt},
		},
		Stream:  false,
		Options: ollamaOptions{NumPredict: maxTokens},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", b.endpoint+"/api/chat", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", Classify(b.kind, fmt.Errorf("ollama request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", Classify(b.kind, fmt.Errorf("failed to read response body: %w", err))
	}

	var ollamaResp ollamaResponse
	if err := json.Unmarshal(body, &ollamaResp); err != nil {
		return "", &Error{Kind: ErrProvider, Backend: b.kind, Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	if ollamaResp.Error != "" {
		return "", &Error{Kind: ErrProvider, Backend: b.kind, Err: fmt.Errorf("ollama error: %s", ollamaResp.Error)}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &Error{Kind: ErrProvider, Backend: b.kind, Err: fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(body))}
	}

	return ollamaResp.Message.Content, nil
}

// IsAvailable probes the Ollama server, caching the result briefly so
// routing decisions stay cheap.
func (b *OllamaBackend) IsAvailable() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if time.Since(b.lastProbe) < 30*time.Second {
		return b.lastHealthy
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", b.endpoint+"/api/tags", nil)
	if err != nil {
		b.lastProbe = time.Now()
		b.lastHealthy = false
		return false
	}

	resp, err := b.httpClient.Do(req)
	if err == nil {
		resp.Body.Close()
	}

	b.lastProbe = time.Now()
	b.lastHealthy = err == nil && resp.StatusCode == http.StatusOK
	return b.lastHealthy
}
