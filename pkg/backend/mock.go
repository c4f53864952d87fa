package backend

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockBackend returns deterministic responses for local runs and tests.
type MockBackend struct {
	kind      Kind
	profile   Profile
	available bool

	mu              sync.Mutex
	responses       map[string]string
	defaultResponse string
	err             error
	delay           time.Duration
	calls           []string
}

// NewMockBackend creates a mock backend for the given tier.
func NewMockBackend(kind Kind) *MockBackend {
	return &MockBackend{
		kind:            kind,
		profile:         DefaultProfile(kind),
		available:       true,
		responses:       make(map[string]string),
		defaultResponse: fmt.Sprintf("%s response:", kind),
	}
}

// Kind returns the backend tier.
func (b *MockBackend) Kind() Kind {
	return b.kind
}

// Profile returns the static cost/latency profile.
func (b *MockBackend) Profile() Profile {
	return b.profile
}

// IsAvailable reports the configured availability.
func (b *MockBackend) IsAvailable() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.available
}

// SetAvailable toggles the reported availability.
func (b *MockBackend) SetAvailable(ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.available = ok
}

// SetResponse scripts the response for an exact prompt.
func (b *MockBackend) SetResponse(prompt, response string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.responses[prompt] = response
}

// SetDefaultResponse scripts the response for unscripted prompts.
func (b *MockBackend) SetDefaultResponse(response string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.defaultResponse = response
}

// SetError forces every Complete call to fail with err.
func (b *MockBackend) SetError(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = err
}

// SetDelay makes Complete block for d before responding.
func (b *MockBackend) SetDelay(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.delay = d
}

// Calls returns the prompts received so far.
func (b *MockBackend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.calls))
	copy(out, b.calls)
	return out
}

// Complete returns the scripted response for the prompt.
func (b *MockBackend) Complete(ctx context.Context, prompt string, _ Options) (string, error) {
	b.mu.Lock()
	b.calls = append(b.calls, prompt)
	err := b.err
	delay := b.delay
	response, ok := b.responses[prompt]
	if !ok {
		response = fmt.Sprintf("%s %s", b.defaultResponse, prompt)
	}
	b.mu.Unlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", Classify(b.kind, ctx.Err())
		case <-timer.C:
		}
	}

	if err != nil {
		return "", err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", Classify(b.kind, ctxErr)
	}
	return response, nil
}
