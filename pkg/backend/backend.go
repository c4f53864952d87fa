package backend

import (
	"context"
	"fmt"
)

// Kind identifies one of the three backend tiers.
type Kind string

const (
	// KindSmall is the small/cheap local model.
	KindSmall Kind = "small"

	// KindLarge is the large local or hosted model.
	KindLarge Kind = "large"

	// KindCloud is the cloud fallback model.
	KindCloud Kind = "cloud"
)

// Kinds lists all backend kinds in ascending capability order.
var Kinds = []Kind{KindSmall, KindLarge, KindCloud}

// ParseKind validates a backend kind string.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindSmall, KindLarge, KindCloud:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown backend kind %q", s)
}

// String returns the kind identifier.
func (k Kind) String() string {
	return string(k)
}

// Profile holds the static cost/latency constants for one backend.
type Profile struct {
	BaseLatencySeconds     float64 `yaml:"base_latency_seconds" json:"base_latency_seconds"`
	LatencyPerTokenSeconds float64 `yaml:"latency_per_token_seconds" json:"latency_per_token_seconds"`
	CostPerToken           float64 `yaml:"cost_per_token" json:"cost_per_token"`
}

// Options carries per-call generation options.
type Options struct {
	MaxTokens int
}

// Backend defines the capability contract consumed by the orchestrator.
type Backend interface {
	// Complete sends a prompt to the model and returns the response text.
	Complete(ctx context.Context, prompt string, opts Options) (string, error)

	// Kind returns the backend tier this provider serves.
	Kind() Kind

	// Profile returns the static cost/latency profile.
	Profile() Profile

	// IsAvailable reports whether the backend is reachable. It must be
	// cheap: either a cached probe or a pure configuration check.
	IsAvailable() bool
}

// DefaultProfile returns the stock profile for a backend kind.
func DefaultProfile(kind Kind) Profile {
	switch kind {
	case KindSmall:
		return Profile{BaseLatencySeconds: 0.5, LatencyPerTokenSeconds: 1.0 / 500, CostPerToken: 0}
	case KindLarge:
		return Profile{BaseLatencySeconds: 2.0, LatencyPerTokenSeconds: 1.0 / 100, CostPerToken: 0}
	case KindCloud:
		return Profile{BaseLatencySeconds: 1.0, LatencyPerTokenSeconds: 1.0 / 200, CostPerToken: 0.00001}
	}
	return Profile{}
}
