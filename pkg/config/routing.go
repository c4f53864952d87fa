package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zen-systems/hybridgate/pkg/backend"
)

// RoutingConfig holds the routing thresholds, scoring weights, call
// timeouts, and per-tier backend definitions.
type RoutingConfig struct {
	Thresholds      ThresholdConfig          `yaml:"thresholds"`
	Weights         WeightConfig             `yaml:"weights"`
	Timeouts        TimeoutConfig            `yaml:"timeouts,omitempty"`
	Backends        map[string]BackendConfig `yaml:"backends"`
	FallbackEnabled *bool                    `yaml:"fallback_enabled,omitempty"`
}

// ThresholdConfig holds the routing decision thresholds.
type ThresholdConfig struct {
	// Complexity above which a prompt is considered hard.
	Complexity float64 `yaml:"complexity,omitempty"`

	// MaxSmallModelTokens is the word-count ceiling for the small model.
	MaxSmallModelTokens float64 `yaml:"max_small_model_tokens,omitempty"`

	// LargeInputTokens is the estimated-token floor that forces cloud routing.
	LargeInputTokens float64 `yaml:"large_input_tokens,omitempty"`

	// CloudPreferredTokens is the estimated-token floor above which the
	// cloud backend is preferred when available.
	CloudPreferredTokens float64 `yaml:"cloud_preferred_tokens,omitempty"`
}

// WeightConfig holds the balanced-mode scoring weights. The recommended
// defaults sum to 1.0; other totals work but change score magnitudes.
type WeightConfig struct {
	Cost    float64 `yaml:"cost,omitempty"`
	Latency float64 `yaml:"latency,omitempty"`
	Quality float64 `yaml:"quality,omitempty"`
}

// TimeoutConfig derives the per-call deadline from the backend's estimated
// latency: multiplier times the estimate, clamped to [min, max] seconds.
type TimeoutConfig struct {
	Multiplier float64 `yaml:"multiplier,omitempty"`
	MinSeconds float64 `yaml:"min_seconds,omitempty"`
	MaxSeconds float64 `yaml:"max_seconds,omitempty"`
}

// BackendConfig defines one backend tier.
type BackendConfig struct {
	Provider  string          `yaml:"provider"`
	Model     string          `yaml:"model"`
	Endpoint  string          `yaml:"endpoint,omitempty"`
	MaxTokens int             `yaml:"max_tokens,omitempty"`
	Profile   backend.Profile `yaml:"profile,omitempty"`
}

// LoadRoutingConfig reads routing configuration from a YAML file.
func LoadRoutingConfig(path string) (*RoutingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg RoutingConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyRoutingDefaults(&cfg)
	return &cfg, nil
}

// DefaultRoutingConfig returns the default routing configuration: two local
// Ollama models plus a Gemini cloud fallback.
func DefaultRoutingConfig() *RoutingConfig {
	cfg := &RoutingConfig{
		Backends: map[string]BackendConfig{
			"small": {
				Provider:  "ollama",
				Model:     "llama3.2",
				Endpoint:  "http://localhost:11434",
				MaxTokens: 2048,
			},
			"large": {
				Provider:  "ollama",
				Model:     "llama3",
				Endpoint:  "http://localhost:11434",
				MaxTokens: 4096,
			},
			"cloud": {
				Provider:  "google",
				Model:     "gemini-2.5-flash",
				MaxTokens: 4096,
			},
		},
	}

	applyRoutingDefaults(cfg)
	return cfg
}

// ProfileFor returns the cost/latency profile for a tier, falling back to
// the stock constants when the config leaves it zero.
func (c *RoutingConfig) ProfileFor(kind backend.Kind) backend.Profile {
	if c != nil {
		if bc, ok := c.Backends[kind.String()]; ok {
			if bc.Profile != (backend.Profile{}) {
				return bc.Profile
			}
		}
	}
	return backend.DefaultProfile(kind)
}

// FallbackAllowed reports whether fallback is enabled globally.
func (c *RoutingConfig) FallbackAllowed() bool {
	if c == nil || c.FallbackEnabled == nil {
		return true
	}
	return *c.FallbackEnabled
}

// Validate checks that configured backend tiers and providers are known.
func (c *RoutingConfig) Validate() error {
	if c == nil {
		return fmt.Errorf("routing config is nil")
	}
	for tier, bc := range c.Backends {
		if _, err := backend.ParseKind(tier); err != nil {
			return fmt.Errorf("invalid backend tier %q", tier)
		}
		switch bc.Provider {
		case "ollama", "google", "openai", "anthropic", "mock":
		default:
			return fmt.Errorf("backend %s: unknown provider %q", tier, bc.Provider)
		}
		if bc.Model == "" {
			return fmt.Errorf("backend %s: model is required", tier)
		}
	}
	return nil
}

func applyRoutingDefaults(cfg *RoutingConfig) {
	if cfg == nil {
		return
	}
	if cfg.Thresholds.Complexity == 0 {
		cfg.Thresholds.Complexity = 0.6
	}
	if cfg.Thresholds.MaxSmallModelTokens == 0 {
		cfg.Thresholds.MaxSmallModelTokens = 500
	}
	if cfg.Thresholds.LargeInputTokens == 0 {
		cfg.Thresholds.LargeInputTokens = 2000
	}
	if cfg.Thresholds.CloudPreferredTokens == 0 {
		cfg.Thresholds.CloudPreferredTokens = 1000
	}
	if cfg.Weights == (WeightConfig{}) {
		cfg.Weights = WeightConfig{Cost: 0.3, Latency: 0.3, Quality: 0.4}
	}
	if cfg.Timeouts.Multiplier == 0 {
		cfg.Timeouts.Multiplier = 3.0
	}
	if cfg.Timeouts.MinSeconds == 0 {
		cfg.Timeouts.MinSeconds = 10
	}
	if cfg.Timeouts.MaxSeconds == 0 {
		cfg.Timeouts.MaxSeconds = 120
	}
	if cfg.Timeouts.MaxSeconds < cfg.Timeouts.MinSeconds {
		cfg.Timeouts.MaxSeconds = cfg.Timeouts.MinSeconds
	}
}
