package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zen-systems/hybridgate/pkg/backend"
)

func TestDefaultRoutingConfig(t *testing.T) {
	cfg := DefaultRoutingConfig()

	if cfg.Thresholds.Complexity != 0.6 {
		t.Errorf("Complexity = %v, want 0.6", cfg.Thresholds.Complexity)
	}
	if cfg.Thresholds.MaxSmallModelTokens != 500 {
		t.Errorf("MaxSmallModelTokens = %v, want 500", cfg.Thresholds.MaxSmallModelTokens)
	}
	if cfg.Thresholds.LargeInputTokens != 2000 {
		t.Errorf("LargeInputTokens = %v, want 2000", cfg.Thresholds.LargeInputTokens)
	}
	if cfg.Thresholds.CloudPreferredTokens != 1000 {
		t.Errorf("CloudPreferredTokens = %v, want 1000", cfg.Thresholds.CloudPreferredTokens)
	}
	if cfg.Weights != (WeightConfig{Cost: 0.3, Latency: 0.3, Quality: 0.4}) {
		t.Errorf("Weights = %+v", cfg.Weights)
	}
	if cfg.Timeouts != (TimeoutConfig{Multiplier: 3.0, MinSeconds: 10, MaxSeconds: 120}) {
		t.Errorf("Timeouts = %+v", cfg.Timeouts)
	}
	if len(cfg.Backends) != 3 {
		t.Errorf("Backends has %d entries, want 3", len(cfg.Backends))
	}
	if !cfg.FallbackAllowed() {
		t.Error("FallbackAllowed = false by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}

func TestLoadRoutingConfig(t *testing.T) {
	content := `
thresholds:
  complexity: 0.7
weights:
  cost: 0.5
  latency: 0.2
  quality: 0.3
fallback_enabled: false
backends:
  small:
    provider: mock
    model: test-small
  cloud:
    provider: google
    model: gemini-2.5-flash
    profile:
      base_latency_seconds: 0.8
      latency_per_token_seconds: 0.004
      cost_per_token: 0.00002
`
	path := filepath.Join(t.TempDir(), "routing.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadRoutingConfig(path)
	if err != nil {
		t.Fatalf("LoadRoutingConfig returned error: %v", err)
	}

	if cfg.Thresholds.Complexity != 0.7 {
		t.Errorf("Complexity = %v, want the configured 0.7", cfg.Thresholds.Complexity)
	}
	if cfg.Thresholds.MaxSmallModelTokens != 500 {
		t.Errorf("MaxSmallModelTokens = %v, want the default 500", cfg.Thresholds.MaxSmallModelTokens)
	}
	if cfg.Weights.Cost != 0.5 {
		t.Errorf("Weights.Cost = %v, want 0.5", cfg.Weights.Cost)
	}
	if cfg.FallbackAllowed() {
		t.Error("FallbackAllowed = true, want the configured false")
	}

	if got := cfg.ProfileFor(backend.KindCloud); got.CostPerToken != 0.00002 {
		t.Errorf("ProfileFor(cloud).CostPerToken = %v, want the configured 0.00002", got.CostPerToken)
	}
	if got := cfg.ProfileFor(backend.KindSmall); got != backend.DefaultProfile(backend.KindSmall) {
		t.Errorf("ProfileFor(small) = %+v, want the stock profile when unset", got)
	}
	if got := cfg.ProfileFor(backend.KindLarge); got != backend.DefaultProfile(backend.KindLarge) {
		t.Errorf("ProfileFor(large) = %+v, want the stock profile for a missing tier", got)
	}
}

func TestLoadRoutingConfig_MissingFile(t *testing.T) {
	if _, err := LoadRoutingConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestRoutingConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RoutingConfig)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(*RoutingConfig) {},
		},
		{
			name: "unknown tier",
			mutate: func(cfg *RoutingConfig) {
				cfg.Backends["medium"] = BackendConfig{Provider: "ollama", Model: "llama3"}
			},
			wantErr: true,
		},
		{
			name: "unknown provider",
			mutate: func(cfg *RoutingConfig) {
				cfg.Backends["small"] = BackendConfig{Provider: "carrier-pigeon", Model: "pigeon-1"}
			},
			wantErr: true,
		},
		{
			name: "missing model",
			mutate: func(cfg *RoutingConfig) {
				cfg.Backends["small"] = BackendConfig{Provider: "ollama"}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultRoutingConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRoutingConfig_TimeoutClamp(t *testing.T) {
	content := `
timeouts:
  multiplier: 2
  min_seconds: 60
  max_seconds: 30
backends:
  small:
    provider: mock
    model: test
`
	path := filepath.Join(t.TempDir(), "routing.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadRoutingConfig(path)
	if err != nil {
		t.Fatalf("LoadRoutingConfig returned error: %v", err)
	}
	if cfg.Timeouts.MaxSeconds != 60 {
		t.Errorf("MaxSeconds = %v, want raised to the floor of 60", cfg.Timeouts.MaxSeconds)
	}
}
