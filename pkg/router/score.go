package router

import (
	"github.com/zen-systems/hybridgate/pkg/backend"
	"github.com/zen-systems/hybridgate/pkg/config"
)

// Scorer combines cost, latency, and a quality proxy into one weighted
// score per backend for balanced-mode selection.
type Scorer struct {
	weights  config.WeightConfig
	profiles func(backend.Kind) backend.Profile
}

// NewScorer creates a scorer over the configured weights and profiles.
func NewScorer(cfg *config.RoutingConfig) *Scorer {
	return &Scorer{
		weights:  cfg.Weights,
		profiles: cfg.ProfileFor,
	}
}

// Score returns the weighted score for running the prompt on one backend.
// Higher is better. Cost and latency are normalized against fixed scales
// (1 == $0.01 and 10s respectively) so the three terms stay comparable.
func (s *Scorer) Score(kind backend.Kind, f Features) float64 {
	profile := s.profiles(kind)
	cost := EstimateCost(profile, f.EstimatedTokens)
	latency := EstimateLatency(profile, f.EstimatedTokens)

	return s.weights.Cost*(1-cost*100) +
		s.weights.Latency*(1-latency/10) +
		s.weights.Quality*qualityProxy(kind, f.ComplexityScore)
}

// ScoreAll returns the weighted score for every backend kind.
func (s *Scorer) ScoreAll(f Features) map[backend.Kind]float64 {
	scores := make(map[backend.Kind]float64, len(backend.Kinds))
	for _, kind := range backend.Kinds {
		scores[kind] = s.Score(kind, f)
	}
	return scores
}

// qualityProxy estimates answer quality per backend from prompt
// complexity. The small model degrades on hard prompts; the large and
// cloud models improve on them.
func qualityProxy(kind backend.Kind, complexity float64) float64 {
	switch kind {
	case backend.KindSmall:
		q := 1 - complexity*0.5
		if q < 0.5 {
			return 0.5
		}
		return q
	case backend.KindLarge:
		q := complexity * 1.2
		if q > 1 {
			return 1
		}
		return q
	case backend.KindCloud:
		q := complexity * 1.3
		if q > 1 {
			return 1
		}
		return q
	}
	return 0
}
