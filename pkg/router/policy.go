package router

import (
	"fmt"

	"github.com/zen-systems/hybridgate/pkg/backend"
	"github.com/zen-systems/hybridgate/pkg/config"
)

// Fixed reason vocabulary, one string per rule. Dashboards group decisions
// by these, so wording changes are breaking.
const (
	reasonVeryLargeInput  = "very large input, routed for speed and reliability"
	reasonCostOptimized   = "low complexity, cost-optimized"
	reasonLargeInputSpeed = "large input, cloud preferred for speed"
	reasonSimpleSpeed     = "simple task, speed-optimized"
	reasonComplexAndLarge = "high complexity and large input, cloud preferred"
	reasonComplexOrLong   = "high complexity or long input"
	reasonWeightedScoring = "weighted scoring across cost, latency, and quality"
)

// Policy is the routing decision procedure. It is stateless: Decide is a
// pure function of the features, priority, availability snapshot, and
// configured thresholds, so identical inputs always produce identical
// decisions.
type Policy struct {
	cfg    *config.RoutingConfig
	scorer *Scorer
}

// NewPolicy creates a routing policy over the given configuration.
func NewPolicy(cfg *config.RoutingConfig) *Policy {
	if cfg == nil {
		cfg = config.DefaultRoutingConfig()
	}
	return &Policy{cfg: cfg, scorer: NewScorer(cfg)}
}

// Decide picks a backend for the prompt. The rules are evaluated in order
// and the first match wins. A rule never chooses an unavailable backend:
// the next-best available backend from the rule's preference ordering is
// substituted and noted in the reason.
func (p *Policy) Decide(f Features, priority Priority, avail backend.Availability) (*Decision, error) {
	if !avail.Any() {
		return nil, ErrNoBackendAvailable
	}
	thr := p.cfg.Thresholds

	// Rule 1: oversized input goes to cloud regardless of priority.
	if f.EstimatedTokens >= thr.LargeInputTokens && avail.Cloud {
		return p.decision(backend.KindCloud, 0.95, reasonVeryLargeInput, f, avail)
	}

	// Rule 2: cost priority short-circuits to the small model.
	if priority == PriorityCost && f.ComplexityScore < 0.8 && float64(f.WordCount) < thr.MaxSmallModelTokens {
		return p.decision(backend.KindSmall, 0.80, reasonCostOptimized, f, avail)
	}

	// Rule 3: speed priority prefers cloud for big prompts, small for easy
	// ones, and otherwise falls through to the complexity rule.
	if priority == PrioritySpeed {
		if f.EstimatedTokens >= thr.CloudPreferredTokens && avail.Cloud {
			return p.decision(backend.KindCloud, 0.90, reasonLargeInputSpeed, f, avail)
		}
		if f.ComplexityScore < 0.7 {
			return p.decision(backend.KindSmall, 0.75, reasonSimpleSpeed, f, avail)
		}
	}

	// Rule 4: hard or long prompts need the large model, or cloud when the
	// input is also big.
	if f.ComplexityScore > thr.Complexity || float64(f.WordCount) > thr.MaxSmallModelTokens {
		if f.EstimatedTokens >= thr.CloudPreferredTokens && avail.Cloud {
			return p.decision(backend.KindCloud, 0.90, reasonComplexAndLarge, f, avail)
		}
		return p.decision(backend.KindLarge, 0.90, reasonComplexOrLong, f, avail)
	}

	// Rule 5: balanced weighted scoring.
	return p.decideBalanced(f, avail)
}

func (p *Policy) decideBalanced(f Features, avail backend.Availability) (*Decision, error) {
	scores := p.scorer.ScoreAll(f)

	chosen := backend.KindLarge
	switch {
	case scores[backend.KindCloud] > scores[backend.KindLarge] &&
		scores[backend.KindCloud] > scores[backend.KindSmall] &&
		f.EstimatedTokens >= p.cfg.Thresholds.CloudPreferredTokens:
		chosen = backend.KindCloud
	case scores[backend.KindSmall] > scores[backend.KindLarge] && f.ComplexityScore < 0.7:
		chosen = backend.KindSmall
	}

	return p.decision(chosen, 0.85, reasonWeightedScoring, f, avail)
}

// decision resolves availability substitution and fills in the estimates
// for the backend that will actually serve the request.
func (p *Policy) decision(chosen backend.Kind, confidence float64, reason string, f Features, avail backend.Availability) (*Decision, error) {
	final, ok := firstAvailable(preferenceOrder(chosen), avail)
	if !ok {
		return nil, ErrNoBackendAvailable
	}
	if final != chosen {
		reason = fmt.Sprintf("%s; %s unavailable, substituted %s", reason, chosen, final)
	}

	profile := p.cfg.ProfileFor(final)
	return &Decision{
		Backend:          final,
		Confidence:       confidence,
		Reason:           reason,
		EstimatedCost:    EstimateCost(profile, f.EstimatedTokens),
		EstimatedLatency: EstimateLatency(profile, f.EstimatedTokens),
	}, nil
}

// preferenceOrder is the per-rule substitution ordering: the chosen kind
// first, then the nearest capability neighbors.
func preferenceOrder(chosen backend.Kind) []backend.Kind {
	switch chosen {
	case backend.KindSmall:
		return []backend.Kind{backend.KindSmall, backend.KindLarge, backend.KindCloud}
	case backend.KindCloud:
		return []backend.Kind{backend.KindCloud, backend.KindLarge, backend.KindSmall}
	default:
		return []backend.Kind{backend.KindLarge, backend.KindCloud, backend.KindSmall}
	}
}

func firstAvailable(order []backend.Kind, avail backend.Availability) (backend.Kind, bool) {
	for _, kind := range order {
		if avail.ForKind(kind) {
			return kind, true
		}
	}
	return "", false
}
