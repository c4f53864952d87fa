package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/zen-systems/hybridgate/pkg/backend"
	"github.com/zen-systems/hybridgate/pkg/config"
	"github.com/zen-systems/hybridgate/pkg/gate"
	"github.com/zen-systems/hybridgate/pkg/router"
)

// Orchestrator executes routing decisions against the backend registry and
// drives the fallback chain on transport failure or quality rejection. It
// holds no per-request state: every Run is independent and safely
// retryable.
type Orchestrator struct {
	registry *backend.Registry
	policy   *router.Policy
	gate     *gate.ResponseGate
	cfg      *config.RoutingConfig
	debug    bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithDebug enables debug logging.
func WithDebug(debug bool) Option {
	return func(o *Orchestrator) {
		o.debug = debug
	}
}

// New creates an orchestrator over the given registry and routing config.
func New(registry *backend.Registry, cfg *config.RoutingConfig, opts ...Option) *Orchestrator {
	if cfg == nil {
		cfg = config.DefaultRoutingConfig()
	}
	o := &Orchestrator{
		registry: registry,
		policy:   router.NewPolicy(cfg),
		gate:     gate.NewResponseGate(),
		cfg:      cfg,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run routes the prompt, invokes the chosen backend, applies the quality
// gate, and falls back along the transition table when allowed. Only chain
// exhaustion or a total absence of backends surfaces as an error;
// individual backend failures are recovered internally and reported
// through FallbackUsed/FallbackReason.
func (o *Orchestrator) Run(ctx context.Context, prompt string, priority router.Priority, allowFallback bool) (*Result, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	features := router.Extract(prompt)
	avail := o.registry.Snapshot()

	decision, err := o.policy.Decide(features, priority, avail)
	if err != nil {
		return nil, err
	}
	allowFallback = allowFallback && o.cfg.FallbackAllowed()

	if o.debug {
		log.Printf("[orchestrator] routed to %s (%.2f): %s", decision.Backend, decision.Confidence, decision.Reason)
	}

	var attempts []Attempt

	text, err := o.invoke(ctx, decision.Backend, prompt, features)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		attempts = append(attempts, Attempt{Backend: decision.Backend, Err: err})

		if allowFallback {
			if next, ok := fallbackTarget(decision.Backend, failureTransport, avail); ok {
				if o.debug {
					log.Printf("[orchestrator] %s failed, falling back to %s: %v", decision.Backend, next, err)
				}
				fbText, fbErr := o.invoke(ctx, next, prompt, features)
				if fbErr == nil {
					return &Result{
						Response:       fbText,
						BackendUsed:    next,
						Decision:       decision,
						FallbackUsed:   true,
						FallbackReason: fmt.Sprintf("%s backend failed: %v", decision.Backend, err),
					}, nil
				}
				if errors.Is(fbErr, context.Canceled) {
					return nil, fbErr
				}
				attempts = append(attempts, Attempt{Backend: next, Err: fbErr})
			}
		}
		return nil, &AllBackendsFailedError{Attempts: attempts}
	}

	// The quality gate only guards the small model; larger backends are
	// trusted, and there is nothing stronger to escalate to anyway.
	if decision.Backend == backend.KindSmall && allowFallback {
		if res := o.gate.Check(text, prompt); !res.Passed {
			if next, ok := fallbackTarget(backend.KindSmall, failureQuality, avail); ok {
				if o.debug {
					log.Printf("[orchestrator] quality gate failed (%s), retrying on %s", res.Signal, next)
				}
				fbText, fbErr := o.invoke(ctx, next, prompt, features)
				if fbErr == nil {
					return &Result{
						Response:       fbText,
						BackendUsed:    next,
						Decision:       decision,
						FallbackUsed:   true,
						FallbackReason: fmt.Sprintf("quality check failed: %s", res.Signal),
					}, nil
				}
				if errors.Is(fbErr, context.Canceled) {
					return nil, fbErr
				}
				attempts = append(attempts,
					Attempt{Backend: backend.KindSmall, Err: fmt.Errorf("quality check failed: %s", res.Signal)},
					Attempt{Backend: next, Err: fbErr})
				return nil, &AllBackendsFailedError{Attempts: attempts}
			}
		}
	}

	return &Result{
		Response:    text,
		BackendUsed: decision.Backend,
		Decision:    decision,
	}, nil
}

// invoke calls one backend with a deadline derived from its estimated
// latency, classifying any failure.
func (o *Orchestrator) invoke(ctx context.Context, kind backend.Kind, prompt string, features router.Features) (string, error) {
	b, ok := o.registry.Get(kind)
	if !ok {
		return "", &backend.Error{Kind: backend.ErrUnavailable, Backend: kind, Err: errors.New("backend not configured")}
	}

	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout(kind, features))
	defer cancel()

	text, err := b.Complete(callCtx, prompt, backend.Options{})
	if err != nil {
		return "", backend.Classify(kind, err)
	}
	return text, nil
}

// callTimeout scales the backend's estimated latency by the configured
// multiplier, clamped to the configured floor and ceiling.
func (o *Orchestrator) callTimeout(kind backend.Kind, features router.Features) time.Duration {
	estimated := router.EstimateLatency(o.cfg.ProfileFor(kind), features.EstimatedTokens)
	seconds := estimated * o.cfg.Timeouts.Multiplier
	if seconds < o.cfg.Timeouts.MinSeconds {
		seconds = o.cfg.Timeouts.MinSeconds
	}
	if seconds > o.cfg.Timeouts.MaxSeconds {
		seconds = o.cfg.Timeouts.MaxSeconds
	}
	return time.Duration(seconds * float64(time.Second))
}

// runPreferred attempts the given backends in order, skipping unavailable
// tiers, and returns the first success. Used by the distiller, which biases
// stages toward specific tiers instead of consulting the routing policy.
func (o *Orchestrator) runPreferred(ctx context.Context, prompt string, order []backend.Kind) (string, backend.Kind, error) {
	avail := o.registry.Snapshot()
	features := router.Extract(prompt)

	var attempts []Attempt
	for _, kind := range order {
		if !avail.ForKind(kind) {
			continue
		}
		text, err := o.invoke(ctx, kind, prompt, features)
		if err == nil {
			return text, kind, nil
		}
		if errors.Is(err, context.Canceled) {
			return "", "", err
		}
		attempts = append(attempts, Attempt{Backend: kind, Err: err})
	}

	if len(attempts) == 0 {
		return "", "", router.ErrNoBackendAvailable
	}
	return "", "", &AllBackendsFailedError{Attempts: attempts}
}

// Registry exposes the backend registry, e.g. for health refreshes.
func (o *Orchestrator) Registry() *backend.Registry {
	return o.registry
}
