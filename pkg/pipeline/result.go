package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zen-systems/hybridgate/pkg/backend"
	"github.com/zen-systems/hybridgate/pkg/router"
)

// Result captures one orchestrated request. The JSON field names are a
// wire contract consumed by existing dashboards; do not rename.
// BackendUsed differs from Decision.Backend exactly when FallbackUsed is
// true.
type Result struct {
	Response       string           `json:"response"`
	BackendUsed    backend.Kind     `json:"model_used"`
	Decision       *router.Decision `json:"decision"`
	FallbackUsed   bool             `json:"fallback_used"`
	FallbackReason string           `json:"fallback_reason,omitempty"`
}

// DistillationResult captures a two-stage distillation run. RefinedPrompt
// equals OriginalPrompt exactly when DistillationUsed is false.
type DistillationResult struct {
	OriginalPrompt   string       `json:"original_prompt"`
	RefinedPrompt    string       `json:"refined_prompt"`
	FinalResponse    string       `json:"final_response"`
	BackendUsed      backend.Kind `json:"model_used"`
	DistillationUsed bool         `json:"distillation_used"`
}

// ErrEmptyPrompt is returned for requests with no prompt text.
var ErrEmptyPrompt = errors.New("prompt is empty")

// Attempt records one failed backend call for diagnostics.
type Attempt struct {
	Backend backend.Kind
	Err     error
}

// AllBackendsFailedError is the terminal failure: every backend in the
// fallback chain was attempted and failed. It carries the last error from
// each attempted backend.
type AllBackendsFailedError struct {
	Attempts []Attempt
}

func (e *AllBackendsFailedError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Backend, a.Err))
	}
	return fmt.Sprintf("all backends failed (%s)", strings.Join(parts, "; "))
}

// Unwrap exposes the per-backend errors to errors.Is/As.
func (e *AllBackendsFailedError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		if a.Err != nil {
			errs = append(errs, a.Err)
		}
	}
	return errs
}
