// Package gate rejects degenerate or error-indicating responses so the
// orchestrator can fall back to a stronger backend.
package gate

// Signal identifies which quality check a response failed.
type Signal string

const (
	// SignalTooShort fires below the absolute minimum response length.
	SignalTooShort Signal = "too_short"

	// SignalDisproportionate fires when the response is tiny relative to
	// the prompt that produced it.
	SignalDisproportionate Signal = "disproportionate_length"

	// SignalErrorIndicators fires when the response reads like a refusal
	// or an error message.
	SignalErrorIndicators Signal = "error_indicators"
)

// Result contains the outcome of a gate evaluation.
type Result struct {
	Passed bool   `json:"passed"`
	Signal Signal `json:"signal,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// NewPassingResult creates a result indicating the gate passed.
func NewPassingResult() *Result {
	return &Result{Passed: true}
}

// NewFailingResult creates a result indicating the gate failed.
func NewFailingResult(signal Signal, detail string) *Result {
	return &Result{Passed: false, Signal: signal, Detail: detail}
}
