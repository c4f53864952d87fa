package gate

import (
	"fmt"
	"strings"
)

const (
	// minResponseLength is the absolute floor below which any response
	// fails, regardless of content.
	minResponseLength = 10

	// minPromptRatio is the minimum response length as a fraction of the
	// prompt length.
	minPromptRatio = 0.1

	// maxErrorIndicators is the number of distinct error phrases a
	// response may contain before it fails.
	maxErrorIndicators = 2
)

// errorIndicators is the fixed phrase set scanned for refusal or failure
// language. Each phrase counts at most once however often it appears.
var errorIndicators = []string{
	"error", "cannot", "unable", "sorry", "i don't know",
}

// ResponseGate applies deterministic heuristics to a completed response.
// It performs no I/O; identical inputs always produce identical results.
type ResponseGate struct{}

// NewResponseGate creates the standard response quality gate.
func NewResponseGate() *ResponseGate {
	return &ResponseGate{}
}

// Name returns the gate identifier.
func (g *ResponseGate) Name() string {
	return "response"
}

// Check evaluates a response against the prompt that produced it.
func (g *ResponseGate) Check(response, prompt string) *Result {
	if len(response) < minResponseLength {
		return NewFailingResult(SignalTooShort,
			fmt.Sprintf("response length %d below minimum %d", len(response), minResponseLength))
	}

	if float64(len(response)) < float64(len(prompt))*minPromptRatio {
		return NewFailingResult(SignalDisproportionate,
			fmt.Sprintf("response length %d below %.0f%% of prompt length %d",
				len(response), minPromptRatio*100, len(prompt)))
	}

	responseLower := strings.ToLower(response)
	count := 0
	var found []string
	for _, indicator := range errorIndicators {
		if strings.Contains(responseLower, indicator) {
			count++
			found = append(found, indicator)
		}
	}
	if count >= maxErrorIndicators {
		return NewFailingResult(SignalErrorIndicators,
			fmt.Sprintf("response contains %d error indicators: %s", count, strings.Join(found, ", ")))
	}

	return NewPassingResult()
}
