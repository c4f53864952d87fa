package gate

import (
	"strings"
	"testing"
)

func TestResponseGate_Check(t *testing.T) {
	g := NewResponseGate()

	tests := []struct {
		name       string
		response   string
		prompt     string
		wantPassed bool
		wantSignal Signal
	}{
		{
			name:       "substantive response passes",
			response:   "The capital of France is Paris, which has been the seat of government since the tenth century.",
			prompt:     "What is the capital of France?",
			wantPassed: true,
		},
		{
			name:       "empty response",
			response:   "",
			prompt:     "What is the capital of France?",
			wantSignal: SignalTooShort,
		},
		{
			name:       "response below minimum length",
			response:   "Paris.",
			prompt:     "What is the capital of France?",
			wantSignal: SignalTooShort,
		},
		{
			name:       "tiny response to a huge prompt",
			response:   strings.Repeat("a", 40),
			prompt:     strings.Repeat("x", 1000),
			wantSignal: SignalDisproportionate,
		},
		{
			name:       "proportionate response to a huge prompt passes",
			response:   strings.Repeat("a", 200),
			prompt:     strings.Repeat("x", 1000),
			wantPassed: true,
		},
		{
			name:       "two distinct error indicators",
			response:   "I'm sorry, an error occurred while processing your request.",
			prompt:     "What is the capital of France?",
			wantSignal: SignalErrorIndicators,
		},
		{
			name:       "refusal language",
			response:   "I cannot help with that and am unable to continue.",
			prompt:     "What is the capital of France?",
			wantSignal: SignalErrorIndicators,
		},
		{
			name:       "single indicator passes",
			response:   "Sorry for the delay. The capital of France is Paris.",
			prompt:     "What is the capital of France?",
			wantPassed: true,
		},
		{
			name:       "repeated indicator counts once",
			response:   "error error error error error",
			prompt:     "hi",
			wantPassed: true,
		},
		{
			name:       "length check wins over indicators",
			response:   "error",
			prompt:     "What is the capital of France?",
			wantSignal: SignalTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := g.Check(tt.response, tt.prompt)
			if res.Passed != tt.wantPassed {
				t.Fatalf("Passed = %v, want %v (detail: %s)", res.Passed, tt.wantPassed, res.Detail)
			}
			if res.Signal != tt.wantSignal {
				t.Errorf("Signal = %q, want %q", res.Signal, tt.wantSignal)
			}
			if !res.Passed && res.Detail == "" {
				t.Error("failing result should carry a detail message")
			}
		})
	}
}

func TestResponseGate_Deterministic(t *testing.T) {
	g := NewResponseGate()
	response := "I'm sorry, an error occurred."
	prompt := "Explain quantum entanglement."

	first := g.Check(response, prompt)
	for i := 0; i < 5; i++ {
		res := g.Check(response, prompt)
		if res.Passed != first.Passed || res.Signal != first.Signal || res.Detail != first.Detail {
			t.Fatalf("Check not deterministic: %+v vs %+v", res, first)
		}
	}
}
