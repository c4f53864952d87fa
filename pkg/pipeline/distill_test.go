package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/zen-systems/hybridgate/pkg/backend"
)

func TestDistiller_Distill(t *testing.T) {
	env := newTestEnv(t, nil)
	prompt := "Explain caching to me please, like, how does caching work and stuff?"
	env.small.SetResponse(fmt.Sprintf(refineTemplate, prompt), "How does caching work?")

	result, err := NewDistiller(env.orch).Distill(context.Background(), prompt)
	if err != nil {
		t.Fatalf("Distill returned error: %v", err)
	}

	if !result.DistillationUsed {
		t.Error("DistillationUsed = false after a successful refinement")
	}
	if result.OriginalPrompt != prompt {
		t.Errorf("OriginalPrompt = %q", result.OriginalPrompt)
	}
	if result.RefinedPrompt != "How does caching work?" {
		t.Errorf("RefinedPrompt = %q", result.RefinedPrompt)
	}
	if result.BackendUsed != backend.KindCloud {
		t.Errorf("BackendUsed = %s, want cloud", result.BackendUsed)
	}
	if want := "cloud response: How does caching work?"; result.FinalResponse != want {
		t.Errorf("FinalResponse = %q, want %q", result.FinalResponse, want)
	}

	calls := env.small.Calls()
	if len(calls) != 1 || !strings.Contains(calls[0], "Rewrite the following request") {
		t.Errorf("small backend calls = %v, want one refinement call", calls)
	}
}

func TestDistiller_RefinementFailureUsesOriginal(t *testing.T) {
	env := newTestEnv(t, nil)
	env.small.SetError(errors.New("small down"))
	prompt := "How does caching work?"

	result, err := NewDistiller(env.orch).Distill(context.Background(), prompt)
	if err != nil {
		t.Fatalf("Distill returned error: %v", err)
	}

	if result.DistillationUsed {
		t.Error("DistillationUsed = true after a failed refinement")
	}
	if result.RefinedPrompt != prompt {
		t.Errorf("RefinedPrompt = %q, want the original prompt", result.RefinedPrompt)
	}
	if result.BackendUsed != backend.KindCloud {
		t.Errorf("BackendUsed = %s, want cloud", result.BackendUsed)
	}
}

func TestDistiller_EmptyRefinementUsesOriginal(t *testing.T) {
	env := newTestEnv(t, nil)
	env.small.SetResponse(fmt.Sprintf(refineTemplate, "How does caching work?"), "   \n")

	result, err := NewDistiller(env.orch).Distill(context.Background(), "How does caching work?")
	if err != nil {
		t.Fatalf("Distill returned error: %v", err)
	}
	if result.DistillationUsed {
		t.Error("DistillationUsed = true for a blank rewrite")
	}
	if result.RefinedPrompt != "How does caching work?" {
		t.Errorf("RefinedPrompt = %q, want the original prompt", result.RefinedPrompt)
	}
}

func TestDistiller_SmallUnavailableUsesOriginal(t *testing.T) {
	env := newTestEnv(t, nil)
	env.small.SetAvailable(false)
	env.registry.Refresh(context.Background())

	result, err := NewDistiller(env.orch).Distill(context.Background(), "How does caching work?")
	if err != nil {
		t.Fatalf("Distill returned error: %v", err)
	}
	if result.DistillationUsed {
		t.Error("DistillationUsed = true with the small backend down")
	}
	if len(env.small.Calls()) != 0 {
		t.Error("unavailable small backend should not be called")
	}
}

func TestDistiller_LargeAnswersWhenCloudDown(t *testing.T) {
	env := newTestEnv(t, nil)
	env.cloud.SetAvailable(false)
	env.registry.Refresh(context.Background())

	result, err := NewDistiller(env.orch).Distill(context.Background(), "How does caching work?")
	if err != nil {
		t.Fatalf("Distill returned error: %v", err)
	}
	if result.BackendUsed != backend.KindLarge {
		t.Errorf("BackendUsed = %s, want large", result.BackendUsed)
	}
}

func TestDistiller_AnswerStageFailure(t *testing.T) {
	env := newTestEnv(t, nil)
	env.cloud.SetError(errors.New("cloud down"))
	env.large.SetError(errors.New("large down"))

	_, err := NewDistiller(env.orch).Distill(context.Background(), "How does caching work?")

	var all *AllBackendsFailedError
	if !errors.As(err, &all) {
		t.Fatalf("Distill error = %v, want AllBackendsFailedError", err)
	}
	if len(all.Attempts) != 2 {
		t.Errorf("Attempts = %d, want 2", len(all.Attempts))
	}
}

func TestDistiller_EmptyPrompt(t *testing.T) {
	env := newTestEnv(t, nil)

	if _, err := NewDistiller(env.orch).Distill(context.Background(), "  "); !errors.Is(err, ErrEmptyPrompt) {
		t.Fatalf("Distill error = %v, want ErrEmptyPrompt", err)
	}
}

func TestDistiller_Cancellation(t *testing.T) {
	env := newTestEnv(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewDistiller(env.orch).Distill(ctx, "How does caching work?"); !errors.Is(err, context.Canceled) {
		t.Fatalf("Distill error = %v, want context.Canceled", err)
	}
}
