package backend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind ErrorKind
	}{
		{
			name:     "deadline exceeded",
			err:      context.DeadlineExceeded,
			wantKind: ErrTimeout,
		},
		{
			name:     "wrapped deadline",
			err:      fmt.Errorf("request failed: %w", context.DeadlineExceeded),
			wantKind: ErrTimeout,
		},
		{
			name:     "connection refused",
			err:      fmt.Errorf("dial failed: %w", syscall.ECONNREFUSED),
			wantKind: ErrUnavailable,
		},
		{
			name:     "host unreachable",
			err:      fmt.Errorf("dial failed: %w", syscall.EHOSTUNREACH),
			wantKind: ErrUnavailable,
		},
		{
			name:     "net op error",
			err:      &net.OpError{Op: "dial", Err: errors.New("no route")},
			wantKind: ErrUnavailable,
		},
		{
			name:     "anything else is a provider error",
			err:      errors.New("model not found"),
			wantKind: ErrProvider,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(KindSmall, tt.err)

			var be *Error
			if !errors.As(got, &be) {
				t.Fatalf("Classify did not return a *Error: %v", got)
			}
			if be.Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", be.Kind, tt.wantKind)
			}
			if be.Backend != KindSmall {
				t.Errorf("Backend = %s, want %s", be.Backend, KindSmall)
			}
			if !errors.Is(got, tt.err) {
				t.Error("classified error should wrap the original")
			}
		})
	}
}

func TestClassify_NilPassesThrough(t *testing.T) {
	if got := Classify(KindSmall, nil); got != nil {
		t.Errorf("Classify(nil) = %v, want nil", got)
	}
}

func TestClassify_CancellationPassesThrough(t *testing.T) {
	err := fmt.Errorf("call aborted: %w", context.Canceled)
	got := Classify(KindSmall, err)

	if got != err {
		t.Errorf("Classify rewrote a cancellation: %v", got)
	}
	var be *Error
	if errors.As(got, &be) {
		t.Error("cancellation should not be wrapped as a backend error")
	}
}

func TestClassify_AlreadyClassified(t *testing.T) {
	orig := &Error{Kind: ErrProvider, Backend: KindLarge, Err: errors.New("bad request")}
	wrapped := fmt.Errorf("attempt 2: %w", orig)

	if got := Classify(KindSmall, wrapped); got != wrapped {
		t.Errorf("Classify rewrapped an already classified error: %v", got)
	}
}

func TestErrorPredicates(t *testing.T) {
	unavailable := &Error{Kind: ErrUnavailable, Backend: KindSmall, Err: errors.New("down")}
	timeout := &Error{Kind: ErrTimeout, Backend: KindLarge, Err: errors.New("slow")}
	provider := &Error{Kind: ErrProvider, Backend: KindCloud, Err: errors.New("rejected")}

	if !IsUnavailable(unavailable) || IsUnavailable(timeout) || IsUnavailable(provider) {
		t.Error("IsUnavailable misclassified")
	}
	if !IsTimeout(timeout) || IsTimeout(unavailable) {
		t.Error("IsTimeout misclassified")
	}
	if !IsProviderError(provider) || IsProviderError(timeout) {
		t.Error("IsProviderError misclassified")
	}
	if IsUnavailable(errors.New("plain")) {
		t.Error("plain errors should not match any predicate")
	}
}

func TestErrorKind_String(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{ErrUnavailable, "unavailable"},
		{ErrTimeout, "timeout"},
		{ErrProvider, "provider_error"},
		{ErrorKind(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
