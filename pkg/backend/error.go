package backend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// ErrorKind classifies a backend call failure.
type ErrorKind int

const (
	// ErrUnavailable means the backend could not be reached at all.
	ErrUnavailable ErrorKind = iota

	// ErrTimeout means the call exceeded its deadline.
	ErrTimeout

	// ErrProvider means the backend was reachable but rejected the request.
	ErrProvider
)

// String returns the error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrUnavailable:
		return "unavailable"
	case ErrTimeout:
		return "timeout"
	case ErrProvider:
		return "provider_error"
	default:
		return "unknown"
	}
}

// Error wraps a backend call failure with its classification.
type Error struct {
	Kind    ErrorKind
	Backend Kind
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "backend error"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s backend %s: %v", e.Backend, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s backend %s", e.Backend, e.Kind)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Classify wraps err as a backend Error, inferring the kind from the
// underlying failure. Context cancellation passes through unchanged so the
// caller can distinguish it from backend faults.
func Classify(backend Kind, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	kind := ErrProvider
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = ErrTimeout
	case isConnectionError(err):
		kind = ErrUnavailable
	}

	var be *Error
	if errors.As(err, &be) {
		return err
	}
	return &Error{Kind: kind, Backend: backend, Err: err}
}

func isConnectionError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EHOSTUNREACH) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// IsUnavailable reports whether err is an unreachable-backend error.
func IsUnavailable(err error) bool {
	return errorKindIs(err, ErrUnavailable)
}

// IsTimeout reports whether err is a deadline error.
func IsTimeout(err error) bool {
	return errorKindIs(err, ErrTimeout)
}

// IsProviderError reports whether the backend rejected the request.
func IsProviderError(err error) bool {
	return errorKindIs(err, ErrProvider)
}

func errorKindIs(err error, kind ErrorKind) bool {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}
