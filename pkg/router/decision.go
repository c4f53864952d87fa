package router

import (
	"errors"
	"fmt"

	"github.com/zen-systems/hybridgate/pkg/backend"
)

// Priority is the caller-supplied routing bias.
type Priority string

const (
	PriorityCost     Priority = "cost"
	PriorityBalanced Priority = "balanced"
	PrioritySpeed    Priority = "speed"
)

// ParsePriority validates a priority string. The empty string maps to
// balanced, matching the inbound transport contract's default.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityCost, PriorityBalanced, PrioritySpeed:
		return Priority(s), nil
	case "":
		return PriorityBalanced, nil
	}
	return "", fmt.Errorf("unknown priority %q (want cost, balanced, or speed)", s)
}

// ErrNoBackendAvailable is returned when no backend passes the
// availability check. It is fatal to the request: there is nothing left to
// fall back to.
var ErrNoBackendAvailable = errors.New("no backend available")

// Decision is the routing policy's output for one request. The JSON field
// names are a wire contract consumed by existing dashboards; do not rename.
type Decision struct {
	Backend          backend.Kind `json:"model_type"`
	Confidence       float64      `json:"confidence"`
	Reason           string       `json:"reason"`
	EstimatedCost    float64      `json:"estimated_cost"`
	EstimatedLatency float64      `json:"estimated_latency"`
}
