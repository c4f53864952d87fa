package router

import "github.com/zen-systems/hybridgate/pkg/backend"

// EstimateLatency predicts the wall-clock seconds for a completion of the
// given token count on a backend.
func EstimateLatency(p backend.Profile, tokens float64) float64 {
	return p.BaseLatencySeconds + tokens*p.LatencyPerTokenSeconds
}

// EstimateCost predicts the dollar cost of a completion of the given token
// count on a backend. Locally hosted backends cost zero.
func EstimateCost(p backend.Profile, tokens float64) float64 {
	return tokens * p.CostPerToken
}
