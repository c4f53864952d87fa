package pipeline

import "github.com/zen-systems/hybridgate/pkg/backend"

// failureClass distinguishes the two fallback triggers.
type failureClass int

const (
	// failureTransport covers unreachable, timed-out, and rejecting
	// backends.
	failureTransport failureClass = iota

	// failureQuality covers responses rejected by the quality gate.
	failureQuality
)

func (c failureClass) String() string {
	if c == failureQuality {
		return "quality"
	}
	return "transport"
}

// fallbackTarget is the explicit transition table of the fallback chain:
// attempted backend and failure class in, next backend out. The chain is
// linear and acyclic: a backend never falls back to itself, and no path
// is longer than two attempts.
//
//	chosen -> (transport error) -> cloud
//	small-success -> (quality fail) -> large, or cloud
func fallbackTarget(attempted backend.Kind, class failureClass, avail backend.Availability) (backend.Kind, bool) {
	switch class {
	case failureTransport:
		if attempted != backend.KindCloud && avail.Cloud {
			return backend.KindCloud, true
		}
	case failureQuality:
		if attempted == backend.KindSmall {
			if avail.Large {
				return backend.KindLarge, true
			}
			if avail.Cloud {
				return backend.KindCloud, true
			}
		}
	}
	return "", false
}
