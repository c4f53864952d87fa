package backend

import (
	"context"
	"sync/atomic"
)

// Availability is an immutable snapshot of which backends are reachable.
// The routing policy reads exactly one snapshot per decision so it never
// observes a half-updated view.
type Availability struct {
	Small bool
	Large bool
	Cloud bool
}

// ForKind reports whether the given backend kind is available.
func (a Availability) ForKind(kind Kind) bool {
	switch kind {
	case KindSmall:
		return a.Small
	case KindLarge:
		return a.Large
	case KindCloud:
		return a.Cloud
	}
	return false
}

// Any reports whether at least one backend is available.
func (a Availability) Any() bool {
	return a.Small || a.Large || a.Cloud
}

// WithKind returns a copy with one kind's availability replaced.
func (a Availability) WithKind(kind Kind, ok bool) Availability {
	switch kind {
	case KindSmall:
		a.Small = ok
	case KindLarge:
		a.Large = ok
	case KindCloud:
		a.Cloud = ok
	}
	return a
}

// Registry holds one backend per tier and publishes an atomically swapped
// availability snapshot. An external health checker calls Refresh; routing
// reads Snapshot.
type Registry struct {
	backends map[Kind]Backend
	avail    atomic.Pointer[Availability]
}

// NewRegistry creates a registry over the given backends. Nil entries are
// treated as unconfigured tiers. The initial snapshot reflects each
// backend's IsAvailable at construction time.
func NewRegistry(backends map[Kind]Backend) *Registry {
	r := &Registry{backends: make(map[Kind]Backend, len(backends))}
	for kind, b := range backends {
		if b != nil {
			r.backends[kind] = b
		}
	}
	r.Refresh(context.Background())
	return r
}

// Get returns the backend for a tier.
func (r *Registry) Get(kind Kind) (Backend, bool) {
	b, ok := r.backends[kind]
	return b, ok
}

// Snapshot returns the current availability view.
func (r *Registry) Snapshot() Availability {
	if snap := r.avail.Load(); snap != nil {
		return *snap
	}
	return Availability{}
}

// Refresh re-probes every backend and swaps in a fresh snapshot.
func (r *Registry) Refresh(ctx context.Context) Availability {
	var snap Availability
	for kind, b := range r.backends {
		if ctx.Err() != nil {
			break
		}
		snap = snap.WithKind(kind, b.IsAvailable())
	}
	r.avail.Store(&snap)
	return snap
}

// SetAvailable marks one tier's availability out of band, e.g. after a
// health checker observes repeated failures.
func (r *Registry) SetAvailable(kind Kind, ok bool) {
	for {
		old := r.avail.Load()
		var snap Availability
		if old != nil {
			snap = *old
		}
		snap = snap.WithKind(kind, ok)
		if r.avail.CompareAndSwap(old, &snap) {
			return
		}
	}
}
