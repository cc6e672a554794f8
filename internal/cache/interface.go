package cache

import (
	"github.com/cuongdevv/track/internal/state"
	"github.com/cuongdevv/track/internal/trackstat"
)

// Store defines the interface for the expiring response cache. Every
// operation is memory-first; the durable tier is best effort and its absence
// is a degraded mode, never an error.
type Store interface {
	Set(key string, env trackstat.Envelope)
	Get(key string) (trackstat.Envelope, bool)
	// GetStale looks the key up ignoring expiry. It backs the
	// serve-from-cache fallback after a network failure.
	GetStale(key string) (trackstat.Envelope, bool)
	Invalidate(key string)
	InvalidatePrefix(prefix string)
	InvalidateAll()
	Degraded() bool

	SaveSnapshot(snap state.Snapshot) error
	LoadSnapshot() (state.Snapshot, bool)
}
