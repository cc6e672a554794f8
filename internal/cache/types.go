package cache

import (
	"database/sql"
	"sync"
	"time"

	"github.com/cuongdevv/track/internal/state"
	"github.com/cuongdevv/track/internal/trackstat"
)

// KeyPrefix namespaces every cache key this application writes, so wildcard
// invalidation can never touch foreign entries in a shared database.
const KeyPrefix = "trackstat:"

// DefaultTTL is how long an entry is trusted before it is treated as absent.
const DefaultTTL = 10 * time.Minute

// DefaultMaxPayloadBytes is the safety threshold for a single durable entry.
// Entries serializing larger than this are stored as a reduced projection.
const DefaultMaxPayloadBytes = 4_500_000

// store is the memory-plus-SQLite cache implementation.
type store struct {
	mu  sync.RWMutex
	mem map[string]memEntry

	db       *sql.DB // nil in memory-only (degraded) mode
	ttl      time.Duration
	maxBytes int
	now      func() time.Time

	// snapshot kept in memory as well, so state restore keeps working when
	// the durable tier is gone.
	snapshot    *state.Snapshot
	snapshotSet bool
}

type memEntry struct {
	env trackstat.Envelope
	ts  time.Time
}

// persistedEntry is the durable value shape: the payload plus its write time
// in epoch milliseconds.
type persistedEntry struct {
	Data      trackstat.Envelope `json:"data"`
	Timestamp int64              `json:"timestamp"`
}

// Option configures the store.
type Option func(*store)

// WithTTL overrides the entry expiry window.
func WithTTL(ttl time.Duration) Option {
	return func(s *store) { s.ttl = ttl }
}

// WithMaxPayloadBytes overrides the durable entry size threshold.
func WithMaxPayloadBytes(n int) Option {
	return func(s *store) { s.maxBytes = n }
}

// WithClock overrides the time source, for expiry tests.
func WithClock(now func() time.Time) Option {
	return func(s *store) { s.now = now }
}
