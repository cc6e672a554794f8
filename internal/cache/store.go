package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/cuongdevv/track/internal/state"
	"github.com/cuongdevv/track/internal/trackstat"
)

// New creates a new cache Store. db may be nil, in which case the store runs
// in memory-only degraded mode.
func New(db *sql.DB, opts ...Option) Store {
	s := &store{
		mem:      make(map[string]memEntry),
		db:       db,
		ttl:      DefaultTTL,
		maxBytes: DefaultMaxPayloadBytes,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.db == nil {
		log.Warn("Durable cache storage unavailable, running memory-only")
	}
	return s
}

var _ Store = (*store)(nil)

// Set stores the envelope in memory unconditionally and attempts a durable
// write. Oversized payloads fall back to a reduced projection; durable write
// failures are logged and swallowed.
func (s *store) Set(key string, env trackstat.Envelope) {
	now := s.now()

	s.mu.Lock()
	s.mem[key] = memEntry{env: env, ts: now}
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	entry := persistedEntry{Data: env, Timestamp: now.UnixMilli()}
	payload, err := json.Marshal(entry)
	if err != nil {
		log.Error("Failed to marshal cache entry", "error", err, "key", key)
		return
	}

	reduced := 0
	if len(payload) > s.maxBytes {
		entry.Data = ReduceEnvelope(env)
		payload, err = json.Marshal(entry)
		if err != nil {
			log.Error("Failed to marshal reduced cache entry", "error", err, "key", key)
			return
		}
		reduced = 1
		log.Info("Cache entry exceeded size threshold, storing reduced projection", "key", key, "records", len(env.Data))
	}

	_, err = s.db.Exec(`
		INSERT INTO cache_entries (key, payload, reduced, ts) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			reduced = excluded.reduced,
			ts = excluded.ts;
	`, key, string(payload), reduced, entry.Timestamp)
	if err != nil {
		log.Error("Failed to write cache entry to durable storage", "error", err, "key", key)
	}
}

// ReduceEnvelope strips records down to the identifying fields so an
// oversized payload still fits in durable storage. Consumers must tolerate
// the missing fields; they come back as zero values.
func ReduceEnvelope(env trackstat.Envelope) trackstat.Envelope {
	reduced := trackstat.Envelope{
		Data:            make([]trackstat.PlayerRecord, len(env.Data)),
		Pagination:      env.Pagination,
		ServerPaginated: env.ServerPaginated,
	}
	for i, rec := range env.Data {
		reduced.Data[i] = trackstat.PlayerRecord{
			PlayerName: rec.PlayerName,
			Cash:       rec.Cash,
			Gems:       rec.Gems,
			Timestamp:  rec.Timestamp,
		}
	}
	return reduced
}

// Get returns the cached envelope for key if it exists and has not expired.
// The miss signal is the bool, not an error.
func (s *store) Get(key string) (trackstat.Envelope, bool) {
	return s.lookup(key, true)
}

// GetStale returns whatever copy is held for key, however old.
func (s *store) GetStale(key string) (trackstat.Envelope, bool) {
	return s.lookup(key, false)
}

func (s *store) lookup(key string, enforceTTL bool) (trackstat.Envelope, bool) {
	now := s.now()

	s.mu.RLock()
	entry, ok := s.mem[key]
	s.mu.RUnlock()
	if ok && (!enforceTTL || now.Sub(entry.ts) <= s.ttl) {
		return entry.env, true
	}

	if s.db == nil {
		return trackstat.Envelope{}, false
	}

	var (
		payload string
		reduced int
		ts      int64
	)
	err := s.db.QueryRow("SELECT payload, reduced, ts FROM cache_entries WHERE key = ?", key).
		Scan(&payload, &reduced, &ts)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Error("Failed to read cache entry from durable storage", "error", err, "key", key)
		}
		return trackstat.Envelope{}, false
	}

	writtenAt := time.UnixMilli(ts)
	if enforceTTL && now.Sub(writtenAt) > s.ttl {
		return trackstat.Envelope{}, false
	}

	var stored persistedEntry
	if err := json.Unmarshal([]byte(payload), &stored); err != nil {
		log.Error("Failed to unmarshal cache entry, dropping it", "error", err, "key", key)
		s.Invalidate(key)
		return trackstat.Envelope{}, false
	}
	if reduced == 1 {
		log.Debug("Serving reduced cache projection", "key", key)
	}

	// Re-populate the memory tier so the next read skips the database.
	s.mu.Lock()
	s.mem[key] = memEntry{env: stored.Data, ts: writtenAt}
	s.mu.Unlock()

	return stored.Data, true
}

// Invalidate removes a single key from both tiers.
func (s *store) Invalidate(key string) {
	s.mu.Lock()
	delete(s.mem, key)
	s.mu.Unlock()

	if s.db == nil {
		return
	}
	if _, err := s.db.Exec("DELETE FROM cache_entries WHERE key = ?", key); err != nil {
		log.Error("Failed to invalidate cache entry", "error", err, "key", key)
	}
}

// InvalidatePrefix removes every key sharing the given prefix from both
// tiers.
func (s *store) InvalidatePrefix(prefix string) {
	s.mu.Lock()
	for key := range s.mem {
		if strings.HasPrefix(key, prefix) {
			delete(s.mem, key)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}
	pattern := likeEscape(prefix) + "%"
	if _, err := s.db.Exec(`DELETE FROM cache_entries WHERE key LIKE ? ESCAPE '\'`, pattern); err != nil {
		log.Error("Failed to invalidate cache entries by prefix", "error", err, "prefix", prefix)
	}
}

func likeEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// InvalidateAll drops every entry under our namespace from both tiers.
func (s *store) InvalidateAll() {
	s.mu.Lock()
	s.mem = make(map[string]memEntry)
	s.mu.Unlock()

	if s.db == nil {
		return
	}
	pattern := likeEscape(KeyPrefix) + "%"
	if _, err := s.db.Exec(`DELETE FROM cache_entries WHERE key LIKE ? ESCAPE '\'`, pattern); err != nil {
		log.Error("Failed to clear cache entries", "error", err)
	}
}

// Degraded reports whether the durable tier is unavailable. The UI surfaces
// this so the user knows the cache will not survive a restart.
func (s *store) Degraded() bool {
	return s.db == nil
}

// SaveSnapshot persists the dashboard's pagination/filter/sort state so it
// survives restarts.
func (s *store) SaveSnapshot(snap state.Snapshot) error {
	s.mu.Lock()
	snapCopy := snap
	s.snapshot = &snapCopy
	s.snapshotSet = true
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	blob, err := msgpack.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal state snapshot: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO ui_state (id, snapshot, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			snapshot = excluded.snapshot,
			updated_at = excluded.updated_at;
	`, blob, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to persist state snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the last persisted dashboard state, if any.
func (s *store) LoadSnapshot() (state.Snapshot, bool) {
	s.mu.RLock()
	if s.snapshotSet {
		snap := *s.snapshot
		s.mu.RUnlock()
		return snap, true
	}
	s.mu.RUnlock()

	if s.db == nil {
		return state.Snapshot{}, false
	}
	var blob []byte
	err := s.db.QueryRow("SELECT snapshot FROM ui_state WHERE id = 1").Scan(&blob)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Error("Failed to read state snapshot", "error", err)
		}
		return state.Snapshot{}, false
	}
	var snap state.Snapshot
	if err := msgpack.Unmarshal(blob, &snap); err != nil {
		log.Error("Failed to unmarshal state snapshot, ignoring it", "error", err)
		return state.Snapshot{}, false
	}
	return snap, true
}
