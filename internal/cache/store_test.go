package cache_test

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuongdevv/track/internal/cache"
	"github.com/cuongdevv/track/internal/database"
	"github.com/cuongdevv/track/internal/state"
	"github.com/cuongdevv/track/internal/trackstat"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	return db, teardown
}

func sampleEnvelope(names ...string) trackstat.Envelope {
	env := trackstat.Envelope{
		Pagination:      trackstat.PageMeta{Page: 1, TotalItems: len(names), TotalPages: 1},
		ServerPaginated: true,
	}
	for _, name := range names {
		env.Data = append(env.Data, trackstat.PlayerRecord{
			PlayerName: name,
			Cash:       1500000,
			Gems:       5280,
			PetsList:   []trackstat.Pet{{Name: "Dragon", Level: 25, Rank: "S", RankNum: 6, FolderName: "Dragon_25"}},
			ItemsList:  []trackstat.Item{{Name: "Ticket", Amount: 42}},
			PassesList: []trackstat.GamePass{{Name: "VIP"}},
			Timestamp:  "2025-07-09T18:00:00",
		})
	}
	return env
}

func TestSetThenGetReturnsDeepEqualValue(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	store := cache.New(db)

	env := sampleEnvelope("Cuong_123", "VietGamer")
	store.Set("trackstat:latest:p1", env)

	got, ok := store.Get("trackstat:latest:p1")
	require.True(t, ok)
	assert.Equal(t, env, got)
}

func TestGetMissesAfterExpiry(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()

	now := time.Now()
	store := cache.New(db, cache.WithClock(func() time.Time { return now }))

	store.Set("trackstat:latest:p1", sampleEnvelope("Cuong_123"))
	_, ok := store.Get("trackstat:latest:p1")
	require.True(t, ok)

	now = now.Add(cache.DefaultTTL + time.Second)
	_, ok = store.Get("trackstat:latest:p1")
	assert.False(t, ok, "entries older than the expiry window are treated as absent")

	// The stale copy stays reachable for the network-failure fallback.
	stale, ok := store.GetStale("trackstat:latest:p1")
	require.True(t, ok)
	assert.Equal(t, "Cuong_123", stale.Data[0].PlayerName)
}

func TestGetFallsBackToDurableTier(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()

	writer := cache.New(db)
	env := sampleEnvelope("VietGamer")
	writer.Set("trackstat:latest:p1", env)

	// A fresh store over the same database has an empty memory tier, so the
	// hit must come from durable storage.
	reader := cache.New(db)
	got, ok := reader.Get("trackstat:latest:p1")
	require.True(t, ok)
	assert.Equal(t, env, got)
}

func TestOversizedEntryStoresReducedProjection(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()

	// Threshold tuned down so a normal record overflows it.
	writer := cache.New(db, cache.WithMaxPayloadBytes(200))
	env := sampleEnvelope("Cuong_123", "VietGamer")
	writer.Set("trackstat:latest:p1", env)

	reader := cache.New(db)
	got, ok := reader.Get("trackstat:latest:p1")
	require.True(t, ok)
	require.Len(t, got.Data, 2)

	// Identifying fields survive; the rest come back as zero values, which
	// consumers must tolerate.
	assert.Equal(t, "Cuong_123", got.Data[0].PlayerName)
	assert.Equal(t, int64(1500000), got.Data[0].Cash)
	assert.Empty(t, got.Data[0].PetsList)
	assert.Empty(t, got.Data[0].ItemsList)
	assert.Zero(t, got.Data[0].TicketAmount())
	assert.Equal(t, env.Pagination, got.Pagination)
}

func TestInvalidate(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	store := cache.New(db)

	store.Set("trackstat:latest:p1", sampleEnvelope("A"))
	store.Set("trackstat:latest:p2", sampleEnvelope("B"))
	store.Invalidate("trackstat:latest:p1")

	_, ok := store.Get("trackstat:latest:p1")
	assert.False(t, ok)
	_, ok = store.Get("trackstat:latest:p2")
	assert.True(t, ok)

	// Gone from the durable tier too.
	fresh := cache.New(db)
	_, ok = fresh.Get("trackstat:latest:p1")
	assert.False(t, ok)
}

func TestInvalidatePrefix(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	store := cache.New(db)

	store.Set("trackstat:latest:p1", sampleEnvelope("A"))
	store.Set("trackstat:latest:p2", sampleEnvelope("B"))
	store.Set("trackstat:accounts:p1", sampleEnvelope("C"))

	store.InvalidatePrefix("trackstat:latest:")

	_, ok := store.Get("trackstat:latest:p1")
	assert.False(t, ok)
	_, ok = store.Get("trackstat:latest:p2")
	assert.False(t, ok)
	_, ok = store.Get("trackstat:accounts:p1")
	assert.True(t, ok, "entries outside the prefix survive")
}

func TestInvalidateAll(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	store := cache.New(db)

	store.Set("trackstat:latest:p1", sampleEnvelope("A"))
	store.Set("trackstat:accounts:p1", sampleEnvelope("B"))
	store.InvalidateAll()

	_, ok := store.Get("trackstat:latest:p1")
	assert.False(t, ok)
	_, ok = store.GetStale("trackstat:accounts:p1")
	assert.False(t, ok)
}

func TestMemoryOnlyDegradedMode(t *testing.T) {
	store := cache.New(nil)
	assert.True(t, store.Degraded())

	env := sampleEnvelope("Cuong_123")
	store.Set("trackstat:latest:p1", env)

	got, ok := store.Get("trackstat:latest:p1")
	require.True(t, ok, "memory tier keeps working without durable storage")
	assert.Equal(t, env, got)

	store.InvalidateAll()
	_, ok = store.Get("trackstat:latest:p1")
	assert.False(t, ok)
}

func TestSnapshotRoundTrip(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	store := cache.New(db)

	snap := state.Snapshot{
		Pagination: state.Pagination{ItemsPerPage: 50, CurrentPage: 2, TotalPages: 3, TotalItems: 120, ServerSide: true},
		Filters:    state.NewFilters(),
		Sort:       state.Sort{Field: state.FieldCash, Direction: state.Descending},
	}
	snap.Filters.CashMin = 1000000
	snap.Filters.Search = "vip"

	require.NoError(t, store.SaveSnapshot(snap))

	// A fresh store over the same database reads it back from disk.
	fresh := cache.New(db)
	got, ok := fresh.LoadSnapshot()
	require.True(t, ok)
	assert.Equal(t, snap, got)
}

func TestSnapshotMemoryOnly(t *testing.T) {
	store := cache.New(nil)
	_, ok := store.LoadSnapshot()
	assert.False(t, ok)

	snap := state.Snapshot{Pagination: state.NewPagination(), Filters: state.NewFilters(), Sort: state.NewSort()}
	require.NoError(t, store.SaveSnapshot(snap))

	got, ok := store.LoadSnapshot()
	require.True(t, ok)
	assert.Equal(t, snap, got)
}

func TestKeysShareNamespace(t *testing.T) {
	assert.True(t, strings.HasPrefix(cache.KeyPrefix+"latest:", cache.KeyPrefix))
}
