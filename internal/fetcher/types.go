package fetcher

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/cuongdevv/track/internal/cache"
	"github.com/cuongdevv/track/internal/metrics"
	"github.com/cuongdevv/track/internal/state"
	"github.com/cuongdevv/track/internal/trackstat"
)

// ErrFetchInFlight is returned when a load request arrives while another is
// outstanding. Such requests are dropped, never queued; the caller simply
// keeps the view it has.
var ErrFetchInFlight = errors.New("a fetch is already in flight, request dropped")

// ErrNoData is returned when a fetch fails and no cached copy exists to fall
// back to.
var ErrNoData = errors.New("fetch failed and no cached data is available")

const (
	// BulkPageSize is the page size used when walking the entire dataset.
	BulkPageSize = 100
	// bulkBatchWidth bounds how many pages are requested concurrently so a
	// full-dataset walk cannot overwhelm the server.
	bulkBatchWidth = 5
	// bulkPageTimeout caps a single page fetch during a full-dataset walk.
	bulkPageTimeout = 25 * time.Second
	// bulkMaxRetries is how many times a failed batch is retried before the
	// walk gives up and surfaces a partial result.
	bulkMaxRetries = 3
	// bulkRetryDelay is the fixed pause between batch retries.
	bulkRetryDelay = 2 * time.Second
)

// Controller owns the dashboard's pagination/filter/sort state and reconciles
// it against the cache store and the stats server. All state lives here;
// nothing is package-global.
type Controller struct {
	client  trackstat.Client
	cache   cache.Store
	metrics metrics.Metrics
	limiter *rate.Limiter

	// inFlight is the drop-not-queue guard: overlapping loads and
	// full-dataset walks are rejected while one is outstanding.
	inFlight atomic.Bool

	mu         sync.Mutex
	pagination state.Pagination
	filters    state.Filters
	sort       state.Sort

	// lastEnv is the most recent envelope the view was built from. Sort and
	// page clicks in client-side mode re-render from it without touching the
	// network.
	lastEnv   *trackstat.Envelope
	fullData  bool // client-side mode holding (approximately) the whole dataset
	savedSize int  // page size to restore when filters clear
}

// Result is everything the renderer needs for one view of the table.
type Result struct {
	Records    []trackstat.PlayerRecord
	Pagination state.Pagination
	Filters    state.Filters
	Sort       state.Sort

	// FromCache marks a view served from the cache store; the UI offers an
	// explicit re-fetch affordance for it.
	FromCache bool
	// Degraded marks a view served from stale cache after a network failure.
	Degraded bool
	// StorageDegraded reports that the cache store lost its durable backing
	// and is running memory-only.
	StorageDegraded bool
}

// Empty reports whether the view has no records to show.
func (r Result) Empty() bool {
	return len(r.Records) == 0
}

// EmptyMessage returns the user-facing text for an empty view. A search term
// gets a more specific message than a genuinely empty dataset.
func (r Result) EmptyMessage() string {
	if !r.Empty() {
		return ""
	}
	if term := r.Filters.Search; term != "" {
		return "No players match \"" + term + "\"."
	}
	if r.Filters.IsActive() {
		return "No players match the active filters."
	}
	return "No player stats recorded yet."
}

// Progress reports how far a full-dataset walk has come. Sent after every
// completed batch.
type Progress struct {
	PagesFetched int
	TotalPages   int
	Records      int
}
