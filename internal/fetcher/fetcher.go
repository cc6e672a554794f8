package fetcher

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/cuongdevv/track/internal/cache"
	"github.com/cuongdevv/track/internal/metrics"
	"github.com/cuongdevv/track/internal/state"
	"github.com/cuongdevv/track/internal/trackstat"
)

// New creates a Controller with default state, restoring the last persisted
// pagination/filter/sort snapshot when one exists.
func New(client trackstat.Client, store cache.Store, metricsSvc metrics.Metrics) *Controller {
	c := &Controller{
		client:     client,
		cache:      store,
		metrics:    metricsSvc,
		limiter:    rate.NewLimiter(rate.Limit(10), bulkBatchWidth),
		pagination: state.NewPagination(),
		filters:    state.NewFilters(),
		sort:       state.NewSort(),
	}
	if snap, ok := store.LoadSnapshot(); ok {
		log.Info("Restored dashboard state snapshot", "page", snap.Pagination.CurrentPage, "page_size", snap.Pagination.ItemsPerPage, "sort", snap.Sort.Field)
		c.pagination = snap.Pagination
		c.filters = snap.Filters
		c.sort = snap.Sort
		c.fullData = c.filters.IsActive() && !c.filters.ServerSide
	}
	return c
}

// cacheKey builds the composite key identifying the current combination of
// page, page size, search term and filter bounds. url.Values encoding keeps
// it deterministic.
func (c *Controller) cacheKey() string {
	params := c.filters.QueryParams()
	q := url.Values{}
	q.Set("page", strconv.Itoa(c.pagination.CurrentPage))
	q.Set("page_size", strconv.Itoa(c.pagination.ItemsPerPage))
	if params.Search != "" {
		q.Set("search", params.Search)
	}
	addInt64 := func(key string, v *int64) {
		if v != nil {
			q.Set(key, strconv.FormatInt(*v, 10))
		}
	}
	addInt := func(key string, v *int) {
		if v != nil {
			q.Set(key, strconv.Itoa(*v))
		}
	}
	addInt64("cash_min", params.CashMin)
	addInt64("cash_max", params.CashMax)
	addInt64("gems_min", params.GemsMin)
	addInt64("gems_max", params.GemsMax)
	addInt64("tickets_min", params.TicketsMin)
	addInt64("tickets_max", params.TicketsMax)
	addInt("s_pets_min", params.SPetsMin)
	addInt("ss_pets_min", params.SSPetsMin)
	addInt("gamepass_min", params.GamepassMin)
	addInt("gamepass_max", params.GamepassMax)
	return cache.KeyPrefix + "latest:" + q.Encode()
}

// LatestKeyPrefix is the wildcard under which every player-list entry lives.
// Bulk actions invalidate it after mutating the dataset.
func LatestKeyPrefix() string {
	return cache.KeyPrefix + "latest:"
}

// Load produces the player list for the current page/filter/sort context,
// minimizing network calls. Unless force is set, a fresh cache entry short
// circuits the fetch entirely. On network failure the last cached value for
// the same key is served regardless of age; only when nothing cached exists
// does the caller get a hard error.
func (c *Controller) Load(ctx context.Context, force bool) (Result, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		c.metrics.IncDroppedFetches()
		log.Debug("Dropping overlapping load request")
		return Result{}, ErrFetchInFlight
	}
	defer c.inFlight.Store(false)

	c.mu.Lock()
	defer c.mu.Unlock()

	key := c.cacheKey()

	if !force {
		if env, ok := c.cache.Get(key); ok {
			c.metrics.IncCacheHits()
			log.Debug("Serving view from cache", "key", key)
			c.lastEnv = &env
			return c.buildResultLocked(env, true, false), nil
		}
		c.metrics.IncCacheMisses()
	}

	params := c.requestParamsLocked(force)

	c.metrics.IncFetches()
	started := time.Now()
	env, err := c.client.GetLatest(ctx, &params)
	c.metrics.ObserveFetchDuration(time.Since(started).Seconds())
	if err != nil {
		c.metrics.IncFetchFailures()
		// A malformed payload is a hard failure; serving a stale copy would
		// mask a contract break. Auth failures must reach the login redirect.
		if errors.Is(err, trackstat.ErrMalformedPayload) || errors.Is(err, trackstat.ErrUnauthorized) {
			return Result{}, err
		}
		if stale, ok := c.cache.GetStale(key); ok {
			c.metrics.IncCacheFallbacks()
			log.Warn("Fetch failed, serving stale cache", "key", key, "error", err)
			c.lastEnv = &stale
			return c.buildResultLocked(stale, true, true), nil
		}
		log.Error("Fetch failed with no cached fallback", "key", key, "error", err)
		return Result{}, errors.Join(ErrNoData, err)
	}

	c.cache.Set(key, env)
	c.lastEnv = &env
	result := c.buildResultLocked(env, false, false)
	c.persistSnapshotLocked()
	return result, nil
}

// requestParamsLocked assembles the upstream query for the current state.
// Filter bounds only travel when server-side filtering is configured; in
// client-side mode the enlarged page approximates the whole dataset and the
// bounds are applied locally.
func (c *Controller) requestParamsLocked(force bool) trackstat.LatestParams {
	var params trackstat.LatestParams
	if c.filters.ServerSide {
		params = c.filters.QueryParams()
	} else {
		params.Search = ""
	}
	params.Page = c.pagination.CurrentPage
	params.PageSize = c.pagination.ItemsPerPage
	params.ForceRefresh = force
	if c.fullData {
		params.Page = 1
		params.PageSize = state.AllDataPageSize
	}
	return params
}

// View rebuilds the current result from the last held envelope without any
// network traffic. Sort clicks and client-side page moves go through here.
// When nothing is held yet it behaves like Load.
func (c *Controller) View(ctx context.Context) (Result, error) {
	c.mu.Lock()
	if c.lastEnv != nil {
		env := *c.lastEnv
		result := c.buildResultLocked(env, true, false)
		c.mu.Unlock()
		return result, nil
	}
	c.mu.Unlock()
	return c.Load(ctx, false)
}

// buildResultLocked turns an envelope into the view result, applying
// client-side filtering, sorting and pagination as the current mode demands.
func (c *Controller) buildResultLocked(env trackstat.Envelope, fromCache, degraded bool) Result {
	records := env.Data

	clientSide := c.fullData || !env.ServerPaginated
	if clientSide {
		if c.filters.IsActive() && !c.filters.ServerSide {
			records = c.filters.Apply(records)
		}
		c.pagination.ApplyLocal(len(records))
	} else {
		c.pagination.ApplyServer(env.Pagination)
	}

	sorted := make([]trackstat.PlayerRecord, len(records))
	copy(sorted, records)
	c.sort.Apply(sorted)

	return Result{
		Records:         sorted,
		Pagination:      c.pagination,
		Filters:         c.filters,
		Sort:            c.sort,
		FromCache:       fromCache,
		Degraded:        degraded,
		StorageDegraded: c.cache.Degraded(),
	}
}

func (c *Controller) persistSnapshotLocked() {
	snap := state.Snapshot{Pagination: c.pagination, Filters: c.filters, Sort: c.sort}
	if err := c.cache.SaveSnapshot(snap); err != nil {
		log.Error("Failed to persist dashboard state", "error", err)
	}
}

// SetPage moves to the given page. In server-side mode the next Load fetches
// it; in client-side mode the held dataset is just re-sliced.
func (c *Controller) SetPage(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pagination.SetPage(n)
}

// HoldsAllPages reports whether the held dataset spans every page, either
// because client-side mode pulled the whole set or because the server sent a
// bare unpaginated array. Page moves then re-slice via View instead of
// refetching.
func (c *Controller) HoldsAllPages() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastEnv != nil && (c.fullData || !c.lastEnv.ServerPaginated)
}

// SetPageSize changes the page size and resets to the first page.
func (c *Controller) SetPageSize(size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pagination.SetPageSize(size)
	c.lastEnv = nil // page boundaries moved, held data no longer lines up
}

// ToggleSort applies a header click to the sort state. The next View
// re-renders from the held dataset; sorting never refetches.
func (c *Controller) ToggleSort(field string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sort.Toggle(field)
	c.pagination.SetPage(1)
}

// SetSearch updates the free-text search term and re-evaluates the
// filtering mode.
func (c *Controller) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.Search = term
	c.pagination.SetPage(1)
	c.reconcileModeLocked()
}

// SetFilters replaces the numeric bounds (the search term is managed
// separately) and re-evaluates the filtering mode.
func (c *Controller) SetFilters(f state.Filters) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f.Search = c.filters.Search
	f.ServerSide = c.filters.ServerSide
	c.filters = f
	c.pagination.SetPage(1)
	c.reconcileModeLocked()
}

// ResetFilters restores every bound to its default and reverts to
// server-side pagination with the saved page size.
func (c *Controller) ResetFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.Reset()
	c.reconcileModeLocked()
}

// reconcileModeLocked decides where filtering happens. With server-side
// filtering configured, bounds travel as query parameters and paging stays on
// the server. Otherwise an active filter forces client-side mode over an
// enlarged page so the whole dataset is available to filter; clearing the
// filter restores the previous page size and server paging.
func (c *Controller) reconcileModeLocked() {
	active := c.filters.IsActive()

	if c.filters.ServerSide {
		// Bounds change the query, so whatever we held no longer matches.
		c.lastEnv = nil
		return
	}

	switch {
	case active && !c.fullData && c.pagination.ServerSide:
		c.savedSize = c.pagination.ItemsPerPage
		c.pagination.SetPageSize(state.AllDataPageSize)
		c.fullData = true
		c.lastEnv = nil
		log.Debug("Filter activated, switching to client-side mode", "page_size", state.AllDataPageSize)
	case !active && c.fullData:
		restore := c.savedSize
		if restore == 0 {
			restore = state.DefaultPageSize
		}
		c.pagination.SetPageSize(restore)
		c.pagination.ServerSide = true
		c.fullData = false
		c.lastEnv = nil
		log.Debug("Filters cleared, restoring server-side pagination", "page_size", restore)
	}
}

// SetServerSideFiltering selects where filter bounds are evaluated.
func (c *Controller) SetServerSideFiltering(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.ServerSide = enabled
}

// Snapshot returns a copy of the current pagination/filter/sort state.
func (c *Controller) Snapshot() state.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return state.Snapshot{Pagination: c.pagination, Filters: c.filters, Sort: c.sort}
}

// InvalidateCurrent drops every cached player-list entry. Bulk actions call
// this after mutating the dataset, before the post-action refresh.
func (c *Controller) InvalidateCurrent() {
	c.mu.Lock()
	c.lastEnv = nil
	c.mu.Unlock()
	c.cache.InvalidatePrefix(LatestKeyPrefix())
}
