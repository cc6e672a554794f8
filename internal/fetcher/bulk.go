package fetcher

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	"github.com/cuongdevv/track/internal/trackstat"
)

// FetchAll walks every page of the dataset for operations that need the whole
// thing in memory. Page 1 establishes the total page count, then the
// remaining pages are fetched in concurrent batches of fixed width. A failed
// batch is retried a bounded number of times with a fixed delay; when retries
// run out the accumulated records are returned with partial=true so the
// caller can offer "continue with partial data" instead of failing outright.
//
// The in-flight guard is shared with Load: an overlapping walk is dropped.
func (c *Controller) FetchAll(ctx context.Context, progress func(Progress)) (records []trackstat.PlayerRecord, partial bool, err error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		c.metrics.IncDroppedFetches()
		return nil, false, ErrFetchInFlight
	}
	defer c.inFlight.Store(false)

	if progress == nil {
		progress = func(Progress) {}
	}

	first, err := c.fetchBulkPage(ctx, 1)
	if err != nil {
		return nil, false, err
	}
	records = first.Data
	totalPages := first.Pagination.TotalPages
	if !first.ServerPaginated {
		// Legacy shape: the single response already was the whole dataset.
		totalPages = 1
	}
	log.Info("Starting full dataset walk", "total_pages", totalPages, "first_page_records", len(records))
	progress(Progress{PagesFetched: 1, TotalPages: totalPages, Records: len(records)})

	pagesFetched := 1
	for start := 2; start <= totalPages; start += bulkBatchWidth {
		end := start + bulkBatchWidth - 1
		if end > totalPages {
			end = totalPages
		}

		var batch []trackstat.PlayerRecord
		batchOK := false
		for attempt := 0; attempt <= bulkMaxRetries; attempt++ {
			if attempt > 0 {
				log.Warn("Retrying page batch", "from", start, "to", end, "attempt", attempt)
				select {
				case <-time.After(bulkRetryDelay):
				case <-ctx.Done():
					return dedupe(records), true, ctx.Err()
				}
			}
			var batchErr error
			batch, batchErr = c.fetchBatch(ctx, start, end)
			if batchErr == nil {
				batchOK = true
				break
			}
			log.Error("Page batch failed", "from", start, "to", end, "error", batchErr)
		}
		if !batchOK {
			log.Error("Page batch exhausted retries, surfacing partial result", "from", start, "to", end)
			return dedupe(records), true, nil
		}

		records = append(records, batch...)
		pagesFetched += end - start + 1
		records = dedupe(records)
		progress(Progress{PagesFetched: pagesFetched, TotalPages: totalPages, Records: len(records)})
	}

	records = dedupe(records)
	log.Info("Full dataset walk finished", "pages", pagesFetched, "records", len(records))
	return records, false, nil
}

// fetchBatch fetches pages [from, to] concurrently. Any page failure fails
// the whole batch; the caller retries it as a unit.
func (c *Controller) fetchBatch(ctx context.Context, from, to int) ([]trackstat.PlayerRecord, error) {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
		records  []trackstat.PlayerRecord
	)

	for page := from; page <= to; page++ {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			env, err := c.fetchBulkPage(ctx, page)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			records = append(records, env.Data...)
		}(page)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return records, nil
}

func (c *Controller) fetchBulkPage(ctx context.Context, page int) (trackstat.Envelope, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return trackstat.Envelope{}, err
	}
	pageCtx, cancel := context.WithTimeout(ctx, bulkPageTimeout)
	defer cancel()

	c.metrics.IncFetches()
	started := time.Now()
	env, err := c.client.GetLatest(pageCtx, &trackstat.LatestParams{Page: page, PageSize: BulkPageSize})
	c.metrics.ObserveFetchDuration(time.Since(started).Seconds())
	if err != nil {
		c.metrics.IncFetchFailures()
		return trackstat.Envelope{}, err
	}
	return env, nil
}

// dedupe drops duplicate records by primary key. Batches can overlap when the
// dataset shifts under the walk.
func dedupe(records []trackstat.PlayerRecord) []trackstat.PlayerRecord {
	return lo.UniqBy(records, func(rec trackstat.PlayerRecord) string {
		return rec.PlayerName
	})
}
