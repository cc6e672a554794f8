package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncFetches()
	IncFetchFailures()
	IncCacheHits()
	IncCacheMisses()
	IncCacheFallbacks()
	IncDroppedFetches()
	ObserveFetchDuration(duration float64)
	AddPlayersDeleted(n int)
	AddAccountsExported(n int)
	IncNotifSent()
	IncNotifFailed()
	SetStartupTime(duration float64)
}
