package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	Fetches            prometheus.Counter
	FetchFailures      prometheus.Counter
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
	CacheFallbacks     prometheus.Counter
	DroppedFetches     prometheus.Counter
	FetchDuration      prometheus.Histogram
	PlayersDeleted     prometheus.Counter
	AccountsExported   prometheus.Counter
	NotifSent          prometheus.Counter
	NotifFailed        prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
