package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		Fetches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trackstat_fetches_total",
			Help: "The total number of page fetches issued to the stats server.",
		}),
		FetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trackstat_fetch_failures_total",
			Help: "The total number of page fetches that failed.",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trackstat_cache_hits_total",
			Help: "The total number of page loads served from cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trackstat_cache_misses_total",
			Help: "The total number of page loads that missed the cache.",
		}),
		CacheFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trackstat_cache_fallbacks_total",
			Help: "The total number of failed fetches recovered from stale cache.",
		}),
		DroppedFetches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trackstat_dropped_fetches_total",
			Help: "The total number of fetch requests dropped by the in-flight guard.",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "trackstat_fetch_duration_seconds",
			Help:    "The duration of individual page fetches.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		PlayersDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trackstat_players_deleted_total",
			Help: "The total number of players deleted through bulk actions.",
		}),
		AccountsExported: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trackstat_accounts_exported_total",
			Help: "The total number of account credentials exported.",
		}),
		NotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trackstat_notifications_sent_total",
			Help: "The total number of notifications sent successfully.",
		}),
		NotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trackstat_notifications_failed_total",
			Help: "The total number of notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "trackstat_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.Fetches,
		s.FetchFailures,
		s.CacheHits,
		s.CacheMisses,
		s.CacheFallbacks,
		s.DroppedFetches,
		s.FetchDuration,
		s.PlayersDeleted,
		s.AccountsExported,
		s.NotifSent,
		s.NotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncFetches() {
	s.Fetches.Inc()
}

func (s *Service) IncFetchFailures() {
	s.FetchFailures.Inc()
}

func (s *Service) IncCacheHits() {
	s.CacheHits.Inc()
}

func (s *Service) IncCacheMisses() {
	s.CacheMisses.Inc()
}

func (s *Service) IncCacheFallbacks() {
	s.CacheFallbacks.Inc()
}

func (s *Service) IncDroppedFetches() {
	s.DroppedFetches.Inc()
}

func (s *Service) ObserveFetchDuration(duration float64) {
	s.FetchDuration.Observe(duration)
}

func (s *Service) AddPlayersDeleted(n int) {
	s.PlayersDeleted.Add(float64(n))
}

func (s *Service) AddAccountsExported(n int) {
	s.AccountsExported.Add(float64(n))
}

func (s *Service) IncNotifSent() {
	s.NotifSent.Inc()
}

func (s *Service) IncNotifFailed() {
	s.NotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
