package http

import (
	"net/http"

	"github.com/cuongdevv/track/internal/bulk"
	"github.com/cuongdevv/track/internal/config"
	"github.com/cuongdevv/track/internal/fetcher"
	"github.com/cuongdevv/track/internal/metrics"
	"github.com/cuongdevv/track/internal/trackstat"
	"github.com/cuongdevv/track/internal/view"
)

func NewServer(ctrl *fetcher.Controller, bulkSvc *bulk.Service, client trackstat.Client, renderer *view.Renderer, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config) *Server {
	server := &Server{
		Fetcher:        ctrl,
		Bulk:           bulkSvc,
		Client:         client,
		Renderer:       renderer,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("/", Chain(s.RootHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("/dashboard", Chain(s.DashboardHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("/dashboard/export", Chain(s.ExportViewHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("/login", Chain(s.LoginHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("/players/delete", Chain(s.DeletePlayersHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("/accounts/export", Chain(s.ExportAccountsHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("/accounts/import", Chain(s.ImportAccountsHandler(), requestIDMiddleware, paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
