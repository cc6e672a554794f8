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

type Server struct {
	Fetcher        *fetcher.Controller
	Bulk           *bulk.Service
	Client         trackstat.Client
	Renderer       *view.Renderer
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
}
