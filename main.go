package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cuongdevv/track/internal/bulk"
	"github.com/cuongdevv/track/internal/cache"
	"github.com/cuongdevv/track/internal/config"
	"github.com/cuongdevv/track/internal/database"
	"github.com/cuongdevv/track/internal/fetcher"
	server "github.com/cuongdevv/track/internal/http"
	"github.com/cuongdevv/track/internal/metrics"
	"github.com/cuongdevv/track/internal/notifier"
	"github.com/cuongdevv/track/internal/notifier/slack"
	"github.com/cuongdevv/track/internal/trackstat"
	"github.com/cuongdevv/track/internal/view"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()

	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		// The cache store runs memory-only without a database; the dashboard
		// stays usable, it just loses persistence across restarts.
		log.Error("Failed to initialize database, continuing with in-memory cache only", "error", err)
		db = nil
	}
	defer func() {
		if dbTeardown != nil {
			log.Info("Closing database connection")
			dbTeardown()
		}
	}()

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	store := cache.New(db, cache.WithTTL(cfg.Cache.TTL), cache.WithMaxPayloadBytes(cfg.Cache.MaxPayloadBytes))
	client := trackstat.NewClient(cfg.API.BaseURL, cfg.API.SessionCookie)

	var notif notifier.Notifier = notifier.NewNoop()
	if cfg.Slack.Token != "" {
		notif = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	} else {
		log.Info("Slack not configured, bulk operation summaries disabled")
	}

	ctrl := fetcher.New(client, store, metricsSvc)
	bulkSvc := bulk.New(client, ctrl, metricsSvc, notif)

	renderer, err := view.NewRenderer()
	if err != nil {
		log.Fatalf("Failed to parse templates: %s", err)
	}

	s := server.NewServer(
		ctrl,
		bulkSvc,
		client,
		renderer,
		metricsSvc,
		metricsHandler,
		cfg,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
