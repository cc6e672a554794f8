package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	API           APIConfig
	Cache         CacheConfig
	Slack         SlackConfig
	Turso         TursoConfig
}

// APIConfig points at the upstream stats server.
type APIConfig struct {
	BaseURL       string
	SessionCookie string
}

// CacheConfig tunes the player-list cache.
type CacheConfig struct {
	TTL             time.Duration
	MaxPayloadBytes int
}

// SlackConfig is optional; with an empty token bulk summaries are discarded.
type SlackConfig struct {
	Token     string
	ChannelID string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
