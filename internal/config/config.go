package config

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/cuongdevv/track/internal/cache"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	getEnvOr := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			return value
		}
		return fallback
	}

	getDurationOr := func(key string, fallback time.Duration) time.Duration {
		value, ok := os.LookupEnv(key)
		if !ok || value == "" {
			return fallback
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			log.Fatalf("Error: %s is not a valid duration: %v", key, err)
		}
		return d
	}

	cfg := Config{
		DBName:        getEnv("DB_NAME"),
		MigrationsDir: getEnvOr("MIGRATIONS_DIR", "./migrations"),
		Port:          getEnv("PORT"),
		API: APIConfig{
			BaseURL:       getEnv("API_BASE_URL"),
			SessionCookie: getEnvOr("API_SESSION_COOKIE", ""),
		},
		Cache: CacheConfig{
			TTL:             getDurationOr("CACHE_TTL", cache.DefaultTTL),
			MaxPayloadBytes: cache.DefaultMaxPayloadBytes,
		},
		Slack: SlackConfig{
			Token:     getEnvOr("SLACK_BOT_TOKEN", ""),
			ChannelID: getEnvOr("SLACK_CHANNEL_ID", ""),
		},
		Turso: TursoConfig{
			PrimaryURL: getEnvOr("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnvOr("TURSO_AUTH_TOKEN", ""),
		},
	}
	return cfg
}
