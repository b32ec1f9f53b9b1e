package configs

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Feed     FeedConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port    string
	OpsPort string
	Env     string
}

// DatabaseConfig holds database configuration. An empty URL switches the
// service to in-memory repositories (demo deployment).
type DatabaseConfig struct {
	URL string
}

// AuthConfig holds token configuration
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// Feed modes
const (
	FeedModeSynthetic = "synthetic"
	FeedModeLive      = "live"
)

// FeedConfig selects and tunes the quote feed
type FeedConfig struct {
	Mode        string
	Seed        int64
	Symbols     []string
	MinTick     time.Duration
	MaxTick     time.Duration
	LiveURL     string
	LiveRefresh time.Duration
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			OpsPort: getEnv("OPS_PORT", "8081"),
			Env:     getEnv("GO_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "default-secret-change-in-production"),
			TokenTTL:  getEnvDuration("TOKEN_TTL", 24*time.Hour),
		},
		Feed: FeedConfig{
			Mode:        getEnv("FEED_MODE", FeedModeSynthetic),
			Seed:        getEnvInt64("FEED_SEED", 0),
			Symbols:     getEnvList("FEED_SYMBOLS", nil),
			MinTick:     getEnvDuration("FEED_TICK_MIN", 2*time.Second),
			MaxTick:     getEnvDuration("FEED_TICK_MAX", 5*time.Second),
			LiveURL:     getEnv("LIVE_FEED_URL", "https://api.binance.com"),
			LiveRefresh: getEnvDuration("LIVE_FEED_REFRESH", 5*time.Second),
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(strings.ToUpper(p)); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
