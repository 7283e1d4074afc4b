package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config captures everything the process reads from the environment.
// Loaded once in main; services receive plain values, never os.Getenv.
type Config struct {
	Addr string

	// Rate limiting. Fixed-window, per service client.
	MaxRequests   int
	WindowSeconds int

	// Checksum policy for the decoder: "none" (accept all) or "weighted".
	ChecksumMode string

	// Optional backing stores. Empty means in-memory.
	DatabaseURL string
	RedisURL    string

	JWTSigningKey string
	TokenTTL      time.Duration
}

// RedisConfig tunes the go-redis connection pool.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Redis derives pool settings from the configured URL.
func (c Config) Redis() RedisConfig {
	return RedisConfig{
		URL:          c.RedisURL,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// FromEnv builds a Config from environment variables so main stays lean.
// Malformed rate-limit settings are a startup error, not a per-request one.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:          envOr("NID_ADDR", ":8080"),
		MaxRequests:   10,
		WindowSeconds: 60,
		ChecksumMode:  envOr("NID_CHECKSUM", "none"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		JWTSigningKey: os.Getenv("API_JWT_SECRET"),
		TokenTTL:      time.Hour,
	}

	if v := os.Getenv("MAX_REQUESTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("MAX_REQUESTS: %w", err)
		}
		cfg.MaxRequests = n
	}
	if v := os.Getenv("WINDOW_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("WINDOW_SECONDS: %w", err)
		}
		cfg.WindowSeconds = n
	}
	if v := os.Getenv("API_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("API_TOKEN_TTL: %w", err)
		}
		cfg.TokenTTL = d
	}

	if cfg.MaxRequests <= 0 {
		return Config{}, fmt.Errorf("MAX_REQUESTS must be positive, got %d", cfg.MaxRequests)
	}
	if cfg.WindowSeconds <= 0 {
		return Config{}, fmt.Errorf("WINDOW_SECONDS must be positive, got %d", cfg.WindowSeconds)
	}
	if cfg.ChecksumMode != "none" && cfg.ChecksumMode != "weighted" {
		return Config{}, fmt.Errorf("NID_CHECKSUM must be \"none\" or \"weighted\", got %q", cfg.ChecksumMode)
	}
	if cfg.JWTSigningKey == "" {
		// Use a default for development - should be overridden in production
		cfg.JWTSigningKey = "dev-secret-key-change-in-production"
	}

	return cfg, nil
}

// Window returns the rate-limit window as a duration.
func (c Config) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
