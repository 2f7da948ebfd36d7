// ABOUTME: Process configuration loaded from .env files and environment variables
// ABOUTME: Resolves server credentials, the local store path, and cache settings with XDG defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

// Config carries everything the sync engine needs at startup.
type Config struct {
	BaseURL           string
	APIKey            string
	VerifySSL         bool
	DBPath            string
	CacheDir          string
	CacheTTL          time.Duration
	RequestTimeout    time.Duration
	RequestsPerSecond float64
}

// DefaultDBPath is the XDG-compliant location of the offline mirror.
func DefaultDBPath() string {
	return filepath.Join(xdg.DataHome, "maximo-offline", "maximo.db")
}

// DefaultCacheDir is the XDG-compliant location of the lookup cache.
func DefaultCacheDir() string {
	return filepath.Join(xdg.CacheHome, "maximo-offline", "lookups")
}

// Load reads an optional .env file and the environment. Environment
// variables always win over .env values:
//   - MAXIMO_BASE_URL (required)
//   - MAXIMO_API_KEY
//   - MAXIMO_VERIFY_SSL (default true)
//   - SYNC_DB_PATH
//   - SYNC_CACHE_DIR
//   - SYNC_CACHE_TTL (Go duration, default 30m)
//   - SYNC_REQUEST_TIMEOUT (Go duration, default 30s)
//   - SYNC_REQUESTS_PER_SECOND (default 10)
func Load() (*Config, error) {
	// Missing .env files are fine; env vars may carry everything
	_ = godotenv.Load()

	cfg := &Config{
		BaseURL:           os.Getenv("MAXIMO_BASE_URL"),
		APIKey:            os.Getenv("MAXIMO_API_KEY"),
		VerifySSL:         true,
		DBPath:            DefaultDBPath(),
		CacheDir:          DefaultCacheDir(),
		CacheTTL:          30 * time.Minute,
		RequestTimeout:    30 * time.Second,
		RequestsPerSecond: 10,
	}

	if v := os.Getenv("MAXIMO_VERIFY_SSL"); v != "" {
		verify, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid MAXIMO_VERIFY_SSL %q: %w", v, err)
		}
		cfg.VerifySSL = verify
	}
	if v := os.Getenv("SYNC_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("SYNC_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv("SYNC_CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SYNC_CACHE_TTL %q: %w", v, err)
		}
		cfg.CacheTTL = ttl
	}
	if v := os.Getenv("SYNC_REQUEST_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SYNC_REQUEST_TIMEOUT %q: %w", v, err)
		}
		cfg.RequestTimeout = timeout
	}
	if v := os.Getenv("SYNC_REQUESTS_PER_SECOND"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid SYNC_REQUESTS_PER_SECOND %q: %w", v, err)
		}
		cfg.RequestsPerSecond = rps
	}

	return cfg, nil
}

// Validate checks the fields a sync run cannot proceed without.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("MAXIMO_BASE_URL is required")
	}
	return nil
}
