// ABOUTME: Tests for environment-driven configuration loading
// ABOUTME: Covers defaults, overrides, validation, and malformed values
package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MAXIMO_BASE_URL", "https://maximo.example.com/maximo")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://maximo.example.com/maximo", cfg.BaseURL)
	assert.True(t, cfg.VerifySSL)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10.0, cfg.RequestsPerSecond)
	assert.True(t, strings.HasSuffix(cfg.DBPath, "maximo-offline/maximo.db"))
	assert.True(t, strings.HasSuffix(cfg.CacheDir, "maximo-offline/lookups"))
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MAXIMO_BASE_URL", "https://maximo.example.com/maximo")
	t.Setenv("MAXIMO_API_KEY", "abc123")
	t.Setenv("MAXIMO_VERIFY_SSL", "false")
	t.Setenv("SYNC_DB_PATH", "/tmp/mirror.db")
	t.Setenv("SYNC_CACHE_DIR", "/tmp/lookups")
	t.Setenv("SYNC_CACHE_TTL", "2h")
	t.Setenv("SYNC_REQUEST_TIMEOUT", "45s")
	t.Setenv("SYNC_REQUESTS_PER_SECOND", "2.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "abc123", cfg.APIKey)
	assert.False(t, cfg.VerifySSL)
	assert.Equal(t, "/tmp/mirror.db", cfg.DBPath)
	assert.Equal(t, "/tmp/lookups", cfg.CacheDir)
	assert.Equal(t, 2*time.Hour, cfg.CacheTTL)
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 2.5, cfg.RequestsPerSecond)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"bad ssl flag", "MAXIMO_VERIFY_SSL", "maybe"},
		{"bad cache ttl", "SYNC_CACHE_TTL", "thirty minutes"},
		{"bad timeout", "SYNC_REQUEST_TIMEOUT", "9000"},
		{"bad rps", "SYNC_REQUESTS_PER_SECOND", "fast"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("MAXIMO_BASE_URL", "https://maximo.example.com/maximo")
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.key)
		})
	}
}

func TestValidateRequiresBaseURL(t *testing.T) {
	cfg := &Config{}
	require.Error(t, cfg.Validate())

	cfg.BaseURL = "https://maximo.example.com/maximo"
	assert.NoError(t, cfg.Validate())
}
