package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://scanner.tradingview.com", cfg.BaseURL)
	assert.Equal(t, 20*time.Second, cfg.Timeout)
	assert.Equal(t, 0, cfg.CacheEntries)
	assert.Equal(t, 4, cfg.ScanWorkers)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.LogFile)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("TVSCREENER_BASE_URL", "http://localhost:9999")
	t.Setenv("TVSCREENER_TIMEOUT", "5s")
	t.Setenv("TVSCREENER_CACHE_ENTRIES", "64")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 64, cfg.CacheEntries)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_RejectsMalformedValues(t *testing.T) {
	t.Setenv("TVSCREENER_TIMEOUT", "not-a-duration")

	_, err := Load()
	assert.Error(t, err)
}
