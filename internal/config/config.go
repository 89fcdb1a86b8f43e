// Package config loads binary configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration shared by the tvscreener binaries.
// Defaults match the library's built-in behavior, so an empty environment
// is fully usable.
type Config struct {
	BaseURL      string        `envconfig:"TVSCREENER_BASE_URL" default:"https://scanner.tradingview.com"`
	Timeout      time.Duration `envconfig:"TVSCREENER_TIMEOUT" default:"20s"`
	UserAgent    string        `envconfig:"TVSCREENER_USER_AGENT"`
	CacheEntries int           `envconfig:"TVSCREENER_CACHE_ENTRIES" default:"0"`
	ScanWorkers  int           `envconfig:"TVSCREENER_SCAN_WORKERS" default:"4"`
	LogLevel     string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFile      string        `envconfig:"LOG_FILE"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return &cfg, nil
}
