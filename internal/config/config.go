// Package config loads console configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	// DefaultFetchTimeoutSeconds is the default REST request timeout.
	DefaultFetchTimeoutSeconds = 10
	// DefaultRowHeight is the table row height in distance units.
	DefaultRowHeight = 24
	// DefaultViewportHeight is the visible table height in distance units.
	DefaultViewportHeight = 600
	// DefaultRefreshMillis is how often the watch view re-renders.
	DefaultRefreshMillis = 500
)

// Config holds all configuration for the console. The console keeps no
// state on disk; everything here is read per invocation.
type Config struct {
	ServerURL           string
	Token               string
	FetchTimeoutSeconds int
	RowHeight           int
	ViewportHeight      int
	RefreshMillis       int
}

// Load reads configuration with the following precedence order:
//  1. OS environment variables (highest priority)
//  2. .env file in the current working directory (if present)
//  3. /etc/gearr/console.env (if present)
//  4. Default values (lowest priority)
//
// The token may legitimately be absent here; the command layer prompts
// for it interactively.
func Load() (*Config, error) {
	// godotenv never overrides variables that are already set, so
	// files are loaded in decreasing precedence order.
	for _, path := range []string{".env", "/etc/gearr/console.env"} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", path, err)
		}
	}

	cfg := &Config{
		ServerURL:           os.Getenv("GEARR_SERVER_URL"),
		Token:               os.Getenv("GEARR_TOKEN"),
		FetchTimeoutSeconds: getEnvInt("GEARR_FETCH_TIMEOUT_SECONDS", DefaultFetchTimeoutSeconds),
		RowHeight:           getEnvInt("GEARR_ROW_HEIGHT", DefaultRowHeight),
		ViewportHeight:      getEnvInt("GEARR_VIEWPORT_HEIGHT", DefaultViewportHeight),
		RefreshMillis:       getEnvInt("GEARR_REFRESH_MILLIS", DefaultRefreshMillis),
	}

	if cfg.FetchTimeoutSeconds < 1 {
		return nil, fmt.Errorf("GEARR_FETCH_TIMEOUT_SECONDS must be at least 1, got %d", cfg.FetchTimeoutSeconds)
	}
	if cfg.RowHeight < 1 {
		return nil, fmt.Errorf("GEARR_ROW_HEIGHT must be at least 1, got %d", cfg.RowHeight)
	}

	return cfg, nil
}

// Validate checks the fields every server interaction requires.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server URL is required (flag --server or GEARR_SERVER_URL)")
	}
	return nil
}

func getEnvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
