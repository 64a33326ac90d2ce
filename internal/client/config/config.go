package config

import (
	"fmt"
	"time"
)

const (
	LogBackendSlog = "slog"
	LogBackendZap  = "zap"
)

// Config holds runtime settings for the dashboard CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the user-directory API.
//   - APIKey: optional value for the x-api-key header.
//   - PerPage: page size requested when listing users.
//   - StatePath: SQLite file holding the persisted session.
//   - RequestTimeout: upper bound for a single API request.
//   - LogBackend, LogLevel: logger implementation ("slog" or "zap") and level.
//   - StaleFetchGuard: drop list results that are older than one already shown.
//   - LocalIDFallback: give created users a local id when the server sends none.
type Config struct {
	ServerEndpointAddr string
	APIKey             string
	PerPage            int
	StatePath          string
	RequestTimeout     time.Duration
	LogBackend         string
	LogLevel           string
	StaleFetchGuard    bool
	LocalIDFallback    bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "https://reqres.in/api"
	c.APIKey = ""
	c.PerPage = 12
	c.StatePath = "data/admindash.db"
	c.RequestTimeout = 15 * time.Second
	c.LogBackend = LogBackendSlog
	c.LogLevel = "info"
	c.StaleFetchGuard = false
	c.LocalIDFallback = true
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.ServerEndpointAddr == "" {
		return fmt.Errorf("server endpoint address is empty")
	}
	if c.PerPage <= 0 {
		return fmt.Errorf("per page must be positive, got %d", c.PerPage)
	}
	if c.StatePath == "" {
		return fmt.Errorf("state path is empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	switch c.LogBackend {
	case LogBackendSlog, LogBackendZap:
	default:
		return fmt.Errorf("unknown log backend %q (want %s or %s)", c.LogBackend, LogBackendSlog, LogBackendZap)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones. args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
