package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/admindash/internal/flagx"
	"github.com/dmitrijs2005/admindash/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify timeouts either as
// strings like "3s" or as integer nanoseconds. Fields are pointers so that
// keys missing from the file leave the current value alone.
type JsonConfig struct {
	ServerEndpointAddr *string         `json:"server_endpoint_addr"`
	APIKey             *string         `json:"api_key"`
	PerPage            *int            `json:"per_page"`
	StatePath          *string         `json:"state_path"`
	RequestTimeout     *timex.Duration `json:"request_timeout"`
	LogBackend         *string         `json:"log_backend"`
	LogLevel           *string         `json:"log_level"`
	StaleFetchGuard    *bool           `json:"stale_fetch_guard"`
	LocalIDFallback    *bool           `json:"local_id_fallback"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from the -c or -config flag (see flagx.ConfigFile).
// Without one, nothing is loaded. Intended usage is: defaults -> parseJson ->
// parseFlags, where later stages override earlier ones.
func parseJson(cfg *Config, args []string) error {
	jsonConfigFile := flagx.ConfigFile(args)
	if jsonConfigFile == "" {
		return nil
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("decode config file %s: %w", jsonConfigFile, err)
	}

	setIf(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	setIf(&cfg.APIKey, jc.APIKey)
	setIf(&cfg.PerPage, jc.PerPage)
	setIf(&cfg.StatePath, jc.StatePath)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	setIf(&cfg.LogBackend, jc.LogBackend)
	setIf(&cfg.LogLevel, jc.LogLevel)
	setIf(&cfg.StaleFetchGuard, jc.StaleFetchGuard)
	setIf(&cfg.LocalIDFallback, jc.LocalIDFallback)
	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
