// Package config loads runtime configuration for the dashboard CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the API
//	-k string   API key (x-api-key header)
//	-p int      users per page
//	-s string   local state database path
//	-t int      request timeout (seconds)
//	-l string   log backend (slog|zap)
//	-v string   log level
//	-g          drop stale list results
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so it can be either a
// string like "10s" or integer nanoseconds. Missing keys keep their defaults:
//
//	{
//	  "server_endpoint_addr": "https://reqres.in/api",
//	  "api_key": "reqres-free-v1",
//	  "per_page": 6,
//	  "state_path": "data/admindash.db",
//	  "request_timeout": "10s",
//	  "log_backend": "zap",
//	  "log_level": "debug",
//	  "stale_fetch_guard": true,
//	  "local_id_fallback": false
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
