package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/admindash/internal/flagx"
)

var knownFlags = []string{"-a", "-k", "-p", "-s", "-t", "-l", "-v", "-g"}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the API (default from Config)
//	-k string   API key sent as x-api-key
//	-p int      users per page
//	-s string   path of the local state database
//	-t int      request timeout (in seconds)
//	-l string   log backend: slog or zap
//	-v string   log level: debug, info, warn, error
//	-g          drop stale list results
//
// Note: The function filters args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "base URL of the API")
	fs.StringVar(&cfg.APIKey, "k", cfg.APIKey, "API key sent as x-api-key")
	fs.IntVar(&cfg.PerPage, "p", cfg.PerPage, "users per page")
	fs.StringVar(&cfg.StatePath, "s", cfg.StatePath, "path of the local state database")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogBackend, "l", cfg.LogBackend, "log backend: slog or zap")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.BoolVar(&cfg.StaleFetchGuard, "g", cfg.StaleFetchGuard, "drop stale list results")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("parse flags: unexpected argument %q", fs.Arg(0))
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	return nil
}
