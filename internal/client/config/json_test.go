package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"server_endpoint_addr": "http://www.example:9000/api",
		"api_key":              "reqres-free-v1",
		"request_timeout":      "10s",
		"state_path":           "/tmp/state.db",
		"log_level":            "debug",
		"stale_fetch_guard":    true,
	})

	t.Run("loads from -config", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, parseJson(cfg, []string{"-config", pathFlag}))

		assert.Equal(t, "http://www.example:9000/api", cfg.ServerEndpointAddr)
		assert.Equal(t, "reqres-free-v1", cfg.APIKey)
		assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "/tmp/state.db", cfg.StatePath)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.True(t, cfg.StaleFetchGuard)
	})

	t.Run("loads from -c, missing keys untouched", func(t *testing.T) {
		cfg := &Config{PerPage: 7, LocalIDFallback: true, LogBackend: LogBackendZap}
		require.NoError(t, parseJson(cfg, []string{"-a", "ignored", "-c", pathFlag}))

		assert.Equal(t, 7, cfg.PerPage)
		assert.True(t, cfg.LocalIDFallback)
		assert.Equal(t, LogBackendZap, cfg.LogBackend)
		assert.Equal(t, "http://www.example:9000/api", cfg.ServerEndpointAddr)
	})

	t.Run("timeout as nanoseconds", func(t *testing.T) {
		p := writeTempJSON(t, dir, "ns.json", map[string]any{"request_timeout": 2_000_000_000})
		cfg := &Config{}
		require.NoError(t, parseJson(cfg, []string{"-c", p}))
		assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	})

	t.Run("no config flag → no changes", func(t *testing.T) {
		cfg := &Config{
			ServerEndpointAddr: "http://defaults:1234",
			RequestTimeout:     42 * time.Second,
		}
		require.NoError(t, parseJson(cfg, []string{"-a", "x"}))

		assert.Equal(t, "http://defaults:1234", cfg.ServerEndpointAddr)
		assert.Equal(t, 42*time.Second, cfg.RequestTimeout)
	})

	t.Run("invalid JSON → error", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		require.Error(t, parseJson(&Config{}, []string{"-config", bad}))
	})

	t.Run("invalid duration → error", func(t *testing.T) {
		p := writeTempJSON(t, dir, "dur.json", map[string]any{"request_timeout": "soon"})
		require.Error(t, parseJson(&Config{}, []string{"-c", p}))
	})
}
