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

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"base_url":              "http://docs.example:8000",
		"request_timeout":       "3s",
		"online_check_interval": 2000000000,
		"search_path":           "/api/users/search",
	})

	t.Run("loads from -config", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg, []string{"-config", path})

		assert.Equal(t, "http://docs.example:8000", cfg.BaseURL)
		assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
		assert.Equal(t, 2*time.Second, cfg.OnlineCheckInterval)
		assert.Equal(t, "/api/users/search", cfg.SearchPath)
		// untouched keys keep defaults
		assert.Equal(t, 10, cfg.PageSize)
		assert.Equal(t, "downloads", cfg.DownloadDir)
	})

	t.Run("no config flag → no changes", func(t *testing.T) {
		cfg := &Config{BaseURL: "http://defaults:1234", PageSize: 42}
		parseJson(cfg, []string{"-a", "http://ignored"})

		assert.Equal(t, "http://defaults:1234", cfg.BaseURL)
		assert.Equal(t, 42, cfg.PageSize)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		require.Panics(t, func() { parseJson(&Config{}, []string{"-c", bad}) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		require.Panics(t, func() { parseJson(&Config{}, []string{"-c", filepath.Join(t.TempDir(), "nope.json")}) })
	})
}
