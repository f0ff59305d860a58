package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.LogPretty)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, 0.3, cfg.Temperature)
	assert.Equal(t, "plandy.db", cfg.SQLitePath)
	assert.Equal(t, "Asia/Seoul", cfg.DefaultTimezone)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PLANDY_HTTP_ADDR", ":9090")
	t.Setenv("OPENAI_API_KEY", "test-key")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "test-key", cfg.OpenAIKey)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plandy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\nsqlite_path: /tmp/test.db\n"), 0o600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/test.db", cfg.SQLitePath)
	// untouched keys keep their defaults
	assert.Equal(t, ":8080", cfg.HTTPAddr)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
