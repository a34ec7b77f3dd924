package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projectintel/internal/store"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, info, err := LoadConfigWithInfo(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.False(t, info.Found)
	assert.False(t, info.PortSpecified)
	assert.Equal(t, 20261, cfg.Server.Port)
	assert.Equal(t, 14, cfg.Business.DueSoonDays)
	assert.Equal(t, store.MemoryDSN, CacheDSN(cfg))
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
port = 9000

[data]
cache_db = "cache/session.db"
watch = true

[business]
due_soon_days = 15

[schema]
synonyms_file = "synonyms.yaml"

[log]
level = "debug"
`), 0o644))

	t.Setenv("PROJECTINTEL_DEFAULT_URL", "https://example.test/projects.csv")
	t.Setenv("SPREADSHEET_ID", "sheet-1")

	cfg, info, err := LoadConfigWithInfo(path)
	require.NoError(t, err)
	assert.True(t, info.Found)
	assert.True(t, info.PortSpecified)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.True(t, cfg.Data.Watch)
	assert.Equal(t, 15, cfg.Business.DueSoonDays)
	assert.Equal(t, "synonyms.yaml", cfg.Schema.SynonymsFile)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "cache/session.db", CacheDSN(cfg))
	assert.Equal(t, "https://example.test/projects.csv", cfg.Source.DefaultURL)
	assert.Equal(t, "sheet-1", cfg.Source.SpreadsheetID)
}

func TestLoadConfig_InvalidToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nport = x"), 0o644))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PROJECTINTEL_PORT=7001\n"), 0o644))
	t.Setenv("PROJECTINTEL_PORT", "")
	require.NoError(t, os.Unsetenv("PROJECTINTEL_PORT"))

	require.NoError(t, LoadEnv(envFile, filepath.Join(dir, "missing.env")))
	cfg := DefaultConfig()
	ApplyEnv(cfg)
	assert.Equal(t, 7001, cfg.Server.Port)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.Source.DefaultFile = "projects.xlsx"
	require.NoError(t, SaveConfig(cfg, path))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "projects.xlsx", got.Source.DefaultFile)
}
