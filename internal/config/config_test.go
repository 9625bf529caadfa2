package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("ledger.db")
	cfg.Engine.Timezone = "America/New_York"
	cfg.Daemon.RunAt = "03:30"

	path := filepath.Join(t.TempDir(), "ledgerrun.yaml")
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Database.Path, got.Database.Path)
	assert.Equal(t, "America/New_York", got.Engine.Timezone)
	assert.Equal(t, "03:30", got.Daemon.RunAt)
	assert.Equal(t, cfg.Daemon.ListenAddr, got.Daemon.ListenAddr)
	assert.Equal(t, cfg.Logging.Level, got.Logging.Level)
}

func TestDefaults(t *testing.T) {
	cfg := Default("ledger.db")

	assert.Equal(t, "ledger.db", cfg.Database.Path)
	assert.Equal(t, "Local", cfg.Engine.Timezone)
	assert.Equal(t, "02:00", cfg.Daemon.RunAt)
	assert.Equal(t, "127.0.0.1:9464", cfg.Daemon.ListenAddr)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestYAMLFormat(t *testing.T) {
	cfg := Default("ledger.db")
	path := filepath.Join(t.TempDir(), "ledgerrun.yaml")
	err := Save(path, cfg)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "path: ledger.db")
	assert.Contains(t, contents, "timezone: Local")
	assert.Contains(t, contents, "listen_addr: 127.0.0.1:9464")
	assert.Contains(t, contents, "level: info")
}
