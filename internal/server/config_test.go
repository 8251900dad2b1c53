package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "localhost", cfg.Server.Address)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 2, cfg.Game.MinPlayers)
	assert.Equal(t, 5, cfg.Game.MaxPlayers)
	assert.Equal(t, 15, cfg.Game.CountdownSeconds)
	assert.Nil(t, cfg.Game.Seed)

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "localhost:8080", cfg.ListenAddress())
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigFromFile(t *testing.T) {
	content := `
server {
  address   = "0.0.0.0"
  port      = 9090
  log_level = "debug"
}

game {
  min_players       = 3
  max_players       = 4
  countdown_seconds = 30
  seed              = 42
}
`
	path := filepath.Join(t.TempDir(), "test.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Address)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 3, cfg.Game.MinPlayers)
	assert.Equal(t, 4, cfg.Game.MaxPlayers)
	assert.Equal(t, 30, cfg.Game.CountdownSeconds)
	require.NotNil(t, cfg.Game.Seed)
	assert.Equal(t, int64(42), *cfg.Game.Seed)
}

func TestLoadConfigPartialFile(t *testing.T) {
	content := `
server {
  port = 3000
}

game {}
`
	path := filepath.Join(t.TempDir(), "partial.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	// Unset fields fall back to defaults
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Address)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 2, cfg.Game.MinPlayers)
	assert.Equal(t, 5, cfg.Game.MaxPlayers)
	assert.Equal(t, 15, cfg.Game.CountdownSeconds)
}

func TestLoadConfigInvalidSyntax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`server { port = `), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"port too low", func(c *Config) { c.Server.Port = 0 }, "invalid port"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "invalid port"},
		{"min players below two", func(c *Config) { c.Game.MinPlayers = 1 }, "min players"},
		{"max players above five", func(c *Config) { c.Game.MaxPlayers = 6 }, "max players"},
		{"min above max", func(c *Config) { c.Game.MinPlayers = 5; c.Game.MaxPlayers = 3 }, "exceeds max"},
		{"zero countdown", func(c *Config) { c.Game.CountdownSeconds = 0 }, "countdown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
