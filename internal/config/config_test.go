// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  host: 127.0.0.1
  port: 9090
logging:
  level: debug
  format: text
ntp:
  servers:
    - time.example.com
  timeout: 3s
sitecheck:
  allowed_hosts:
    - example.com
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, []string{"time.example.com"}, cfg.NTP.Servers)
	assert.Equal(t, 3*time.Second, cfg.NTP.Timeout)
	assert.Equal(t, []string{"example.com"}, cfg.SiteCheck.AllowedHosts)
	// Sections absent from the file keep their defaults
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 256, cfg.Password.MaxLength)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DATABOX_PORT", "9191")
	t.Setenv("DATABOX_LOG_LEVEL", "warn")
	t.Setenv("DATABOX_NTP_SERVERS", "a.example.com, b.example.com")
	t.Setenv("DATABOX_IPINFO_TOKEN", "tok123")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, []string{"a.example.com", "b.example.com"}, cfg.NTP.Servers)
	assert.Equal(t, "tok123", cfg.IPInfo.Token)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"no ntp servers", func(c *Config) { c.NTP.Servers = nil }},
		{"zero ntp timeout", func(c *Config) { c.NTP.Timeout = 0 }},
		{"zero sitecheck timeout", func(c *Config) { c.SiteCheck.RequestTimeout = 0 }},
		{"zero sitecheck rate", func(c *Config) { c.SiteCheck.RequestsPerSec = 0 }},
		{"zero password max length", func(c *Config) { c.Password.MaxLength = 0 }},
		{"zero math eval timeout", func(c *Config) { c.Math.EvalTimeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
