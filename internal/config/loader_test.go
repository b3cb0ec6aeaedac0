// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Divyansh7131/Rakshak/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("RAKSHAK_DATA", t.TempDir())
	cfg, err := NewLoader("", "v1.2.3").Load()
	require.NoError(t, err)

	assert.Equal(t, "v1.2.3", cfg.Version)
	assert.Equal(t, 5*time.Minute, cfg.Alert.ReportInterval)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, filepath.Join(cfg.DataDir, "alert.db"), cfg.Store.Path)
	assert.Equal(t, filepath.Join(cfg.DataDir, "location.json"), cfg.Location.File)
	assert.Equal(t, filepath.Join(cfg.DataDir, "user.json"), cfg.Identity.File)
	assert.True(t, filepath.IsAbs(cfg.DataDir))
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
logLevel: debug
dataDir: `+dir+`
backend:
  baseUrl: https://alerts.example.com
alert:
  reportInterval: 2m
store:
  backend: badger
identity:
  userId: u-file
`)
	t.Setenv("RAKSHAK_REPORT_INTERVAL", "90s")
	t.Setenv("RAKSHAK_USER_ID", "u-env")

	l := NewLoader(path, "dev")
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "https://alerts.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, 90*time.Second, cfg.Alert.ReportInterval, "env wins over file")
	assert.Equal(t, "u-env", cfg.Identity.UserID)
	assert.Equal(t, filepath.Join(dir, "alert.badger"), cfg.Store.Path)
	assert.Equal(t, 20*time.Second, cfg.Backend.CallTimeout, "unset keys keep defaults")
	assert.Contains(t, l.ConsumedEnvKeys, "RAKSHAK_REPORT_INTERVAL")
}

func TestLoad_FileErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("unknown field", func(t *testing.T) {
		path := writeConfig(t, dir, "alert:\n  reportEvery: 1m\n")
		_, err := NewLoader(path, "").Load()
		require.ErrorIs(t, err, ErrUnknownConfigField)
	})

	t.Run("not yaml", func(t *testing.T) {
		path := filepath.Join(dir, "config.json")
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))
		_, err := NewLoader(path, "").Load()
		require.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("multiple documents", func(t *testing.T) {
		path := writeConfig(t, dir, "logLevel: info\n---\nlogLevel: debug\n")
		_, err := NewLoader(path, "").Load()
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewLoader(filepath.Join(dir, "nope.yaml"), "").Load()
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("empty file uses defaults", func(t *testing.T) {
		t.Setenv("RAKSHAK_DATA", dir)
		path := writeConfig(t, dir, "")
		cfg, err := NewLoader(path, "").Load()
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.LogLevel)
	})
}

func TestValidate(t *testing.T) {
	valid := func() AppConfig {
		cfg := Defaults()
		cfg.DataDir = t.TempDir()
		resolvePaths(&cfg)
		return cfg
	}
	require.NoError(t, Validate(valid()))

	tests := []struct {
		name   string
		mutate func(*AppConfig)
		field  string
	}{
		{"bad level", func(c *AppConfig) { c.LogLevel = "loud" }, "logLevel"},
		{"bad backend url", func(c *AppConfig) { c.Backend.BaseURL = "alerts" }, "backend.baseUrl"},
		{"interval too short", func(c *AppConfig) { c.Alert.ReportInterval = time.Second }, "alert.reportInterval"},
		{"unknown store", func(c *AppConfig) { c.Store.Backend = "mysql" }, "store.backend"},
		{"static out of range", func(c *AppConfig) {
			c.Location.Source = "static"
			c.Location.Latitude = 120
		}, "location.latitude"},
		{"webhook without url", func(c *AppConfig) { c.Notify.Sender = "webhook" }, "notify.webhookUrl"},
		{"bad listen", func(c *AppConfig) { c.API.ListenAddr = "8730" }, "api.listenAddr"},
		{"no identity", func(c *AppConfig) { c.Identity = IdentityConfig{} }, "identity"},
		{"tracing exporter", func(c *AppConfig) {
			c.Telemetry.Enabled = true
			c.Telemetry.ExporterType = "zipkin"
		}, "telemetry.exporter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := Validate(cfg)
			require.Error(t, err)

			var verr validate.ValidationError
			require.ErrorAs(t, err, &verr)
			var fields []string
			for _, e := range verr.Errors() {
				fields = append(fields, e.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}
