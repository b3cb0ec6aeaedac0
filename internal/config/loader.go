// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading with precedence ENV > file > defaults.
type Loader struct {
	configPath string
	version    string
	// ConsumedEnvKeys records every RAKSHAK_* key the loader looked at.
	ConsumedEnvKeys map[string]struct{}
}

// NewLoader creates a loader. An empty configPath means env-only.
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

// Path returns the config file path, if any.
func (l *Loader) Path() string { return l.configPath }

func (l *Loader) envString(key, def string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, def)
}

func (l *Loader) envInt(key string, def int) int {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseInt(key, def)
}

func (l *Loader) envBool(key string, def bool) bool {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseBool(key, def)
}

func (l *Loader) envDuration(key string, def time.Duration) time.Duration {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseDuration(key, def)
}

func (l *Loader) envFloat(key string, def float64) float64 {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseFloat(key, def)
}

// Load resolves the configuration: defaults, strict file, env, validate.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.configPath != "" {
		if err := l.loadFile(l.configPath, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	l.mergeEnvConfig(&cfg)
	resolvePaths(&cfg)
	cfg.Version = l.version

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile decodes a YAML file over cfg. Unknown fields are fatal.
func (l *Loader) loadFile(path string, cfg *AppConfig) error {
	path = filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("%w: %s (only YAML supported)", ErrUnsupportedFormat, ext)
	}

	// #nosec G304 -- the config path is supplied by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if strings.Contains(err.Error(), "not found in type") {
			return fmt.Errorf("%w: %v", ErrUnknownConfigField, err)
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return nil
}

func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	cfg.LogLevel = l.envString("RAKSHAK_LOG_LEVEL", cfg.LogLevel)
	cfg.LogService = l.envString("RAKSHAK_LOG_SERVICE", cfg.LogService)
	cfg.DataDir = l.envString("RAKSHAK_DATA", cfg.DataDir)

	b := &cfg.Backend
	b.BaseURL = l.envString("RAKSHAK_BACKEND_URL", b.BaseURL)
	b.CallTimeout = l.envDuration("RAKSHAK_BACKEND_CALL_TIMEOUT", b.CallTimeout)
	b.RetryAttempts = l.envInt("RAKSHAK_BACKEND_RETRY_ATTEMPTS", b.RetryAttempts)
	b.BreakerThreshold = l.envInt("RAKSHAK_BACKEND_BREAKER_THRESHOLD", b.BreakerThreshold)

	a := &cfg.Alert
	a.ReportInterval = l.envDuration("RAKSHAK_REPORT_INTERVAL", a.ReportInterval)
	a.TickTimeout = l.envDuration("RAKSHAK_TICK_TIMEOUT", a.TickTimeout)
	a.OperationTimeout = l.envDuration("RAKSHAK_OPERATION_TIMEOUT", a.OperationTimeout)

	s := &cfg.Store
	s.Backend = l.envString("RAKSHAK_STORE_BACKEND", s.Backend)
	s.Path = l.envString("RAKSHAK_STORE_PATH", s.Path)
	s.Redis.Addr = l.envString("RAKSHAK_REDIS_ADDR", s.Redis.Addr)
	s.Redis.Password = l.envString("RAKSHAK_REDIS_PASSWORD", s.Redis.Password)
	s.Redis.DB = l.envInt("RAKSHAK_REDIS_DB", s.Redis.DB)

	loc := &cfg.Location
	loc.Source = l.envString("RAKSHAK_LOCATION_SOURCE", loc.Source)
	loc.Latitude = l.envFloat("RAKSHAK_LOCATION_LAT", loc.Latitude)
	loc.Longitude = l.envFloat("RAKSHAK_LOCATION_LNG", loc.Longitude)
	loc.File = l.envString("RAKSHAK_LOCATION_FILE", loc.File)
	loc.Timeout = l.envDuration("RAKSHAK_LOCATION_TIMEOUT", loc.Timeout)

	cfg.Identity.UserID = l.envString("RAKSHAK_USER_ID", cfg.Identity.UserID)
	cfg.Identity.File = l.envString("RAKSHAK_USER_FILE", cfg.Identity.File)

	n := &cfg.Notify
	n.Sender = l.envString("RAKSHAK_NOTIFY_SENDER", n.Sender)
	n.WebhookURL = l.envString("RAKSHAK_NOTIFY_WEBHOOK_URL", n.WebhookURL)
	n.RatePerSecond = l.envFloat("RAKSHAK_NOTIFY_RATE", n.RatePerSecond)

	api := &cfg.API
	api.ListenAddr = l.envString("RAKSHAK_LISTEN", api.ListenAddr)
	api.MaxConns = l.envInt("RAKSHAK_API_MAX_CONNS", api.MaxConns)
	api.ToggleRateLimit = l.envInt("RAKSHAK_TOGGLE_RATE_LIMIT", api.ToggleRateLimit)

	tel := &cfg.Telemetry
	tel.Enabled = l.envBool("RAKSHAK_TRACING_ENABLED", tel.Enabled)
	tel.ExporterType = l.envString("RAKSHAK_TRACING_EXPORTER", tel.ExporterType)
	tel.Endpoint = l.envString("RAKSHAK_TRACING_ENDPOINT", tel.Endpoint)
	tel.SamplingRate = l.envFloat("RAKSHAK_TRACING_SAMPLING_RATE", tel.SamplingRate)
}
