// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package config loads the agent configuration: defaults, then a strict YAML
// file, then RAKSHAK_* environment overrides.
package config

import "time"

// AppConfig is the fully resolved agent configuration.
type AppConfig struct {
	Version string `yaml:"-"`

	LogLevel   string `yaml:"logLevel"`
	LogService string `yaml:"logService"`
	DataDir    string `yaml:"dataDir"`

	Backend   BackendConfig   `yaml:"backend"`
	Alert     AlertConfig     `yaml:"alert"`
	Store     StoreConfig     `yaml:"store"`
	Location  LocationConfig  `yaml:"location"`
	Identity  IdentityConfig  `yaml:"identity"`
	Notify    NotifyConfig    `yaml:"notify"`
	API       APIConfig       `yaml:"api"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// BackendConfig points at the alert backend.
type BackendConfig struct {
	BaseURL          string        `yaml:"baseUrl"`
	CallTimeout      time.Duration `yaml:"callTimeout"`
	RetryAttempts    int           `yaml:"retryAttempts"`
	RetryInitial     time.Duration `yaml:"retryInitial"`
	RetryMax         time.Duration `yaml:"retryMax"`
	BreakerThreshold int           `yaml:"breakerThreshold"`
	BreakerReset     time.Duration `yaml:"breakerReset"`
}

// AlertConfig tunes the session manager.
type AlertConfig struct {
	ReportInterval   time.Duration `yaml:"reportInterval"`
	TickTimeout      time.Duration `yaml:"tickTimeout"`
	OperationTimeout time.Duration `yaml:"operationTimeout"`
}

// StoreConfig selects the crash-recovery store.
type StoreConfig struct {
	// Backend is one of sqlite, badger, file, redis, memory.
	Backend string `yaml:"backend"`
	// Path defaults to a backend-specific file under DataDir.
	Path  string      `yaml:"path"`
	Redis RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"keyPrefix"`
}

// LocationConfig selects the platform location source.
type LocationConfig struct {
	// Source is "static" or "file".
	Source    string        `yaml:"source"`
	Latitude  float64       `yaml:"latitude"`
	Longitude float64       `yaml:"longitude"`
	File      string        `yaml:"file"`
	Timeout   time.Duration `yaml:"timeout"`
}

// IdentityConfig resolves the signed-in user. File wins over UserID.
type IdentityConfig struct {
	UserID string `yaml:"userId"`
	File   string `yaml:"file"`
}

// NotifyConfig configures contact notification.
type NotifyConfig struct {
	// Sender is "log" or "webhook".
	Sender        string        `yaml:"sender"`
	WebhookURL    string        `yaml:"webhookUrl"`
	RatePerSecond float64       `yaml:"ratePerSecond"`
	MaxParallel   int           `yaml:"maxParallel"`
	SendTimeout   time.Duration `yaml:"sendTimeout"`
}

// APIConfig configures the local control surface.
type APIConfig struct {
	ListenAddr       string        `yaml:"listenAddr"`
	MaxConns         int           `yaml:"maxConns"`
	ToggleRateLimit  int           `yaml:"toggleRateLimit"`
	ToggleRateWindow time.Duration `yaml:"toggleRateWindow"`
	ShutdownTimeout  time.Duration `yaml:"shutdownTimeout"`
}

// TelemetryConfig configures OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	ServiceName  string  `yaml:"serviceName"`
	Environment  string  `yaml:"environment"`
	ExporterType string  `yaml:"exporter"`
	Endpoint     string  `yaml:"endpoint"`
	SamplingRate float64 `yaml:"samplingRate"`
}
