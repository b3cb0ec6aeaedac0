// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"time"

	"github.com/Divyansh7131/Rakshak/internal/validate"
)

var (
	storeBackends   = []string{"sqlite", "badger", "file", "redis", "memory"}
	locationSources = []string{"static", "file"}
	notifySenders   = []string{"log", "webhook"}
	exporterTypes   = []string{"grpc", "http"}
)

// Validate checks a resolved configuration and reports every problem at once.
func Validate(cfg AppConfig) error {
	v := validate.New()

	if _, err := validate.ParseLogLevel(cfg.LogLevel); err != nil {
		v.AddError("logLevel", err.Error(), cfg.LogLevel)
	}
	v.NotEmpty("dataDir", cfg.DataDir)

	v.URL("backend.baseUrl", cfg.Backend.BaseURL, []string{"http", "https"})
	v.DurationRange("backend.callTimeout", cfg.Backend.CallTimeout, time.Second, 5*time.Minute)
	v.Range("backend.retryAttempts", cfg.Backend.RetryAttempts, 1, 10)
	v.Range("backend.breakerThreshold", cfg.Backend.BreakerThreshold, 1, 100)
	if cfg.Backend.RetryInitial <= 0 || cfg.Backend.RetryMax < cfg.Backend.RetryInitial {
		v.AddError("backend.retryInitial", "must be positive and not exceed retryMax", cfg.Backend.RetryInitial)
	}

	v.DurationRange("alert.reportInterval", cfg.Alert.ReportInterval, 5*time.Second, 24*time.Hour)
	v.DurationRange("alert.tickTimeout", cfg.Alert.TickTimeout, time.Second, cfg.Alert.ReportInterval)
	v.DurationRange("alert.operationTimeout", cfg.Alert.OperationTimeout, 5*time.Second, 10*time.Minute)

	v.OneOf("store.backend", cfg.Store.Backend, storeBackends)
	switch cfg.Store.Backend {
	case "redis":
		v.NotEmpty("store.redis.addr", cfg.Store.Redis.Addr)
	case "memory":
	default:
		v.NotEmpty("store.path", cfg.Store.Path)
	}

	v.OneOf("location.source", cfg.Location.Source, locationSources)
	switch cfg.Location.Source {
	case "static":
		v.FloatRange("location.latitude", cfg.Location.Latitude, -90, 90)
		v.FloatRange("location.longitude", cfg.Location.Longitude, -180, 180)
	case "file":
		v.NotEmpty("location.file", cfg.Location.File)
	}
	v.DurationRange("location.timeout", cfg.Location.Timeout, time.Second, 2*time.Minute)

	if cfg.Identity.UserID == "" && cfg.Identity.File == "" {
		v.AddError("identity", "either userId or file must be set", "")
	}

	v.OneOf("notify.sender", cfg.Notify.Sender, notifySenders)
	if cfg.Notify.Sender == "webhook" {
		v.URL("notify.webhookUrl", cfg.Notify.WebhookURL, []string{"http", "https"})
	}
	v.Range("notify.maxParallel", cfg.Notify.MaxParallel, 1, 64)

	v.ListenAddr("api.listenAddr", cfg.API.ListenAddr)
	v.Range("api.maxConns", cfg.API.MaxConns, 1, 10000)
	v.Range("api.toggleRateLimit", cfg.API.ToggleRateLimit, 1, 1000)

	if cfg.Telemetry.Enabled {
		v.OneOf("telemetry.exporter", cfg.Telemetry.ExporterType, exporterTypes)
		v.NotEmpty("telemetry.endpoint", cfg.Telemetry.Endpoint)
		v.FloatRange("telemetry.samplingRate", cfg.Telemetry.SamplingRate, 0, 1)
	}

	return v.Err()
}
