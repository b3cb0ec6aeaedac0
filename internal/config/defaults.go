// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"path/filepath"
	"time"
)

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		LogLevel:   "info",
		LogService: "rakshak",
		DataDir:    "data",
		Backend: BackendConfig{
			BaseURL:          "http://localhost:3000",
			CallTimeout:      20 * time.Second,
			RetryAttempts:    3,
			RetryInitial:     500 * time.Millisecond,
			RetryMax:         4 * time.Second,
			BreakerThreshold: 5,
			BreakerReset:     30 * time.Second,
		},
		Alert: AlertConfig{
			ReportInterval:   5 * time.Minute,
			TickTimeout:      30 * time.Second,
			OperationTimeout: 60 * time.Second,
		},
		Store: StoreConfig{
			Backend: "sqlite",
			Redis:   RedisConfig{Addr: "localhost:6379", KeyPrefix: "rakshak:alert:"},
		},
		Location: LocationConfig{
			Source:  "file",
			Timeout: 15 * time.Second,
		},
		Notify: NotifyConfig{
			Sender:        "log",
			RatePerSecond: 2,
			MaxParallel:   4,
			SendTimeout:   20 * time.Second,
		},
		API: APIConfig{
			ListenAddr:       "127.0.0.1:8730",
			MaxConns:         64,
			ToggleRateLimit:  10,
			ToggleRateWindow: time.Minute,
			ShutdownTimeout:  10 * time.Second,
		},
		Telemetry: TelemetryConfig{
			ServiceName:  "rakshak",
			Environment:  "development",
			ExporterType: "grpc",
			Endpoint:     "localhost:4317",
			SamplingRate: 1.0,
		},
	}
}

// resolvePaths makes DataDir absolute and fills backend-specific defaults.
func resolvePaths(cfg *AppConfig) {
	if abs, err := filepath.Abs(cfg.DataDir); err == nil {
		cfg.DataDir = abs
	}
	if cfg.Store.Path == "" {
		switch cfg.Store.Backend {
		case "sqlite", "":
			cfg.Store.Path = filepath.Join(cfg.DataDir, "alert.db")
		case "badger":
			cfg.Store.Path = filepath.Join(cfg.DataDir, "alert.badger")
		case "file":
			cfg.Store.Path = filepath.Join(cfg.DataDir, "alert.json")
		}
	}
	if cfg.Location.Source == "file" && cfg.Location.File == "" {
		cfg.Location.File = filepath.Join(cfg.DataDir, "location.json")
	}
	if cfg.Identity.UserID == "" && cfg.Identity.File == "" {
		cfg.Identity.File = filepath.Join(cfg.DataDir, "user.json")
	}
}
