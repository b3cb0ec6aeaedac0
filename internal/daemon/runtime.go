// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package daemon assembles the agent from configuration and owns its
// process lifecycle.
package daemon

import (
	"context"
	"fmt"

	"github.com/Divyansh7131/Rakshak/internal/config"
	"github.com/Divyansh7131/Rakshak/internal/domain/alert/manager"
	"github.com/Divyansh7131/Rakshak/internal/domain/alert/ports"
	"github.com/Divyansh7131/Rakshak/internal/domain/alert/store"
	"github.com/Divyansh7131/Rakshak/internal/identity"
	"github.com/Divyansh7131/Rakshak/internal/location"
	"github.com/Divyansh7131/Rakshak/internal/log"
	"github.com/Divyansh7131/Rakshak/internal/notify"
	"github.com/Divyansh7131/Rakshak/internal/platform/httpx"
	"github.com/Divyansh7131/Rakshak/internal/remote"
	"github.com/Divyansh7131/Rakshak/internal/resilience"
	"github.com/Divyansh7131/Rakshak/internal/schedule"
	"github.com/Divyansh7131/Rakshak/internal/telemetry"
)

// Runtime is the wired agent: the manager and the adapters behind it.
type Runtime struct {
	Manager  *manager.Manager
	Remote   *remote.Client
	Identity ports.IdentityProvider
	Store    ports.SessionStore
	Notifier *notify.Dispatcher

	hooks *hooks
}

// Build wires every adapter from cfg. On error, anything already opened is
// released before returning.
func Build(ctx context.Context, cfg config.AppConfig) (rt *Runtime, err error) {
	rt = &Runtime{hooks: &hooks{logger: log.WithComponent("daemon")}}
	defer func() {
		if err != nil {
			_ = rt.hooks.run(context.WithoutCancel(ctx))
			rt = nil
		}
	}()

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Telemetry.Environment,
		ExporterType:   cfg.Telemetry.ExporterType,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return nil, err
	}
	rt.hooks.register("telemetry", tp.Shutdown)

	st, err := store.OpenSessionStore(ctx, store.Options{
		Backend: cfg.Store.Backend,
		Path:    cfg.Store.Path,
		Redis: store.RedisConfig{
			Addr:      cfg.Store.Redis.Addr,
			Password:  cfg.Store.Redis.Password,
			DB:        cfg.Store.Redis.DB,
			KeyPrefix: cfg.Store.Redis.KeyPrefix,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	rt.Store = st
	rt.hooks.register("store", func(context.Context) error { return st.Close() })

	src, err := locationSource(cfg.Location)
	if err != nil {
		return nil, err
	}

	rt.Identity = identityProvider(cfg.Identity)

	client := httpx.NewClient(cfg.Backend.CallTimeout)
	rt.Remote, err = remote.New(remote.Config{
		BaseURL:     cfg.Backend.BaseURL,
		CallTimeout: cfg.Backend.CallTimeout,
		Retry: resilience.RetryPolicy{
			MaxAttempts:     uint(cfg.Backend.RetryAttempts),
			InitialInterval: cfg.Backend.RetryInitial,
			MaxInterval:     cfg.Backend.RetryMax,
			MaxElapsed:      cfg.Backend.CallTimeout,
		},
		BreakerThreshold: cfg.Backend.BreakerThreshold,
		BreakerReset:     cfg.Backend.BreakerReset,
		HTTPClient:       client,
	})
	if err != nil {
		return nil, err
	}

	sender, err := notifySender(cfg.Notify)
	if err != nil {
		return nil, err
	}
	rt.Notifier = notify.NewDispatcher(sender, notify.Options{
		RatePerSecond: cfg.Notify.RatePerSecond,
		MaxParallel:   cfg.Notify.MaxParallel,
		SendTimeout:   cfg.Notify.SendTimeout,
	})
	rt.hooks.register("notify", rt.Notifier.Wait)

	rt.Manager, err = manager.New(manager.Deps{
		Sampler:   location.NewSampler(src, cfg.Location.Timeout),
		Remote:    rt.Remote,
		Store:     st,
		Identity:  rt.Identity,
		Notifier:  rt.Notifier,
		Scheduler: schedule.NewTicker(),
	}, manager.Config{
		ReportInterval:   cfg.Alert.ReportInterval,
		TickTimeout:      cfg.Alert.TickTimeout,
		OperationTimeout: cfg.Alert.OperationTimeout,
	})
	if err != nil {
		return nil, err
	}
	rt.hooks.register("alert_manager", func(context.Context) error {
		rt.Manager.Close()
		return nil
	})

	return rt, nil
}

// Shutdown runs the cleanup hooks once, last registered first: the manager
// stops before notifications drain and the store closes.
func (rt *Runtime) Shutdown(ctx context.Context) error {
	return rt.hooks.run(ctx)
}

func locationSource(cfg config.LocationConfig) (location.Source, error) {
	switch cfg.Source {
	case "static":
		return location.StaticSource{Latitude: cfg.Latitude, Longitude: cfg.Longitude}, nil
	case "file":
		return location.FileSource{Path: cfg.File}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Source)
}

func identityProvider(cfg config.IdentityConfig) ports.IdentityProvider {
	if cfg.File != "" {
		return identity.FileProvider{Path: cfg.File}
	}
	return identity.Static(cfg.UserID)
}

func notifySender(cfg config.NotifyConfig) (notify.Sender, error) {
	switch cfg.Sender {
	case "log":
		return notify.NewLogSender(), nil
	case "webhook":
		return notify.NewWebhookSender(cfg.WebhookURL, httpx.NewClient(cfg.SendTimeout)), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSender, cfg.Sender)
}
