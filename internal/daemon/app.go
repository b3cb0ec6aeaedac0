// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/Divyansh7131/Rakshak/internal/api"
	"github.com/Divyansh7131/Rakshak/internal/config"
	"github.com/Divyansh7131/Rakshak/internal/log"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// App owns the long-lived runtime: recovery, the control API, config reload
// and shutdown.
type App struct {
	logger       zerolog.Logger
	rt           *Runtime
	cfgHolder    *config.ConfigHolder
	server       *api.Server
	listener     net.Listener
	ready        atomic.Bool
	reloadSignal os.Signal
	shutdownWait time.Duration
}

// NewApp wires the API server over rt. ln may be nil, in which case Run
// opens the configured listen address.
func NewApp(rt *Runtime, cfgHolder *config.ConfigHolder, ln net.Listener) *App {
	cfg := cfgHolder.Get()
	a := &App{
		logger:       log.WithComponent("daemon"),
		rt:           rt,
		cfgHolder:    cfgHolder,
		listener:     ln,
		reloadSignal: syscall.SIGHUP,
		shutdownWait: cfg.API.ShutdownTimeout,
	}
	if rt != nil {
		a.server = api.New(api.Deps{
			Alerts:   rt.Manager,
			History:  rt.Remote,
			Identity: rt.Identity,
			Ready:    a.ready.Load,
		}, api.Config{
			ListenAddr:       cfg.API.ListenAddr,
			MaxConns:         cfg.API.MaxConns,
			ToggleRateLimit:  cfg.API.ToggleRateLimit,
			ToggleRateWindow: cfg.API.ToggleRateWindow,
			ShutdownTimeout:  cfg.API.ShutdownTimeout,
			ServiceName:      cfg.Telemetry.ServiceName,
		})
	}
	return a
}

// Ready reports whether startup recovery has completed.
func (a *App) Ready() bool { return a.ready.Load() }

// Run blocks until ctx ends or a subsystem fails, then shuts the runtime
// down. The alert session is left as is; a restart resumes it.
func (a *App) Run(ctx context.Context) error {
	if a.rt == nil {
		return ErrMissingRuntime
	}

	ln := a.listener
	if ln == nil {
		var err error
		if ln, err = a.server.Listen(); err != nil {
			_ = a.shutdown(ctx)
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	if err := a.cfgHolder.StartWatcher(gctx); err != nil {
		a.logger.Warn().Err(err).Str(log.FieldEvent, "config.watcher_start_failed").Msg("config watcher not started")
	}

	reloads := make(chan config.AppConfig, 1)
	a.cfgHolder.RegisterListener(reloads)
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case cfg := <-reloads:
				a.applyReload(cfg)
			}
		}
	})

	if a.reloadSignal != nil {
		g.Go(func() error {
			hup := make(chan os.Signal, 1)
			signal.Notify(hup, a.reloadSignal)
			defer signal.Stop(hup)
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-hup:
					a.logger.Info().Str(log.FieldEvent, "config.reload_signal").Msg("reload requested by signal")
					_ = a.cfgHolder.Reload(gctx)
				}
			}
		})
	}

	// The API comes up immediately; toggles are refused until recovery
	// has decided what the persisted session means.
	g.Go(func() error {
		if err := a.rt.Manager.Recover(gctx); err != nil {
			return err
		}
		a.ready.Store(true)
		a.logger.Info().
			Str(log.FieldEvent, "daemon.ready").
			Str(log.FieldNewState, string(a.rt.Manager.DisplayState().Status)).
			Msg("alert state restored")
		return nil
	})

	g.Go(func() error {
		return a.server.Serve(gctx, ln)
	})

	err := g.Wait()
	a.cfgHolder.Wait()
	if shutdownErr := a.shutdown(ctx); shutdownErr != nil {
		err = errors.Join(err, shutdownErr)
	}
	return err
}

func (a *App) applyReload(cfg config.AppConfig) {
	if err := log.SetLevel(cfg.LogLevel); err != nil {
		a.logger.Warn().Err(err).Msg("ignoring invalid log level from reload")
	}
	a.rt.Manager.SetReportInterval(cfg.Alert.ReportInterval)
}

func (a *App) shutdown(ctx context.Context) error {
	wait := a.shutdownWait
	if wait <= 0 {
		wait = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), wait)
	defer cancel()
	a.logger.Info().Str(log.FieldEvent, "daemon.shutdown").Msg("shutting down")
	return a.rt.Shutdown(shutdownCtx)
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
