// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package api is the local control surface the UI and CLI use to drive the
// alert session.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Divyansh7131/Rakshak/internal/domain/alert/manager"
	"github.com/Divyansh7131/Rakshak/internal/domain/alert/model"
	"github.com/Divyansh7131/Rakshak/internal/domain/alert/ports"
	"github.com/Divyansh7131/Rakshak/internal/log"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/net/netutil"
)

// AlertService is the subset of the manager the API drives.
type AlertService interface {
	Toggle(ctx context.Context) model.Outcome
	DisplayState() model.DisplayState
	Snapshot() manager.Snapshot
}

// Deps are the collaborators behind the routes.
type Deps struct {
	Alerts   AlertService
	History  ports.HistoryReader
	Identity ports.IdentityProvider
	// Ready reports whether startup recovery has finished.
	Ready func() bool
}

// Config tunes the HTTP surface.
type Config struct {
	ListenAddr       string
	MaxConns         int
	ToggleRateLimit  int
	ToggleRateWindow time.Duration
	ShutdownTimeout  time.Duration
	ServiceName      string
}

// Server serves the control API.
type Server struct {
	cfg    Config
	srv    *http.Server
	logger zerolog.Logger
}

// New builds the server and its router.
func New(deps Deps, cfg Config) *Server {
	if cfg.ToggleRateLimit <= 0 {
		cfg.ToggleRateLimit = 10
	}
	if cfg.ToggleRateWindow <= 0 {
		cfg.ToggleRateWindow = time.Minute
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "rakshak"
	}
	return &Server{
		cfg: cfg,
		srv: &http.Server{
			Handler:           NewRouter(deps, cfg),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			// Toggles may take as long as a full start or stop.
			WriteTimeout: 90 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: log.WithComponent("api"),
	}
}

// NewRouter wires middleware and routes.
func NewRouter(deps Deps, cfg Config) http.Handler {
	h := &handlers{deps: deps}

	r := chi.NewRouter()
	r.Use(recoverer)
	r.Use(requestID)
	r.Use(observe)
	r.Use(log.Middleware())

	r.Get("/healthz", h.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/alert", func(r chi.Router) {
		r.Get("/state", h.state)
		r.Get("/session", h.session)
		r.Get("/history", h.history)
		r.With(toggleRateLimit(cfg.ToggleRateLimit, cfg.ToggleRateWindow)).Post("/toggle", h.toggle)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "not_found", "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "")
	})

	return tracing(cfg.ServiceName)(r)
}

// Listen opens the listener, capped at MaxConns concurrent connections.
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", s.cfg.ListenAddr, err)
	}
	if s.cfg.MaxConns > 0 {
		ln = netutil.LimitListener(ln, s.cfg.MaxConns)
	}
	return ln, nil
}

// Serve serves on ln until ctx ends, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str(log.FieldEvent, "api.listening").Str("addr", ln.Addr().String()).Msg("control API listening")
		errCh <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn().Err(err).Str(log.FieldEvent, "api.shutdown_forced").Msg("graceful shutdown timed out")
		_ = s.srv.Close()
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info().Str(log.FieldEvent, "api.stopped").Msg("control API stopped")
	return nil
}
