// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package manager owns the alert session: it serializes toggles, drives the
// lifecycle, runs the periodic location reporter and recovers after a crash.
package manager

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Divyansh7131/Rakshak/internal/domain/alert/lifecycle"
	"github.com/Divyansh7131/Rakshak/internal/domain/alert/model"
	"github.com/Divyansh7131/Rakshak/internal/domain/alert/ports"
	"github.com/Divyansh7131/Rakshak/internal/log"
	"github.com/Divyansh7131/Rakshak/internal/metrics"
	"github.com/Divyansh7131/Rakshak/internal/telemetry"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultReportInterval   = 5 * time.Minute
	DefaultTickTimeout      = 30 * time.Second
	DefaultOperationTimeout = 60 * time.Second
)

var ErrMissingDependency = errors.New("manager: missing dependency")

// Deps are the collaborators the manager drives.
type Deps struct {
	Sampler   ports.LocationSampler
	Remote    ports.RemoteSyncClient
	Store     ports.SessionStore
	Identity  ports.IdentityProvider
	Notifier  ports.Notifier
	Scheduler ports.Scheduler
	Clock     ports.Clock
}

// Config tunes timing.
type Config struct {
	ReportInterval time.Duration
	// TickTimeout bounds one reporting tick.
	TickTimeout time.Duration
	// OperationTimeout bounds a whole start or stop. Toggles run detached
	// from the caller's cancellation so a dropped request cannot strand a
	// half-finished transition.
	OperationTimeout time.Duration
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Manager is the single owner of the alert session.
type Manager struct {
	deps   Deps
	cfg    Config
	logger zerolog.Logger
	tracer trace.Tracer

	mu          sync.Mutex
	session     model.AlertSession
	reporter    ports.Task
	generation  uint64
	closed      bool
	subscribers map[int]chan<- model.DisplayState
	nextSubID   int

	// storeMu orders every store write. Lock order is storeMu, then mu.
	storeMu sync.Mutex
}

// New validates deps and returns an Idle manager. Call Recover before use.
func New(deps Deps, cfg Config) (*Manager, error) {
	if deps.Sampler == nil || deps.Remote == nil || deps.Store == nil ||
		deps.Identity == nil || deps.Notifier == nil || deps.Scheduler == nil {
		return nil, ErrMissingDependency
	}
	if deps.Clock == nil {
		deps.Clock = realClock{}
	}
	if cfg.ReportInterval <= 0 {
		cfg.ReportInterval = DefaultReportInterval
	}
	if cfg.TickTimeout <= 0 {
		cfg.TickTimeout = DefaultTickTimeout
	}
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = DefaultOperationTimeout
	}

	return &Manager{
		deps:        deps,
		cfg:         cfg,
		logger:      log.WithComponent("alert.manager"),
		tracer:      telemetry.Tracer("rakshak/alert"),
		session:     model.AlertSession{Status: model.StatusIdle},
		subscribers: map[int]chan<- model.DisplayState{},
	}, nil
}

// Toggle starts an alert from Idle or stops it from Active. While a
// transition is in flight it returns Busy without waiting.
func (m *Manager) Toggle(ctx context.Context) model.Outcome {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.cfg.OperationTimeout)
	defer cancel()
	ctx, span := m.tracer.Start(ctx, "alert.toggle")
	defer span.End()

	outcome := m.toggle(ctx)

	span.SetAttributes(attribute.String(telemetry.AlertOutcomeKey, string(outcome)))
	metrics.RecordToggle(string(outcome))
	m.logger.Info().
		Str(log.FieldEvent, "alert.toggle").
		Str(log.FieldOutcome, string(outcome)).
		Msg("toggle handled")
	return outcome
}

func (m *Manager) toggle(ctx context.Context) model.Outcome {
	m.mu.Lock()
	ev, ok := lifecycle.ToggleEvent(m.session.Status)
	if !ok || m.closed {
		m.mu.Unlock()
		return model.OutcomeBusy
	}

	switch ev {
	case lifecycle.EvStartRequested:
		if err := m.applyLocked(lifecycle.Event{Kind: ev}); err != nil {
			m.mu.Unlock()
			return model.OutcomeBusy
		}
		m.mu.Unlock()
		m.publish()
		return m.start(ctx)

	default:
		// Cancelling the reporter and entering Stopping happen under one
		// lock so no tick can begin once the stop is visible.
		m.cancelReporterLocked()
		snap := m.session.Clone()
		if err := m.applyLocked(lifecycle.Event{Kind: ev}); err != nil {
			m.mu.Unlock()
			return model.OutcomeBusy
		}
		m.mu.Unlock()
		m.publish()
		return m.stop(ctx, snap)
	}
}

// DisplayState is what the UI renders the button from.
func (m *Manager) DisplayState() model.DisplayState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.DisplayStateFor(m.session)
}

// Snapshot describes the manager for diagnostics.
type Snapshot struct {
	Session   model.AlertSession `json:"session"`
	Reporting bool               `json:"reporting"`
	Interval  time.Duration      `json:"interval"`
}

// Snapshot returns a deep copy of the current session.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Session:   m.session.Clone(),
		Reporting: m.reporter != nil,
		Interval:  m.cfg.ReportInterval,
	}
}

// SetReportInterval changes the period. A running reporter is restarted on
// the new period; the session is untouched.
func (m *Manager) SetReportInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if d == m.cfg.ReportInterval {
		return
	}
	m.cfg.ReportInterval = d
	if m.reporter != nil {
		m.cancelReporterLocked()
		m.startReporterLocked()
	}
	m.logger.Info().Dur("interval", d).Msg("report interval updated")
}

// Close stops background work without resolving the session; a restarted
// process resumes it through Recover.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	task := m.reporter
	m.cancelReporterLocked()
	m.mu.Unlock()

	if task != nil {
		<-task.Done()
	}
}

// applyLocked runs a lifecycle event against the session. Caller holds mu.
func (m *Manager) applyLocked(ev lifecycle.Event) error {
	from := m.session.Status
	tr, err := lifecycle.Apply(&m.session, ev, m.deps.Clock.Now())
	if err != nil {
		m.logger.Error().Err(err).
			Str(log.FieldEvent, "alert.transition_rejected").
			Str(log.FieldOldState, string(from)).
			Str("lifecycle_event", ev.Kind.String()).
			Msg("lifecycle transition rejected")
		return err
	}
	metrics.RecordTransition(string(tr.From), string(tr.To))
	m.logger.Debug().
		Str(log.FieldOldState, string(tr.From)).
		Str(log.FieldNewState, string(tr.To)).
		Str(log.FieldSessionID, m.session.ID).
		Msg("alert transition")
	return nil
}

// transition applies ev under the lock and publishes the new state.
func (m *Manager) transition(ev lifecycle.Event) error {
	m.mu.Lock()
	err := m.applyLocked(ev)
	m.mu.Unlock()
	if err == nil {
		m.publish()
	}
	return err
}

func (m *Manager) persist(ctx context.Context, rec model.PersistedRecord) {
	m.storeMu.Lock()
	defer m.storeMu.Unlock()
	m.saveLocked(ctx, rec)
}

// saveLocked writes rec. Caller holds storeMu.
func (m *Manager) saveLocked(ctx context.Context, rec model.PersistedRecord) {
	rec.UpdatedAtUnix = m.deps.Clock.Now().Unix()
	if err := m.deps.Store.Save(ctx, rec); err != nil {
		metrics.RecordStoreError("save")
		m.logger.Error().Err(err).
			Str(log.FieldEvent, "alert.store_save_failed").
			Str(log.FieldSessionID, rec.SessionID).
			Str(log.FieldNewState, string(rec.Status)).
			Msg("failed to persist alert session")
	}
}

func (m *Manager) clearStore(ctx context.Context, sessionID string) {
	m.storeMu.Lock()
	defer m.storeMu.Unlock()
	if err := m.deps.Store.Clear(ctx); err != nil {
		metrics.RecordStoreError("clear")
		m.logger.Error().Err(err).
			Str(log.FieldEvent, "alert.store_clear_failed").
			Str(log.FieldSessionID, sessionID).
			Msg("failed to clear persisted alert session")
	}
}

func recordFor(s model.AlertSession, status model.Status) model.PersistedRecord {
	rec := model.PersistedRecord{SessionID: s.ID, Status: status}
	if s.StartedAt != nil {
		rec.StartedAtUnix = s.StartedAt.Unix()
	}
	return rec
}
