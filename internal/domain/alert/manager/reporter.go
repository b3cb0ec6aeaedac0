// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package manager

import (
	"context"

	"github.com/Divyansh7131/Rakshak/internal/domain/alert/model"
	"github.com/Divyansh7131/Rakshak/internal/log"
	"github.com/Divyansh7131/Rakshak/internal/metrics"
	"github.com/Divyansh7131/Rakshak/internal/telemetry"
)

// startReporterLocked schedules the periodic reporter for the current
// session. Caller holds mu and the session is Active.
func (m *Manager) startReporterLocked() {
	m.generation++
	gen := m.generation
	sessionID := m.session.ID
	m.reporter = m.deps.Scheduler.Every(m.cfg.ReportInterval, func(ctx context.Context) {
		m.tick(ctx, gen, sessionID)
	})
	m.logger.Debug().
		Str(log.FieldSessionID, sessionID).
		Dur("interval", m.cfg.ReportInterval).
		Msg("reporter started")
}

// cancelReporterLocked cancels the reporter. No tick begins afterwards and a
// tick already running sees a stale generation. Caller holds mu.
func (m *Manager) cancelReporterLocked() {
	m.generation++
	if m.reporter == nil {
		return
	}
	m.reporter.Cancel()
	m.reporter = nil
}

func (m *Manager) current(gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return gen == m.generation && m.session.Status == model.StatusActive
}

// tick pushes one "active" update. Failures are logged and swallowed; the
// next tick tries again.
func (m *Manager) tick(ctx context.Context, gen uint64, sessionID string) {
	if !m.current(gen) {
		metrics.RecordReportTick("superseded")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, m.cfg.TickTimeout)
	defer cancel()
	ctx, span := m.tracer.Start(ctx, "alert.tick")
	defer span.End()
	span.SetAttributes(telemetry.AlertAttributes(sessionID, string(model.StatusActive))...)

	ctx = log.ContextWithSessionID(ctx, sessionID)
	logger := log.WithContext(ctx, m.logger)

	pos, err := m.deps.Sampler.Sample(ctx)
	if err != nil {
		metrics.RecordReportTick("sample_failed")
		logger.Warn().Err(err).Str(log.FieldEvent, "alert.tick_sample_failed").Msg("skipping location report")
		return
	}

	m.mu.Lock()
	if gen != m.generation || m.session.Status != model.StatusActive {
		m.mu.Unlock()
		metrics.RecordReportTick("superseded")
		return
	}
	m.session.LastKnownPosition = &pos
	rec := recordFor(m.session, model.StatusActive)
	m.mu.Unlock()

	if err := m.deps.Remote.UpdateSession(ctx, sessionID, &pos, model.RemoteActive); err != nil {
		metrics.RecordReportTick("remote_failed")
		telemetry.RecordError(span, err)
		logger.Warn().Err(err).Str(log.FieldEvent, "alert.tick_failed").Msg("location report failed, will retry next tick")
		return
	}

	// Re-assert the durable record; heals a write that failed at start.
	if !m.reassert(ctx, gen, rec) {
		metrics.RecordReportTick("superseded")
		logger.Debug().Msg("reporter superseded before re-persist")
		return
	}
	metrics.RecordReportTick("ok")
	logger.Debug().
		Float64(log.FieldLatitude, pos.Latitude).
		Float64(log.FieldLongitude, pos.Longitude).
		Msg("location reported")
}

// reassert saves rec only while gen is still the live reporter. The check
// and the write happen under storeMu, so a stop that has begun writes its
// Stopping record and clears the slot strictly after.
func (m *Manager) reassert(ctx context.Context, gen uint64, rec model.PersistedRecord) bool {
	m.storeMu.Lock()
	defer m.storeMu.Unlock()
	if !m.current(gen) {
		return false
	}
	m.saveLocked(ctx, rec)
	return true
}
