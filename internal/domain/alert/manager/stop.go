// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package manager

import (
	"context"

	"github.com/Divyansh7131/Rakshak/internal/domain/alert/lifecycle"
	"github.com/Divyansh7131/Rakshak/internal/domain/alert/model"
	"github.com/Divyansh7131/Rakshak/internal/log"
	"github.com/Divyansh7131/Rakshak/internal/telemetry"
)

// stop runs from Stopping with the reporter already cancelled. The local
// session always reaches Idle; a failed final update is reported as
// RemoteError and left for the backend to reconcile.
func (m *Manager) stop(ctx context.Context, prev model.AlertSession) model.Outcome {
	ctx = log.ContextWithSessionID(ctx, prev.ID)
	ctx, span := m.tracer.Start(ctx, "alert.stop")
	defer span.End()
	span.SetAttributes(telemetry.AlertAttributes(prev.ID, string(model.StatusStopping))...)

	m.persist(ctx, recordFor(prev, model.StatusStopping))

	outcome := model.OutcomeStopped
	if err := m.finalUpdate(ctx, prev.ID, prev.LastKnownPosition); err != nil {
		telemetry.RecordError(span, err)
		outcome = model.OutcomeRemoteError
	}

	m.resolve(ctx, prev.ID)
	logger := log.WithContext(ctx, m.logger)
	logger.Info().
		Str(log.FieldEvent, "alert.stopped").
		Str(log.FieldOutcome, string(outcome)).
		Msg("alert session closed")
	return outcome
}

// finalUpdate sends the "inactive" update with a fresh fix, falling back to
// the last known position (possibly none) when sampling fails.
func (m *Manager) finalUpdate(ctx context.Context, sessionID string, fallback *model.Position) error {
	ctx = log.ContextWithSessionID(ctx, sessionID)
	logger := log.WithContext(ctx, m.logger)

	pos := fallback
	if fresh, err := m.deps.Sampler.Sample(ctx); err == nil {
		pos = &fresh
	} else {
		logger.Warn().Err(err).
			Str(log.FieldEvent, "alert.stop_sample_failed").
			Bool("has_fallback", fallback != nil).
			Msg("using last known position for final update")
	}

	err := m.deps.Remote.UpdateSession(ctx, sessionID, pos, model.RemoteInactive)
	if err != nil {
		logger.Error().Err(err).
			Str(log.FieldEvent, "alert.stop_remote_failed").
			Msg("final inactive update failed; backend may still show the alert active")
	}

	m.mu.Lock()
	if m.session.Status == model.StatusStopping && pos != nil {
		p := *pos
		m.session.LastKnownPosition = &p
	}
	m.mu.Unlock()
	return err
}

// resolve moves Stopping to Inactive, clears the store and returns to Idle.
func (m *Manager) resolve(ctx context.Context, sessionID string) {
	if err := m.transition(lifecycle.Event{Kind: lifecycle.EvStopFinished}); err != nil {
		return
	}
	m.clearStore(ctx, sessionID)
	_ = m.transition(lifecycle.Event{Kind: lifecycle.EvCleanupDone})
}
