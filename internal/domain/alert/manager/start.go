// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package manager

import (
	"context"
	"errors"

	"github.com/Divyansh7131/Rakshak/internal/domain/alert/lifecycle"
	"github.com/Divyansh7131/Rakshak/internal/domain/alert/model"
	"github.com/Divyansh7131/Rakshak/internal/domain/alert/ports"
	"github.com/Divyansh7131/Rakshak/internal/log"
	"github.com/Divyansh7131/Rakshak/internal/telemetry"
)

// start runs from Pending. Order: identity, location, contacts, notify,
// create, persist, reporter. Nothing is persisted unless create succeeded.
func (m *Manager) start(ctx context.Context) model.Outcome {
	ctx, span := m.tracer.Start(ctx, "alert.start")
	defer span.End()

	userID, err := m.deps.Identity.UserID(ctx)
	if err != nil {
		return m.abortStart(err, "identity", model.OutcomeNotAuthenticated)
	}
	logger := m.logger.With().Str(log.FieldUserID, userID).Logger()

	pos, err := m.deps.Sampler.Sample(ctx)
	if err != nil {
		if errors.Is(err, ports.ErrPermissionDenied) {
			return m.abortStart(err, "location", model.OutcomePermissionDenied)
		}
		return m.abortStart(err, "location", model.OutcomeLocationUnavailable)
	}

	profile := m.deps.Remote.FetchContactProfile(ctx, userID)
	m.deps.Notifier.Notify(ctx, profile.Contacts, profile.Message, pos)

	sessionID, err := m.deps.Remote.CreateSession(ctx, userID, pos)
	if err != nil {
		telemetry.RecordError(span, err)
		return m.abortStart(err, "create_session", model.OutcomeRemoteError)
	}

	now := m.deps.Clock.Now().UTC()
	// A failed write is logged; the next tick re-asserts the record.
	m.persist(ctx, model.PersistedRecord{
		SessionID:     sessionID,
		Status:        model.StatusActive,
		StartedAtUnix: now.Unix(),
	})

	m.mu.Lock()
	if err := m.applyLocked(lifecycle.Event{Kind: lifecycle.EvStartConfirmed, SessionID: sessionID, Position: &pos}); err != nil {
		m.mu.Unlock()
		return m.abortStart(err, "confirm", model.OutcomeRemoteError)
	}
	if !m.closed {
		m.startReporterLocked()
	}
	m.mu.Unlock()
	m.publish()

	span.SetAttributes(telemetry.AlertAttributes(sessionID, string(model.StatusActive))...)
	logger.Info().
		Str(log.FieldEvent, "alert.started").
		Str(log.FieldSessionID, sessionID).
		Int("contacts", len(profile.Contacts)).
		Msg("alert session active")
	return model.OutcomeStarted
}

func (m *Manager) abortStart(cause error, stage string, outcome model.Outcome) model.Outcome {
	m.logger.Warn().Err(cause).
		Str(log.FieldEvent, "alert.start_aborted").
		Str("stage", stage).
		Str(log.FieldOutcome, string(outcome)).
		Msg("alert start aborted")

	if err := m.transition(lifecycle.Event{Kind: lifecycle.EvStartFailed}); err != nil {
		// Pending is only left through this path or confirm; force Idle.
		m.mu.Lock()
		m.session = model.AlertSession{Status: model.StatusIdle}
		m.mu.Unlock()
		m.publish()
	}
	return outcome
}
