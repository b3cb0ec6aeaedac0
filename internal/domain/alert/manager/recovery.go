// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package manager

import (
	"context"
	"fmt"

	"github.com/Divyansh7131/Rakshak/internal/domain/alert/lifecycle"
	"github.com/Divyansh7131/Rakshak/internal/domain/alert/model"
	"github.com/Divyansh7131/Rakshak/internal/log"
	"github.com/Divyansh7131/Rakshak/internal/metrics"
)

// recoveryTarget is what a persisted record resolves to at startup.
type recoveryTarget int

const (
	recoverNone recoveryTarget = iota
	recoverResume
	recoverFinish
	recoverDiscard
)

func determineRecoveryTarget(rec *model.PersistedRecord) recoveryTarget {
	if rec == nil {
		return recoverNone
	}
	switch rec.Status {
	case model.StatusActive:
		return recoverResume
	case model.StatusPending:
		// Create may have succeeded before the crash; only an id proves it.
		if rec.SessionID != "" {
			return recoverResume
		}
		return recoverDiscard
	case model.StatusStopping, model.StatusInactive:
		return recoverFinish
	default:
		return recoverDiscard
	}
}

// Recover restores state from the store. It must run once before the
// first Toggle. An unreadable store is treated as empty.
func (m *Manager) Recover(ctx context.Context) error {
	ctx, span := m.tracer.Start(ctx, "alert.recover")
	defer span.End()

	m.mu.Lock()
	if m.session.Status != model.StatusIdle {
		status := m.session.Status
		m.mu.Unlock()
		return fmt.Errorf("recover: manager already %s", status)
	}
	m.mu.Unlock()

	rec, err := m.deps.Store.Load(ctx)
	if err != nil {
		metrics.RecordStoreError("load")
		m.logger.Error().Err(err).
			Str(log.FieldEvent, "alert.recover_load_failed").
			Msg("persisted session unreadable, starting idle")
		m.clearStore(ctx, "")
		return nil
	}

	target := determineRecoveryTarget(rec)
	if rec != nil {
		metrics.RecordRecovery(string(rec.Status))
	}

	switch target {
	case recoverNone:
		return nil

	case recoverDiscard:
		m.logger.Info().
			Str(log.FieldEvent, "alert.recover_discard").
			Str(log.FieldOldState, string(rec.Status)).
			Msg("discarding unacknowledged alert")
		m.clearStore(ctx, rec.SessionID)
		return nil

	case recoverResume:
		m.mu.Lock()
		err := m.applyLocked(lifecycle.Event{Kind: lifecycle.EvRecoverActive, SessionID: rec.SessionID, StartedAt: rec.StartedAt()})
		if err == nil && !m.closed {
			m.startReporterLocked()
		}
		snap := m.session.Clone()
		m.mu.Unlock()
		if err != nil {
			return err
		}
		m.publish()
		// Normalise a recovered Pending record to Active.
		m.persist(ctx, recordFor(snap, model.StatusActive))
		m.logger.Info().
			Str(log.FieldEvent, "alert.recover_resume").
			Str(log.FieldSessionID, rec.SessionID).
			Msg("resumed active alert after restart")
		return nil

	case recoverFinish:
		if err := m.transition(lifecycle.Event{Kind: lifecycle.EvRecoverStopping, SessionID: rec.SessionID, StartedAt: rec.StartedAt()}); err != nil {
			return err
		}
		m.logger.Info().
			Str(log.FieldEvent, "alert.recover_finish_stop").
			Str(log.FieldSessionID, rec.SessionID).
			Msg("finishing interrupted stop")
		_ = m.finalUpdate(ctx, rec.SessionID, nil)
		m.resolve(ctx, rec.SessionID)
		return nil
	}
	return nil
}
