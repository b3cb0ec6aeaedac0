// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package lifecycle

import (
	"time"

	"github.com/Divyansh7131/Rakshak/internal/domain/alert/model"
)

// Apply validates ev against the decision table and mutates s accordingly.
// On error s is left untouched.
func Apply(s *model.AlertSession, ev Event, now time.Time) (Transition, error) {
	decision, ok := DecisionFor(s.Status, ev.Kind)
	if !ok {
		return illegalTransition(s.Status, ev.Kind, ForbiddenOutOfOrder)
	}
	if !decision.Allowed {
		return illegalTransition(s.Status, ev.Kind, decision.Reason)
	}
	tr, ok := TransitionFor(s.Status, ev.Kind)
	if !ok {
		return illegalTransition(s.Status, ev.Kind, ForbiddenOutOfOrder)
	}

	switch ev.Kind {
	case EvStartConfirmed, EvRecoverActive, EvRecoverStopping:
		if ev.SessionID == "" {
			return Transition{}, ErrMissingSessionID
		}
	}

	switch ev.Kind {
	case EvStartRequested:
		*s = model.AlertSession{}
	case EvStartConfirmed:
		s.ID = ev.SessionID
		if s.StartedAt == nil {
			t := now.UTC()
			s.StartedAt = &t
		}
	case EvRecoverActive, EvRecoverStopping:
		*s = model.AlertSession{ID: ev.SessionID}
		if ev.StartedAt != nil {
			t := *ev.StartedAt
			s.StartedAt = &t
		} else if ev.Kind == EvRecoverActive {
			t := now.UTC()
			s.StartedAt = &t
		}
	case EvStartFailed, EvCleanupDone:
		*s = model.AlertSession{}
	}

	if ev.Position != nil && tr.To != model.StatusIdle {
		p := *ev.Position
		s.LastKnownPosition = &p
	}
	s.Status = tr.To
	return tr, nil
}
