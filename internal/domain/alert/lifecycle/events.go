// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package lifecycle

import (
	"time"

	"github.com/Divyansh7131/Rakshak/internal/domain/alert/model"
)

// EventKind is a domain event in the alert session lifecycle.
type EventKind int

const (
	EvUnknown EventKind = iota
	EvStartRequested
	EvStartConfirmed
	EvStartFailed
	EvStopRequested
	EvStopFinished
	EvCleanupDone
	EvRecoverActive
	EvRecoverStopping
)

var eventNames = map[EventKind]string{
	EvUnknown:         "unknown",
	EvStartRequested:  "start_requested",
	EvStartConfirmed:  "start_confirmed",
	EvStartFailed:     "start_failed",
	EvStopRequested:   "stop_requested",
	EvStopFinished:    "stop_finished",
	EvCleanupDone:     "cleanup_done",
	EvRecoverActive:   "recover_active",
	EvRecoverStopping: "recover_stopping",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event carries optional domain data for a transition.
type Event struct {
	Kind      EventKind
	SessionID string
	Position  *model.Position
	StartedAt *time.Time
}

// ToggleEvent maps the current status to the event a user toggle requests.
// ok is false when the toggle must be rejected as busy.
func ToggleEvent(status model.Status) (EventKind, bool) {
	switch status {
	case model.StatusIdle:
		return EvStartRequested, true
	case model.StatusActive:
		return EvStopRequested, true
	default:
		return EvUnknown, false
	}
}
