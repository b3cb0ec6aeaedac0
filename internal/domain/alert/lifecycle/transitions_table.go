// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package lifecycle

import "github.com/Divyansh7131/Rakshak/internal/domain/alert/model"

// Transition is a single allowed edge in the lifecycle state machine.
type Transition struct {
	From  model.Status
	To    model.Status
	Event EventKind
}

// Decision records whether a transition is allowed and why it is forbidden.
type Decision struct {
	Allowed bool
	Reason  string
}

var transitionsTable = []Transition{
	// Start path
	{From: model.StatusIdle, To: model.StatusPending, Event: EvStartRequested},
	{From: model.StatusPending, To: model.StatusActive, Event: EvStartConfirmed},
	{From: model.StatusPending, To: model.StatusIdle, Event: EvStartFailed},

	// Stop path
	{From: model.StatusActive, To: model.StatusStopping, Event: EvStopRequested},
	{From: model.StatusStopping, To: model.StatusInactive, Event: EvStopFinished},
	{From: model.StatusInactive, To: model.StatusIdle, Event: EvCleanupDone},

	// Recovery from the persisted record
	{From: model.StatusIdle, To: model.StatusActive, Event: EvRecoverActive},
	{From: model.StatusIdle, To: model.StatusStopping, Event: EvRecoverStopping},
}

// TransitionFor returns the allowed transition for a given state+event.
func TransitionFor(from model.Status, ev EventKind) (Transition, bool) {
	for _, tr := range transitionsTable {
		if tr.From == from && tr.Event == ev {
			return tr, true
		}
	}
	return Transition{}, false
}
