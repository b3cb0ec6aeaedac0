// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package lifecycle

import "github.com/Divyansh7131/Rakshak/internal/domain/alert/model"

const (
	ForbiddenBusy           = "busy"
	ForbiddenOutOfOrder     = "out_of_order"
	ForbiddenAlreadyInState = "already_in_state"
	ForbiddenRequiresActive = "requires_active"
	ForbiddenRequiresIdle   = "requires_idle"
)

func allowed() Decision        { return Decision{Allowed: true} }
func forbid(r string) Decision { return Decision{Allowed: false, Reason: r} }

// decisionTable defines an explicit decision for every Status×Event combination.
var decisionTable = map[model.Status]map[EventKind]Decision{
	model.StatusIdle: {
		EvStartRequested:  allowed(),
		EvStartConfirmed:  forbid(ForbiddenOutOfOrder),
		EvStartFailed:     forbid(ForbiddenOutOfOrder),
		EvStopRequested:   forbid(ForbiddenRequiresActive),
		EvStopFinished:    forbid(ForbiddenOutOfOrder),
		EvCleanupDone:     forbid(ForbiddenAlreadyInState),
		EvRecoverActive:   allowed(),
		EvRecoverStopping: allowed(),
	},
	model.StatusPending: {
		EvStartRequested:  forbid(ForbiddenBusy),
		EvStartConfirmed:  allowed(),
		EvStartFailed:     allowed(),
		EvStopRequested:   forbid(ForbiddenBusy),
		EvStopFinished:    forbid(ForbiddenOutOfOrder),
		EvCleanupDone:     forbid(ForbiddenOutOfOrder),
		EvRecoverActive:   forbid(ForbiddenRequiresIdle),
		EvRecoverStopping: forbid(ForbiddenRequiresIdle),
	},
	model.StatusActive: {
		EvStartRequested:  forbid(ForbiddenAlreadyInState),
		EvStartConfirmed:  forbid(ForbiddenAlreadyInState),
		EvStartFailed:     forbid(ForbiddenOutOfOrder),
		EvStopRequested:   allowed(),
		EvStopFinished:    forbid(ForbiddenOutOfOrder),
		EvCleanupDone:     forbid(ForbiddenOutOfOrder),
		EvRecoverActive:   forbid(ForbiddenRequiresIdle),
		EvRecoverStopping: forbid(ForbiddenRequiresIdle),
	},
	model.StatusStopping: {
		EvStartRequested:  forbid(ForbiddenBusy),
		EvStartConfirmed:  forbid(ForbiddenOutOfOrder),
		EvStartFailed:     forbid(ForbiddenOutOfOrder),
		EvStopRequested:   forbid(ForbiddenBusy),
		EvStopFinished:    allowed(),
		EvCleanupDone:     forbid(ForbiddenOutOfOrder),
		EvRecoverActive:   forbid(ForbiddenRequiresIdle),
		EvRecoverStopping: forbid(ForbiddenRequiresIdle),
	},
	model.StatusInactive: {
		EvStartRequested:  forbid(ForbiddenBusy),
		EvStartConfirmed:  forbid(ForbiddenOutOfOrder),
		EvStartFailed:     forbid(ForbiddenOutOfOrder),
		EvStopRequested:   forbid(ForbiddenBusy),
		EvStopFinished:    forbid(ForbiddenAlreadyInState),
		EvCleanupDone:     allowed(),
		EvRecoverActive:   forbid(ForbiddenRequiresIdle),
		EvRecoverStopping: forbid(ForbiddenRequiresIdle),
	},
}

// DecisionFor returns the decision for a given state/event combination.
func DecisionFor(state model.Status, ev EventKind) (Decision, bool) {
	events, ok := decisionTable[state]
	if !ok {
		return Decision{}, false
	}
	decision, ok := events[ev]
	return decision, ok
}
