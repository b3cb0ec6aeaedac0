// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

//go:build !debug

package lifecycle

import "github.com/Divyansh7131/Rakshak/internal/domain/alert/model"

func illegalTransition(from model.Status, ev EventKind, reason string) (Transition, error) {
	return Transition{}, &TransitionError{From: from, Event: ev, Reason: reason}
}
