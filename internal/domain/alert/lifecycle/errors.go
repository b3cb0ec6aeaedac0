// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package lifecycle

import (
	"errors"
	"fmt"

	"github.com/Divyansh7131/Rakshak/internal/domain/alert/model"
)

var (
	ErrForbiddenTransition = errors.New("forbidden transition")
	ErrBusy                = errors.New("transition in flight")
	ErrMissingSessionID    = errors.New("transition requires a remote session id")
)

// TransitionError describes a rejected transition.
type TransitionError struct {
	From   model.Status
	Event  EventKind
	Reason string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal transition: %s + %s (%s)", e.From, e.Event, e.Reason)
}

// Is classifies busy rejections separately so callers can map them to the
// Busy outcome with errors.Is.
func (e *TransitionError) Is(target error) bool {
	switch target {
	case ErrForbiddenTransition:
		return true
	case ErrBusy:
		return e.Reason == ForbiddenBusy
	}
	return false
}
