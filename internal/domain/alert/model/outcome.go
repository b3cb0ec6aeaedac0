// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package model

// Outcome is the user-facing result of a toggle. Each outcome maps to
// exactly one message category.
type Outcome string

const (
	OutcomeStarted             Outcome = "started"
	OutcomeStopped             Outcome = "stopped"
	OutcomePermissionDenied    Outcome = "permission_denied"
	OutcomeLocationUnavailable Outcome = "location_unavailable"
	OutcomeNotAuthenticated    Outcome = "not_authenticated"
	OutcomeBusy                Outcome = "busy"
	OutcomeRemoteError         Outcome = "remote_error"
)

var outcomeMessages = map[Outcome]string{
	OutcomeStarted:             "Your SOS alert has been sent.",
	OutcomeStopped:             "Your SOS alert has been turned off.",
	OutcomePermissionDenied:    "Location permission is required for SOS.",
	OutcomeLocationUnavailable: "Your location could not be determined. Please try again.",
	OutcomeNotAuthenticated:    "Please sign in to use SOS.",
	OutcomeBusy:                "Please wait, your previous request is still in progress.",
	OutcomeRemoteError:         "Could not reach the server.",
}

// Message returns the user-facing message for the outcome.
func (o Outcome) Message() string {
	if msg, ok := outcomeMessages[o]; ok {
		return msg
	}
	return "Something went wrong."
}

// DisplayState is the read-only view the UI renders the button from.
type DisplayState struct {
	Status    Status `json:"status"`
	Busy      bool   `json:"busy"`
	SessionID string `json:"sessionId,omitempty"`
	Label     string `json:"label"`
}

// DisplayStateFor derives the display state from a session.
func DisplayStateFor(s AlertSession) DisplayState {
	label := "SOS"
	if s.Status == StatusActive {
		label = "STOP"
	}
	return DisplayState{
		Status:    s.Status,
		Busy:      s.Status.IsTransitional(),
		SessionID: s.ID,
		Label:     label,
	}
}
