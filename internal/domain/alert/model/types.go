// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package model

import "time"

// DefaultMessage is used when the profile service has no message for the user.
const DefaultMessage = "HELP!!"

// Position is an immutable location fix produced fresh by each sampling call.
type Position struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	CapturedAt time.Time `json:"capturedAt"`
}

// TrustedContact is owned by the contacts service; the core only reads it.
type TrustedContact struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// ContactProfile bundles the user's trusted contacts and SOS message.
type ContactProfile struct {
	Contacts []TrustedContact `json:"contacts"`
	Message  string           `json:"message"`
}

// DefaultContactProfile is the profile used when the profile service fails.
func DefaultContactProfile() ContactProfile {
	return ContactProfile{Contacts: []TrustedContact{}, Message: DefaultMessage}
}

// AlertSession is the in-memory session owned exclusively by the manager.
type AlertSession struct {
	ID                string     `json:"id,omitempty"`
	Status            Status     `json:"status"`
	LastKnownPosition *Position  `json:"lastKnownPosition,omitempty"`
	StartedAt         *time.Time `json:"startedAt,omitempty"`
}

// Clone returns a deep copy safe to hand to readers.
func (s AlertSession) Clone() AlertSession {
	out := s
	if s.LastKnownPosition != nil {
		p := *s.LastKnownPosition
		out.LastKnownPosition = &p
	}
	if s.StartedAt != nil {
		t := *s.StartedAt
		out.StartedAt = &t
	}
	return out
}

// PersistedRecord is the durable mirror of {id, status} used for crash recovery.
type PersistedRecord struct {
	SessionID     string `json:"sessionId"`
	Status        Status `json:"status"`
	StartedAtUnix int64  `json:"startedAtUnix,omitempty"`
	UpdatedAtUnix int64  `json:"updatedAtUnix"`
}

// StartedAt returns the recorded start time, if any.
func (r PersistedRecord) StartedAt() *time.Time {
	if r.StartedAtUnix == 0 {
		return nil
	}
	t := time.Unix(r.StartedAtUnix, 0).UTC()
	return &t
}

// HistoryEntry is one past alert as reported by the backend.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lng"`
	Media     []string  `json:"media,omitempty"`
}
