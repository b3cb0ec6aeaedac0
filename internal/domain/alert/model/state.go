// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package model

// Status is the lifecycle state of an alert session.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusStopping Status = "stopping"
	StatusInactive Status = "inactive"
)

// IsOpen reports whether the status belongs to a live session.
// At most one open session may exist per device.
func (s Status) IsOpen() bool {
	switch s {
	case StatusPending, StatusActive, StatusStopping:
		return true
	}
	return false
}

// IsTransitional reports whether a transition is in flight. Toggles observing
// a transitional status are rejected as busy.
func (s Status) IsTransitional() bool {
	switch s {
	case StatusPending, StatusStopping, StatusInactive:
		return true
	}
	return false
}

// HasRemoteID reports whether the remote service must have acknowledged the
// session in this status.
func (s Status) HasRemoteID() bool {
	switch s {
	case StatusActive, StatusStopping, StatusInactive:
		return true
	}
	return false
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusIdle, StatusPending, StatusActive, StatusStopping, StatusInactive:
		return true
	}
	return false
}

// RemoteStatus is the status string understood by the alert backend.
type RemoteStatus string

const (
	RemoteActive   RemoteStatus = "active"
	RemoteInactive RemoteStatus = "inactive"
)
