// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldSessionID = "session_id"
	FieldUserID    = "user_id"
	FieldRequestID = "request_id"
	FieldTaskID    = "task_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldOutcome   = "outcome"
	FieldOperation = "op"

	// State fields
	FieldOldState = "old_state"
	FieldNewState = "new_state"

	// Location fields
	FieldLatitude  = "lat"
	FieldLongitude = "lng"

	// Network fields
	FieldBaseURL = "base_url"
	FieldStatus  = "http_status"
	FieldAttempt = "attempt"
)
