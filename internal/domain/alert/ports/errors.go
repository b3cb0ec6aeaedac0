// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package ports

import "errors"

// Collaborator failures the manager maps to toggle outcomes. Adapters
// return these (optionally wrapped).
var (
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrLocationUnavailable = errors.New("location unavailable")
	ErrNotAuthenticated    = errors.New("no authenticated user")
)
