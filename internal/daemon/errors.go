// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import "errors"

var (
	ErrMissingRuntime = errors.New("daemon: runtime is nil")
	ErrUnknownSource  = errors.New("daemon: unknown location source")
	ErrUnknownSender  = errors.New("daemon: unknown notify sender")
)
