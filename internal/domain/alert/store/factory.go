// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package store

import (
	"context"
	"fmt"

	"github.com/Divyansh7131/Rakshak/internal/domain/alert/ports"
)

// Options selects and configures a backend.
type Options struct {
	Backend string
	Path    string
	Redis   RedisConfig
}

// OpenSessionStore creates a SessionStore based on the backend configuration.
func OpenSessionStore(ctx context.Context, opts Options) (ports.SessionStore, error) {
	switch opts.Backend {
	case "", "sqlite":
		return NewSqliteStore(ctx, opts.Path)
	case "file":
		return NewFileStore(opts.Path)
	case "badger":
		return OpenBadgerStore(opts.Path)
	case "redis":
		return NewRedisStore(ctx, opts.Redis)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", opts.Backend)
	}
}
