// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package ports declares the collaborators the alert session manager depends on.
package ports

import (
	"context"
	"time"

	"github.com/Divyansh7131/Rakshak/internal/domain/alert/model"
)

// LocationSampler produces one fresh position per call.
type LocationSampler interface {
	Sample(ctx context.Context) (model.Position, error)
}

// RemoteSyncClient talks to the alert backend.
type RemoteSyncClient interface {
	// FetchContactProfile never fails; callers receive defaults on error.
	FetchContactProfile(ctx context.Context, userID string) model.ContactProfile
	CreateSession(ctx context.Context, userID string, pos model.Position) (string, error)
	// UpdateSession accepts a nil position when no fix was ever obtained.
	UpdateSession(ctx context.Context, sessionID string, pos *model.Position, status model.RemoteStatus) error
}

// HistoryReader lists past alerts for a user, newest first.
type HistoryReader interface {
	FetchHistory(ctx context.Context, userID string) ([]model.HistoryEntry, error)
}

// SessionStore is a single-slot durable record of the current session.
type SessionStore interface {
	Save(ctx context.Context, rec model.PersistedRecord) error
	// Load returns nil, nil when nothing is stored.
	Load(ctx context.Context) (*model.PersistedRecord, error)
	Clear(ctx context.Context) error
	Close() error
}

// IdentityProvider resolves the signed-in user.
type IdentityProvider interface {
	UserID(ctx context.Context) (string, error)
}

// Notifier delivers the SOS message to trusted contacts. Best effort.
type Notifier interface {
	Notify(ctx context.Context, contacts []model.TrustedContact, message string, pos model.Position)
}

// Task is a handle to a running repeating job.
type Task interface {
	// Cancel stops future ticks. It is idempotent and returns once no new
	// tick can begin; a tick already running may still complete.
	Cancel()
	Done() <-chan struct{}
}

// Scheduler runs fn every interval until the returned task is cancelled.
type Scheduler interface {
	Every(interval time.Duration, fn func(ctx context.Context)) Task
}

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}
