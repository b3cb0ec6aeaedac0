// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package store holds the single-slot durable record of the current alert
// session. Every backend overwrites the slot atomically.
package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Divyansh7131/Rakshak/internal/domain/alert/model"
)

var (
	ErrInvalidRecord = errors.New("store: invalid session record")
	ErrCorrupt       = errors.New("store: stored record is unreadable")
)

// Validate rejects records that could never be produced by the manager.
func Validate(rec model.PersistedRecord) error {
	if !rec.Status.Valid() || rec.Status == model.StatusIdle {
		return fmt.Errorf("%w: status %q", ErrInvalidRecord, rec.Status)
	}
	if rec.Status.HasRemoteID() && rec.SessionID == "" {
		return fmt.Errorf("%w: status %s requires a session id", ErrInvalidRecord, rec.Status)
	}
	return nil
}

func encode(rec model.PersistedRecord) ([]byte, error) {
	if err := Validate(rec); err != nil {
		return nil, err
	}
	return json.Marshal(rec)
}

func decode(buf []byte) (*model.PersistedRecord, error) {
	var rec model.PersistedRecord
	if err := json.Unmarshal(buf, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := Validate(rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &rec, nil
}
