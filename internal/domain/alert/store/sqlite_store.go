// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Divyansh7131/Rakshak/internal/domain/alert/model"
	"github.com/Divyansh7131/Rakshak/internal/persistence/sqlite"
)

const schemaVersion = 1

// SqliteStore keeps the record in a one-row table.
type SqliteStore struct {
	DB *sql.DB
}

// NewSqliteStore opens dbPath, verifies it and applies the schema.
func NewSqliteStore(ctx context.Context, dbPath string) (*SqliteStore, error) {
	db, err := sqlite.Open(dbPath, sqlite.DefaultConfig())
	if err != nil {
		return nil, err
	}

	issues, err := sqlite.VerifyIntegrity(ctx, db, "quick")
	if err == nil && issues != nil {
		err = fmt.Errorf("%w: %v", ErrCorrupt, issues)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("session store: integrity check: %w", err)
	}

	s := &SqliteStore{DB: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("session store: migration failed: %w", err)
	}
	return s, nil
}

func (s *SqliteStore) Close() error {
	return s.DB.Close()
}

func (s *SqliteStore) migrate(ctx context.Context) error {
	var current int
	if err := s.DB.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return err
	}
	if current >= schemaVersion {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	schema := `
	CREATE TABLE IF NOT EXISTS alert_session (
		slot INTEGER PRIMARY KEY CHECK (slot = 1),
		session_id TEXT NOT NULL,
		status TEXT NOT NULL,
		started_at_unix INTEGER NOT NULL DEFAULT 0,
		updated_at_unix INTEGER NOT NULL
	);`
	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SqliteStore) Save(ctx context.Context, rec model.PersistedRecord) error {
	if err := Validate(rec); err != nil {
		return err
	}
	if rec.UpdatedAtUnix == 0 {
		rec.UpdatedAtUnix = time.Now().Unix()
	}
	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO alert_session (slot, session_id, status, started_at_unix, updated_at_unix)
	VALUES (1, ?, ?, ?, ?)
	ON CONFLICT(slot) DO UPDATE SET
		session_id = excluded.session_id,
		status = excluded.status,
		started_at_unix = excluded.started_at_unix,
		updated_at_unix = excluded.updated_at_unix`,
		rec.SessionID, string(rec.Status), rec.StartedAtUnix, rec.UpdatedAtUnix)
	if err != nil {
		return fmt.Errorf("session store: save: %w", err)
	}
	return nil
}

func (s *SqliteStore) Load(ctx context.Context) (*model.PersistedRecord, error) {
	var rec model.PersistedRecord
	var status string
	err := s.DB.QueryRowContext(ctx,
		"SELECT session_id, status, started_at_unix, updated_at_unix FROM alert_session WHERE slot = 1").
		Scan(&rec.SessionID, &status, &rec.StartedAtUnix, &rec.UpdatedAtUnix)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session store: load: %w", err)
	}
	rec.Status = model.Status(status)
	if err := Validate(rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &rec, nil
}

func (s *SqliteStore) Clear(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, "DELETE FROM alert_session WHERE slot = 1"); err != nil {
		return fmt.Errorf("session store: clear: %w", err)
	}
	return nil
}
