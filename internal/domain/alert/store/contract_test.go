// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Divyansh7131/Rakshak/internal/domain/alert/model"
	"github.com/Divyansh7131/Rakshak/internal/domain/alert/ports"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backend struct {
	name string
	// open returns a store; reopen returns a fresh handle on the same data.
	open func(t *testing.T) (s ports.SessionStore, reopen func() ports.SessionStore)
}

func backends() []backend {
	return []backend{
		{name: "memory", open: func(t *testing.T) (ports.SessionStore, func() ports.SessionStore) {
			s := NewMemoryStore()
			return s, func() ports.SessionStore { return s }
		}},
		{name: "file", open: func(t *testing.T) (ports.SessionStore, func() ports.SessionStore) {
			path := filepath.Join(t.TempDir(), "state", "alert.json")
			s, err := NewFileStore(path)
			require.NoError(t, err)
			return s, func() ports.SessionStore {
				s2, err := NewFileStore(path)
				require.NoError(t, err)
				return s2
			}
		}},
		{name: "sqlite", open: func(t *testing.T) (ports.SessionStore, func() ports.SessionStore) {
			path := filepath.Join(t.TempDir(), "alert.db")
			return reopenable(t, func() (ports.SessionStore, error) {
				return NewSqliteStore(context.Background(), path)
			})
		}},
		{name: "badger", open: func(t *testing.T) (ports.SessionStore, func() ports.SessionStore) {
			dir := t.TempDir()
			return reopenable(t, func() (ports.SessionStore, error) {
				return OpenBadgerStore(dir)
			})
		}},
		{name: "redis", open: func(t *testing.T) (ports.SessionStore, func() ports.SessionStore) {
			mr := miniredis.RunT(t)
			cfg := RedisConfig{Addr: mr.Addr(), KeyPrefix: "test:"}
			return reopenable(t, func() (ports.SessionStore, error) {
				return NewRedisStore(context.Background(), cfg)
			})
		}},
	}
}

// reopenable opens a store and closes whichever handle is current when the
// test ends.
func reopenable(t *testing.T, open func() (ports.SessionStore, error)) (ports.SessionStore, func() ports.SessionStore) {
	t.Helper()
	current, err := open()
	require.NoError(t, err)
	t.Cleanup(func() { _ = current.Close() })

	return current, func() ports.SessionStore {
		require.NoError(t, current.Close())
		current, err = open()
		require.NoError(t, err)
		return current
	}
}

func TestSessionStoreContract(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			t.Run("EmptyLoadReturnsNil", func(t *testing.T) {
				s, _ := b.open(t)
				rec, err := s.Load(context.Background())
				require.NoError(t, err)
				assert.Nil(t, rec)
			})

			t.Run("SaveOverwritesSingleSlot", func(t *testing.T) {
				s, _ := b.open(t)
				ctx := context.Background()

				require.NoError(t, s.Save(ctx, model.PersistedRecord{SessionID: "s1", Status: model.StatusActive, StartedAtUnix: 100, UpdatedAtUnix: 100}))
				require.NoError(t, s.Save(ctx, model.PersistedRecord{SessionID: "s1", Status: model.StatusStopping, StartedAtUnix: 100, UpdatedAtUnix: 160}))

				got, err := s.Load(ctx)
				require.NoError(t, err)
				want := &model.PersistedRecord{SessionID: "s1", Status: model.StatusStopping, StartedAtUnix: 100, UpdatedAtUnix: 160}
				if diff := cmp.Diff(want, got); diff != "" {
					t.Fatalf("record mismatch (-want +got):\n%s", diff)
				}
			})

			t.Run("ClearEmptiesSlot", func(t *testing.T) {
				s, _ := b.open(t)
				ctx := context.Background()
				require.NoError(t, s.Save(ctx, model.PersistedRecord{SessionID: "s1", Status: model.StatusActive, UpdatedAtUnix: 1}))
				require.NoError(t, s.Clear(ctx))
				require.NoError(t, s.Clear(ctx), "clear is idempotent")

				got, err := s.Load(ctx)
				require.NoError(t, err)
				assert.Nil(t, got)
			})

			t.Run("SurvivesReopen", func(t *testing.T) {
				s, reopen := b.open(t)
				ctx := context.Background()
				require.NoError(t, s.Save(ctx, model.PersistedRecord{SessionID: "s9", Status: model.StatusActive, StartedAtUnix: 42, UpdatedAtUnix: 43}))

				got, err := reopen().Load(ctx)
				require.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, "s9", got.SessionID)
				assert.Equal(t, model.StatusActive, got.Status)
				assert.Equal(t, int64(42), got.StartedAtUnix)
			})

			t.Run("RejectsInvalidRecords", func(t *testing.T) {
				s, _ := b.open(t)
				ctx := context.Background()
				assert.ErrorIs(t, s.Save(ctx, model.PersistedRecord{Status: model.StatusActive}), ErrInvalidRecord)
				assert.ErrorIs(t, s.Save(ctx, model.PersistedRecord{SessionID: "x", Status: model.StatusIdle}), ErrInvalidRecord)
				assert.ErrorIs(t, s.Save(ctx, model.PersistedRecord{SessionID: "x", Status: "bogus"}), ErrInvalidRecord)

				// Pending may be persisted without an id.
				assert.NoError(t, s.Save(ctx, model.PersistedRecord{Status: model.StatusPending, UpdatedAtUnix: 1}))
			})
		})
	}
}

func TestFileStore_CorruptRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alert.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err = s.Load(context.Background())
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestOpenSessionStore(t *testing.T) {
	ctx := context.Background()

	s, err := OpenSessionStore(ctx, Options{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = OpenSessionStore(ctx, Options{Path: filepath.Join(t.TempDir(), "a.db")})
	require.NoError(t, err)
	assert.IsType(t, &SqliteStore{}, s, "sqlite is the default")
	require.NoError(t, s.Close())

	_, err = OpenSessionStore(ctx, Options{Backend: "bolt"})
	assert.Error(t, err)
}
