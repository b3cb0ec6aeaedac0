// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

//go:build !debug

package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/Divyansh7131/Rakshak/internal/domain/alert/model"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_FullLifecycle(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	pos := &model.Position{Latitude: 28.6, Longitude: 77.2, CapturedAt: now}
	s := &model.AlertSession{Status: model.StatusIdle}

	_, err := Apply(s, Event{Kind: EvStartRequested}, now)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, s.Status)
	assert.Empty(t, s.ID)

	_, err = Apply(s, Event{Kind: EvStartConfirmed, SessionID: "s1", Position: pos}, now)
	require.NoError(t, err)
	want := model.AlertSession{ID: "s1", Status: model.StatusActive, LastKnownPosition: pos, StartedAt: &now}
	if diff := cmp.Diff(want, *s); diff != "" {
		t.Fatalf("session after start mismatch (-want +got):\n%s", diff)
	}

	_, err = Apply(s, Event{Kind: EvStopRequested}, now.Add(time.Minute))
	require.NoError(t, err)
	_, err = Apply(s, Event{Kind: EvStopFinished}, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, model.StatusInactive, s.Status)
	assert.Equal(t, "s1", s.ID, "id is kept until cleanup")
	require.NotNil(t, s.StartedAt)
	assert.True(t, s.StartedAt.Equal(now), "startedAt is never rewritten")

	_, err = Apply(s, Event{Kind: EvCleanupDone}, now.Add(time.Minute))
	require.NoError(t, err)
	if diff := cmp.Diff(model.AlertSession{Status: model.StatusIdle}, *s); diff != "" {
		t.Fatalf("session after cleanup mismatch (-want +got):\n%s", diff)
	}
}

func TestApply_IDInvariant(t *testing.T) {
	now := time.Now()
	for _, status := range allStatuses {
		for _, ev := range allEvents {
			s := seedSession(status, now)
			_, err := Apply(s, Event{Kind: ev, SessionID: "sid"}, now)
			if err != nil {
				continue
			}
			assert.Equal(t, s.Status.HasRemoteID(), s.ID != "",
				"id presence must match status after %s + %s -> %s", status, ev, s.Status)
		}
	}
}

func TestApply_BusyIsClassified(t *testing.T) {
	s := &model.AlertSession{Status: model.StatusPending}
	_, err := Apply(s, Event{Kind: EvStartRequested}, time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBusy))
	assert.True(t, errors.Is(err, ErrForbiddenTransition))
	assert.Equal(t, model.StatusPending, s.Status, "rejected transition must not mutate")

	s = &model.AlertSession{Status: model.StatusIdle}
	_, err = Apply(s, Event{Kind: EvStopRequested}, time.Now())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrBusy))
	assert.True(t, errors.Is(err, ErrForbiddenTransition))
}

func TestApply_ConfirmRequiresID(t *testing.T) {
	s := &model.AlertSession{Status: model.StatusPending}
	_, err := Apply(s, Event{Kind: EvStartConfirmed}, time.Now())
	require.ErrorIs(t, err, ErrMissingSessionID)
	assert.Equal(t, model.StatusPending, s.Status)
}

func TestApply_RecoverKeepsStartedAt(t *testing.T) {
	started := time.Unix(1700000000, 0).UTC()
	s := &model.AlertSession{Status: model.StatusIdle}
	_, err := Apply(s, Event{Kind: EvRecoverActive, SessionID: "s1", StartedAt: &started}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, s.Status)
	assert.Equal(t, "s1", s.ID)
	require.NotNil(t, s.StartedAt)
	assert.True(t, s.StartedAt.Equal(started))
}

func seedSession(status model.Status, now time.Time) *model.AlertSession {
	s := &model.AlertSession{Status: status}
	if status.HasRemoteID() {
		s.ID = "existing"
		s.StartedAt = &now
	}
	return s
}
