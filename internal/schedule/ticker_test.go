// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestTicker_RunsRepeatedly(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	var runs atomic.Int32
	task := NewTicker().Every(5*time.Millisecond, func(ctx context.Context) {
		runs.Add(1)
	})

	require.Eventually(t, func() bool { return runs.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	task.Cancel()
	<-task.Done()
}

func TestTicker_NoTickAfterCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	var runs atomic.Int32
	task := NewTicker().Every(2*time.Millisecond, func(ctx context.Context) {
		runs.Add(1)
	})
	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 2*time.Second, time.Millisecond)

	task.Cancel()
	<-task.Done()
	after := runs.Load()

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}

func TestTicker_CancelIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	task := NewTicker().Every(time.Hour, func(ctx context.Context) {})
	task.Cancel()
	task.Cancel()

	select {
	case <-task.Done():
	case <-time.After(time.Second):
		t.Fatal("task did not stop")
	}
}

func TestTicker_InFlightTickCompletesAfterCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	var ctxErr atomic.Value
	var finished atomic.Bool
	task := NewTicker().Every(time.Millisecond, func(ctx context.Context) {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-release
		if err := ctx.Err(); err != nil {
			ctxErr.Store(err)
		}
		finished.Store(true)
	})

	<-entered
	task.Cancel()

	select {
	case <-task.Done():
		t.Fatal("task finished while a tick was still running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	<-task.Done()
	assert.True(t, finished.Load())
	assert.Nil(t, ctxErr.Load(), "cancel must not cancel the running tick's context")
}
