// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package schedule runs cancellable repeating jobs on a ticker.
package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/Divyansh7131/Rakshak/internal/domain/alert/ports"
	"github.com/Divyansh7131/Rakshak/internal/log"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Ticker is a Scheduler backed by time.Ticker. The first run happens one
// interval after Every is called.
type Ticker struct {
	logger zerolog.Logger
}

// NewTicker returns a ticker-backed scheduler.
func NewTicker() *Ticker {
	return &Ticker{logger: log.WithComponent("schedule")}
}

var _ ports.Scheduler = (*Ticker)(nil)

// Every starts fn on a background goroutine every interval. Cancel stops
// future runs but does not cancel the context of a run already in progress.
func (s *Ticker) Every(interval time.Duration, fn func(ctx context.Context)) ports.Task {
	ctx, cancel := context.WithCancel(context.Background())
	t := &task{
		id:     uuid.NewString(),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	t.logger = s.logger.With().Str(log.FieldTaskID, t.id).Logger()
	go t.loop(ctx, interval, fn)
	return t
}

type task struct {
	id     string
	logger zerolog.Logger
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	stopped bool
	once    sync.Once
}

func (t *task) loop(ctx context.Context, interval time.Duration, fn func(ctx context.Context)) {
	defer close(t.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	t.logger.Debug().Dur("interval", interval).Msg("task started")
	for {
		select {
		case <-ctx.Done():
			t.logger.Debug().Msg("task stopped")
			return
		case <-ticker.C:
			if !t.begin() {
				return
			}
			// A tick that has begun runs to completion; fn bounds itself.
			fn(context.WithoutCancel(ctx))
		}
	}
}

// begin reports whether a tick may start. Once Cancel has flipped the flag
// no further tick begins even if the ticker already fired.
func (t *task) begin() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.stopped
}

func (t *task) Cancel() {
	t.once.Do(func() {
		t.mu.Lock()
		t.stopped = true
		t.mu.Unlock()
		t.cancel()
	})
}

func (t *task) Done() <-chan struct{} {
	return t.done
}
