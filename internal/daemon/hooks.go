// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ShutdownHook releases one resource during shutdown.
type ShutdownHook func(ctx context.Context) error

type namedHook struct {
	name string
	hook ShutdownHook
}

// hooks runs registered cleanups once, in reverse registration order.
type hooks struct {
	mu     sync.Mutex
	list   []namedHook
	ran    bool
	logger zerolog.Logger
}

func (h *hooks) register(name string, hook ShutdownHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.list = append(h.list, namedHook{name: name, hook: hook})
	h.logger.Debug().Str("hook", name).Msg("registered shutdown hook")
}

func (h *hooks) run(ctx context.Context) error {
	h.mu.Lock()
	if h.ran {
		h.mu.Unlock()
		return nil
	}
	h.ran = true
	list := h.list
	h.mu.Unlock()

	var errs []error
	for i := len(list) - 1; i >= 0; i-- {
		nh := list[i]
		start := time.Now()
		if err := nh.hook(ctx); err != nil {
			h.logger.Error().Err(err).Str("hook", nh.name).Dur("duration", time.Since(start)).Msg("shutdown hook failed")
			errs = append(errs, fmt.Errorf("hook %s: %w", nh.name, err))
			continue
		}
		h.logger.Debug().Str("hook", nh.name).Dur("duration", time.Since(start)).Msg("shutdown hook completed")
	}
	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %w", errors.Join(errs...))
	}
	return nil
}
