// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package location samples the device position from a platform source.
package location

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Divyansh7131/Rakshak/internal/domain/alert/model"
	"github.com/Divyansh7131/Rakshak/internal/domain/alert/ports"
)

var (
	// ErrPermissionDenied means the user has not granted location access.
	ErrPermissionDenied = ports.ErrPermissionDenied
	// ErrUnavailable means no fix could be obtained (no signal, timeout, source down).
	ErrUnavailable = ports.ErrLocationUnavailable
)

const defaultSampleTimeout = 15 * time.Second

// Source is a platform location provider. Implementations return
// ErrPermissionDenied or ErrUnavailable, optionally wrapped.
type Source interface {
	Current(ctx context.Context) (model.Position, error)
}

// Sampler asks its source for a fresh fix on every call. Nothing is cached.
type Sampler struct {
	src     Source
	timeout time.Duration
	now     func() time.Time
}

var _ ports.LocationSampler = (*Sampler)(nil)

// NewSampler wraps src with a per-sample timeout.
func NewSampler(src Source, timeout time.Duration) *Sampler {
	if timeout <= 0 {
		timeout = defaultSampleTimeout
	}
	return &Sampler{src: src, timeout: timeout, now: time.Now}
}

// Sample returns a fresh position or one of ErrPermissionDenied / ErrUnavailable.
func (s *Sampler) Sample(ctx context.Context) (model.Position, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	pos, err := s.src.Current(ctx)
	if err != nil {
		return model.Position{}, classify(err)
	}
	if !validCoordinates(pos.Latitude, pos.Longitude) {
		return model.Position{}, fmt.Errorf("%w: coordinates out of range (%f, %f)", ErrUnavailable, pos.Latitude, pos.Longitude)
	}
	if pos.CapturedAt.IsZero() {
		pos.CapturedAt = s.now().UTC()
	}
	return pos, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, ErrPermissionDenied), errors.Is(err, ErrUnavailable):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}

func validCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
