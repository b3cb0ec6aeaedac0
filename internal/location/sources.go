// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/Divyansh7131/Rakshak/internal/domain/alert/model"
)

// StaticSource always reports the same coordinates. Useful for fixed
// installations and tests.
type StaticSource struct {
	Latitude  float64
	Longitude float64
}

func (s StaticSource) Current(ctx context.Context) (model.Position, error) {
	if err := ctx.Err(); err != nil {
		return model.Position{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return model.Position{Latitude: s.Latitude, Longitude: s.Longitude}, nil
}

// fileFix is the document written by the platform bridge.
type fileFix struct {
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
	Permission string   `json:"permission,omitempty"` // "granted" or "denied"
	CapturedAt int64    `json:"capturedAt,omitempty"` // unix seconds
}

// FileSource reads the latest fix from a JSON file maintained by the
// platform location bridge. The file is re-read on every call.
type FileSource struct {
	Path string
}

func (s FileSource) Current(ctx context.Context) (model.Position, error) {
	if err := ctx.Err(); err != nil {
		return model.Position{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	data, err := os.ReadFile(s.Path)
	switch {
	case errors.Is(err, fs.ErrPermission):
		return model.Position{}, fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	case errors.Is(err, fs.ErrNotExist):
		return model.Position{}, fmt.Errorf("%w: no fix at %s", ErrUnavailable, s.Path)
	case err != nil:
		return model.Position{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var fix fileFix
	if err := json.Unmarshal(data, &fix); err != nil {
		return model.Position{}, fmt.Errorf("%w: decode fix: %v", ErrUnavailable, err)
	}
	if fix.Permission == "denied" {
		return model.Position{}, ErrPermissionDenied
	}
	if fix.Lat == nil || fix.Lng == nil {
		return model.Position{}, fmt.Errorf("%w: fix has no coordinates", ErrUnavailable)
	}

	pos := model.Position{Latitude: *fix.Lat, Longitude: *fix.Lng}
	if fix.CapturedAt > 0 {
		pos.CapturedAt = time.Unix(fix.CapturedAt, 0).UTC()
	}
	return pos, nil
}
