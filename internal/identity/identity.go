// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package identity resolves the signed-in user for alert requests.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/Divyansh7131/Rakshak/internal/domain/alert/ports"
)

// ErrNotAuthenticated means no user is signed in on this device.
var ErrNotAuthenticated = ports.ErrNotAuthenticated

// Static returns a fixed user id. An empty id means signed out.
type Static string

var _ ports.IdentityProvider = Static("")

func (s Static) UserID(context.Context) (string, error) {
	id := strings.TrimSpace(string(s))
	if id == "" {
		return "", ErrNotAuthenticated
	}
	return id, nil
}

// LoggedInUser is the document the app writes after sign-in.
type LoggedInUser struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// FileProvider reads the logged-in user document on every call so sign-in
// and sign-out take effect without a restart.
type FileProvider struct {
	Path string
}

var _ ports.IdentityProvider = FileProvider{}

func (p FileProvider) UserID(ctx context.Context) (string, error) {
	u, err := p.User(ctx)
	if err != nil {
		return "", err
	}
	return u.ID, nil
}

// User returns the full logged-in user document.
func (p FileProvider) User(context.Context) (LoggedInUser, error) {
	data, err := os.ReadFile(p.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return LoggedInUser{}, ErrNotAuthenticated
	}
	if err != nil {
		return LoggedInUser{}, fmt.Errorf("read logged-in user: %w", err)
	}

	var u LoggedInUser
	if err := json.Unmarshal(data, &u); err != nil {
		return LoggedInUser{}, fmt.Errorf("%w: malformed logged-in user: %v", ErrNotAuthenticated, err)
	}
	u.ID = strings.TrimSpace(u.ID)
	if u.ID == "" {
		return LoggedInUser{}, ErrNotAuthenticated
	}
	return u, nil
}
