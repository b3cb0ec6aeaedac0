// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrUnavailable = errors.New("backend: host unreachable or transport failure")
	ErrTimeout     = errors.New("backend: request timed out")
	ErrRejected    = errors.New("backend: request rejected (4xx)")
	ErrNotFound    = errors.New("backend: resource not found")
	ErrServer      = errors.New("backend: internal error (5xx)")
	ErrBadResponse = errors.New("backend: invalid response format or malformed data")
)

// Error wraps a sentinel with the failing operation and HTTP context.
type Error struct {
	Op       string
	Sentinel error
	Status   int
	Body     string
	Err      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("remote: %s: %v", e.Op, e.Sentinel)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Sentinel}
	}
	return []error{e.Sentinel, e.Err}
}

func statusError(op string, status int, body string) *Error {
	e := &Error{Op: op, Status: status, Body: body}
	switch {
	case status == http.StatusNotFound:
		e.Sentinel = ErrNotFound
	case status == http.StatusTooManyRequests:
		e.Sentinel = ErrUnavailable
	case status >= 500:
		e.Sentinel = ErrServer
	default:
		e.Sentinel = ErrRejected
	}
	return e
}

func transportError(op string, err error) *Error {
	sentinel := ErrUnavailable
	if errors.Is(err, context.DeadlineExceeded) {
		sentinel = ErrTimeout
	}
	return &Error{Op: op, Sentinel: sentinel, Err: err}
}

// retryable reports whether another attempt could succeed.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrTimeout) || errors.Is(err, ErrServer)
}
