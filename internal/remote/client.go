// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package remote is the HTTP client for the Rakshak alert backend.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Divyansh7131/Rakshak/internal/domain/alert/model"
	"github.com/Divyansh7131/Rakshak/internal/domain/alert/ports"
	"github.com/Divyansh7131/Rakshak/internal/log"
	"github.com/Divyansh7131/Rakshak/internal/platform/httpx"
	"github.com/Divyansh7131/Rakshak/internal/resilience"
	"github.com/Divyansh7131/Rakshak/internal/telemetry"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	opFetchProfile  = "fetch_profile"
	opCreateSession = "create_session"
	opUpdateSession = "update_session"
	opFetchHistory  = "fetch_history"

	defaultCallTimeout = 15 * time.Second
	maxErrorBody       = 512
	maxResponseBody    = 1 << 20
)

// Config configures the backend client.
type Config struct {
	BaseURL     string
	CallTimeout time.Duration
	Retry       resilience.RetryPolicy
	// Breaker settings for the contact profile fetch.
	BreakerThreshold int
	BreakerReset     time.Duration
	HTTPClient       *http.Client
}

// Client implements ports.RemoteSyncClient and ports.HistoryReader.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	retry   resilience.RetryPolicy
	breaker *resilience.CircuitBreaker
	logger  zerolog.Logger
	tracer  trace.Tracer
}

var (
	_ ports.RemoteSyncClient = (*Client)(nil)
	_ ports.HistoryReader    = (*Client)(nil)
)

// New validates cfg and returns a client.
func New(cfg Config) (*Client, error) {
	base, err := httpx.ParseBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("remote: invalid base url %q: %w", cfg.BaseURL, err)
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = defaultCallTimeout
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = resilience.DefaultRetryPolicy()
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = httpx.NewClient(cfg.CallTimeout)
	}

	return &Client{
		base:    base,
		http:    hc,
		timeout: cfg.CallTimeout,
		retry:   cfg.Retry,
		breaker: resilience.NewCircuitBreaker("remote_profile", cfg.BreakerThreshold, cfg.BreakerReset,
			resilience.WithFailurePredicate(retryable)),
		logger: log.WithComponent("remote").With().Str(log.FieldBaseURL, httpx.SanitizeURL(base.String())).Logger(),
		tracer: telemetry.Tracer("rakshak/remote"),
	}, nil
}

// FetchContactProfile never fails: any error yields the default profile.
func (c *Client) FetchContactProfile(ctx context.Context, userID string) model.ContactProfile {
	var resp detailsResponse
	err := c.call(ctx, opFetchProfile, func(ctx context.Context) error {
		return c.breaker.Do(ctx, func(ctx context.Context) error {
			return c.retrying(ctx, opFetchProfile, func(ctx context.Context) error {
				return c.doJSON(ctx, opFetchProfile, http.MethodGet, "/api/user/"+url.PathEscape(userID)+"/details", nil, &resp)
			})
		})
	})
	if err == nil && !resp.Success {
		err = &Error{Op: opFetchProfile, Sentinel: ErrBadResponse, Body: "success=false"}
	}
	if err != nil {
		c.logger.Warn().Err(err).
			Str(log.FieldEvent, "remote.profile_fetch_failed").
			Str(log.FieldUserID, userID).
			Msg("contact profile unavailable, using defaults")
		return model.DefaultContactProfile()
	}
	return resp.profile()
}

// CreateSession is attempted once: a retried POST could open a second
// remote session.
func (c *Client) CreateSession(ctx context.Context, userID string, pos model.Position) (string, error) {
	body := createRequest{UserID: userID, Location: toWire(&pos), Status: string(model.RemoteActive)}
	var resp sessionResponse
	err := c.call(ctx, opCreateSession, func(ctx context.Context) error {
		return c.doJSON(ctx, opCreateSession, http.MethodPost, "/api/sos-alert", body, &resp)
	})
	if err != nil {
		return "", err
	}
	id := resp.id()
	if !resp.Success || id == "" {
		return "", &Error{Op: opCreateSession, Sentinel: ErrBadResponse, Body: "missing session id"}
	}
	return id, nil
}

// UpdateSession is an idempotent PUT and is retried with backoff within the
// call timeout.
func (c *Client) UpdateSession(ctx context.Context, sessionID string, pos *model.Position, status model.RemoteStatus) error {
	body := updateRequest{Location: toWire(pos), Status: string(status)}
	path := "/api/sos-alert/" + url.PathEscape(sessionID)
	return c.call(ctx, opUpdateSession, func(ctx context.Context) error {
		trace.SpanFromContext(ctx).SetAttributes(telemetry.AlertAttributes(sessionID, string(status))...)
		return c.retrying(ctx, opUpdateSession, func(ctx context.Context) error {
			var resp sessionResponse
			return c.doJSON(ctx, opUpdateSession, http.MethodPut, path, body, &resp)
		})
	})
}

// FetchHistory lists the user's past alerts, newest first.
func (c *Client) FetchHistory(ctx context.Context, userID string) ([]model.HistoryEntry, error) {
	var resp historyResponse
	err := c.call(ctx, opFetchHistory, func(ctx context.Context) error {
		return c.retrying(ctx, opFetchHistory, func(ctx context.Context) error {
			return c.doJSON(ctx, opFetchHistory, http.MethodGet, "/api/sos-alert/user/"+url.PathEscape(userID), nil, &resp)
		})
	})
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &Error{Op: opFetchHistory, Sentinel: ErrBadResponse, Body: "success=false"}
	}
	return resp.entries(), nil
}

// call bounds fn by the per-call timeout and records span and metrics.
func (c *Client) call(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := c.tracer.Start(ctx, "remote."+op, trace.WithAttributes(attribute.String(telemetry.RemoteOpKey, op)))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	observeCall(ctx, op, err, time.Since(start))
	telemetry.RecordError(span, err)
	return err
}

func (c *Client) retrying(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	err := resilience.Retry(ctx, c.retry, func(ctx context.Context) error {
		err := fn(ctx)
		if err != nil && !retryable(err) {
			return resilience.Permanent(err)
		}
		return err
	}, func(err error, wait time.Duration) {
		c.logger.Debug().Err(err).
			Str(log.FieldOperation, op).
			Dur("backoff", wait).
			Msg("retrying backend call")
	})
	var rerr *Error
	if err != nil && !errors.As(err, &rerr) {
		// deadline hit while backing off
		return transportError(op, err)
	}
	return err
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return &Error{Op: op, Sentinel: ErrBadResponse, Err: err}
		}
		body = bytes.NewReader(buf)
	}

	u := c.base.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return &Error{Op: op, Sentinel: ErrUnavailable, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return transportError(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return statusError(op, resp.StatusCode, string(bytes.TrimSpace(snippet)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(out); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return transportError(op, err)
		}
		return &Error{Op: op, Sentinel: ErrBadResponse, Status: resp.StatusCode, Err: err}
	}
	return nil
}
