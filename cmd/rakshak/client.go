// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Divyansh7131/Rakshak/internal/platform/httpx"
)

// agentClient calls the control API of a running agent.
type agentClient struct {
	base string
	http *http.Client
}

func newAgentClient(opts *rootOptions) (*agentClient, error) {
	base, err := httpx.ParseBaseURL(opts.addr)
	if err != nil {
		return nil, fmt.Errorf("invalid --addr: %w", err)
	}
	timeout, err := time.ParseDuration(opts.timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid --timeout: %w", err)
	}
	return &agentClient{
		base: strings.TrimRight(base.String(), "/"),
		http: httpx.NewClient(timeout),
	}, nil
}

type apiError struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// do sends a request and decodes the body into out. Non-2xx responses are
// decoded too when accept lists the status; otherwise they become errors.
func (c *agentClient) do(ctx context.Context, method, path string, out any, accept ...int) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("agent unreachable at %s: %w", c.base, err)
	}
	defer func() { _ = resp.Body.Close() }()

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	for _, code := range accept {
		if resp.StatusCode == code {
			ok = true
		}
	}
	if !ok {
		var e apiError
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			if e.Detail != "" {
				return resp.StatusCode, fmt.Errorf("%s: %s", e.Error, e.Detail)
			}
			return resp.StatusCode, fmt.Errorf("%s", e.Error)
		}
		return resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if out == nil {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}
