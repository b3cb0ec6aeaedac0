// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package remote

import (
	"context"
	"errors"
	"time"

	"github.com/Divyansh7131/Rakshak/internal/resilience"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "rakshak.remote"

// observeCall looks the meter up at call time so a provider installed after
// startup (or by a test) is honoured.
func observeCall(ctx context.Context, op string, err error, elapsed time.Duration) {
	meter := otel.GetMeterProvider().Meter(meterName)
	attrs := metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("result", resultOf(err)),
	)

	calls, _ := meter.Int64Counter("rakshak_remote_calls_total",
		metric.WithDescription("Backend calls by operation and result"))
	calls.Add(ctx, 1, attrs)

	latency, _ := meter.Float64Histogram("rakshak_remote_call_duration_seconds",
		metric.WithDescription("Backend call latency including retries"),
		metric.WithUnit("s"))
	latency.Record(ctx, elapsed.Seconds(), attrs)
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, resilience.ErrCircuitOpen):
		return "circuit_open"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	case errors.Is(err, ErrServer):
		return "server_error"
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrRejected):
		return "rejected"
	case errors.Is(err, ErrBadResponse):
		return "bad_response"
	default:
		return "error"
	}
}
