// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package remote

import (
	"context"
	"net/http"
	"testing"

	"github.com/Divyansh7131/Rakshak/internal/domain/alert/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

func TestCallsEmitMetricsAndSpans(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	spans := tracetest.NewInMemoryExporter()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSyncer(spans)))
	defer func() {
		otel.SetMeterProvider(noop.NewMeterProvider())
		otel.SetTracerProvider(tracenoop.NewTracerProvider())
	}()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}))
	require.NoError(t, c.UpdateSession(context.Background(), "sess-1", &testPos, model.RemoteActive))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "rakshak_remote_calls_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				op, _ := dp.Attributes.Value(attribute.Key("op"))
				result, _ := dp.Attributes.Value(attribute.Key("result"))
				if op.AsString() == opUpdateSession && result.AsString() == "ok" {
					total += dp.Value
				}
			}
		}
	}
	assert.Equal(t, int64(1), total)

	var found bool
	for _, s := range spans.GetSpans() {
		if s.Name == "remote."+opUpdateSession {
			found = true
		}
	}
	assert.True(t, found, "update span must be recorded")
}

func TestResultOf(t *testing.T) {
	assert.Equal(t, "ok", resultOf(nil))
	assert.Equal(t, "timeout", resultOf(&Error{Op: "x", Sentinel: ErrTimeout}))
	assert.Equal(t, "rejected", resultOf(&Error{Op: "x", Sentinel: ErrNotFound}))
	assert.Equal(t, "server_error", resultOf(statusError("x", 503, "")))
	assert.Equal(t, "unavailable", resultOf(statusError("x", 429, "")))
}
