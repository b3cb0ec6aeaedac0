// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys shared by alert spans.
const (
	AlertSessionIDKey = "rakshak.alert.session_id"
	AlertStatusKey    = "rakshak.alert.status"
	AlertOutcomeKey   = "rakshak.alert.outcome"
	RemoteOpKey       = "rakshak.remote.op"
	RemoteStatusKey   = "rakshak.remote.status"
	HTTPStatusCodeKey = "http.status_code"
)

// AlertAttributes builds span attributes for a session. Empty values are skipped.
func AlertAttributes(sessionID, status string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 2)
	if sessionID != "" {
		attrs = append(attrs, attribute.String(AlertSessionIDKey, sessionID))
	}
	if status != "" {
		attrs = append(attrs, attribute.String(AlertStatusKey, status))
	}
	return attrs
}

// RecordError marks span as failed.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
