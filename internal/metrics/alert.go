// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package metrics provides Prometheus metrics for the Rakshak agent.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// No session or user ids in labels.

var (
	// ToggleTotal counts toggle requests by outcome.
	ToggleTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rakshak_alert_toggle_total",
		Help: "Total number of toggle requests, by outcome.",
	}, []string{"outcome"})

	// TransitionTotal counts lifecycle transitions.
	TransitionTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rakshak_alert_transition_total",
		Help: "Total number of alert session transitions, by from/to state.",
	}, []string{"from", "to"})

	// ReportTickTotal counts reporting ticks by result.
	ReportTickTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rakshak_alert_report_tick_total",
		Help: "Total number of periodic location reports, by result (ok, sample_failed, remote_failed, superseded).",
	}, []string{"result"})

	// StoreErrorsTotal counts session store failures by operation.
	StoreErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rakshak_alert_store_errors_total",
		Help: "Total number of session store failures, by operation.",
	}, []string{"op"})

	// RecoveryTotal counts startup recoveries by the persisted status found.
	RecoveryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rakshak_alert_recovery_total",
		Help: "Total number of startup recoveries, by recovered status.",
	}, []string{"status"})

	// AlertActive is 1 while an alert session is active.
	AlertActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rakshak_alert_active",
		Help: "1 while an alert session is active, 0 otherwise.",
	})
)

// RecordToggle increments the toggle counter.
func RecordToggle(outcome string) {
	ToggleTotal.WithLabelValues(outcome).Inc()
}

// RecordTransition increments the transition counter and maintains the active gauge.
func RecordTransition(from, to string) {
	TransitionTotal.WithLabelValues(from, to).Inc()
	if to == "active" {
		AlertActive.Set(1)
	} else if from == "active" {
		AlertActive.Set(0)
	}
}

// RecordReportTick increments the tick counter.
func RecordReportTick(result string) {
	ReportTickTotal.WithLabelValues(result).Inc()
}

// RecordStoreError increments the store failure counter.
func RecordStoreError(op string) {
	StoreErrorsTotal.WithLabelValues(op).Inc()
}

// RecordRecovery increments the recovery counter.
func RecordRecovery(status string) {
	RecoveryTotal.WithLabelValues(status).Inc()
}

// GetAlertActive returns the current value of the active gauge (for testing).
func GetAlertActive() float64 {
	var m dto.Metric
	if err := AlertActive.Write(&m); err != nil {
		return 0
	}
	return m.GetGauge().GetValue()
}
