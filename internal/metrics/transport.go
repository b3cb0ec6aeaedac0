// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	notifySendTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rakshak_notify_send_total",
		Help: "Total number of contact notifications attempted, by sender and result.",
	}, []string{"sender", "result"})

	apiRequestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rakshak_api_requests_total",
		Help: "Total number of control API requests, by route and status class.",
	}, []string{"route", "code"})

	apiRateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rakshak_api_rate_limited_total",
		Help: "Total number of control API requests rejected by the rate limiter.",
	})

	configReloadTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rakshak_config_reload_total",
		Help: "Total number of configuration reloads, by result.",
	}, []string{"result"})
)

// RecordNotifySend records one notification attempt.
func RecordNotifySend(sender string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	notifySendTotal.WithLabelValues(sender, result).Inc()
}

// RecordAPIRequest records one control API request.
func RecordAPIRequest(route, code string) {
	apiRequestTotal.WithLabelValues(route, code).Inc()
}

// RecordRateLimited records a rate limited request.
func RecordRateLimited() {
	apiRateLimitedTotal.Inc()
}

// RecordConfigReload records a configuration reload attempt.
func RecordConfigReload(ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	configReloadTotal.WithLabelValues(result).Inc()
}
