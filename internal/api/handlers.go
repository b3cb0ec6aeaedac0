// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"errors"
	"net/http"

	"github.com/Divyansh7131/Rakshak/internal/domain/alert/model"
	"github.com/Divyansh7131/Rakshak/internal/domain/alert/ports"
	"github.com/Divyansh7131/Rakshak/internal/log"
)

type handlers struct {
	deps Deps
}

// ToggleResponse is returned by POST /api/v1/alert/toggle.
type ToggleResponse struct {
	Outcome model.Outcome      `json:"outcome"`
	Message string             `json:"message"`
	State   model.DisplayState `json:"state"`
}

// HistoryResponse is returned by GET /api/v1/alert/history.
type HistoryResponse struct {
	Alerts []model.HistoryEntry `json:"alerts"`
}

var outcomeStatus = map[model.Outcome]int{
	model.OutcomeStarted:             http.StatusOK,
	model.OutcomeStopped:             http.StatusOK,
	model.OutcomeBusy:                http.StatusConflict,
	model.OutcomePermissionDenied:    http.StatusForbidden,
	model.OutcomeNotAuthenticated:    http.StatusUnauthorized,
	model.OutcomeLocationUnavailable: http.StatusServiceUnavailable,
	model.OutcomeRemoteError:         http.StatusBadGateway,
}

func (h *handlers) ready() bool {
	return h.deps.Ready == nil || h.deps.Ready()
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	if !h.ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "recovering"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) toggle(w http.ResponseWriter, r *http.Request) {
	if !h.ready() {
		writeError(w, r, http.StatusServiceUnavailable, "recovering", "alert state is still being restored")
		return
	}
	outcome := h.deps.Alerts.Toggle(r.Context())
	code, ok := outcomeStatus[outcome]
	if !ok {
		code = http.StatusInternalServerError
	}
	writeJSON(w, code, ToggleResponse{
		Outcome: outcome,
		Message: outcome.Message(),
		State:   h.deps.Alerts.DisplayState(),
	})
}

func (h *handlers) state(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Alerts.DisplayState())
}

func (h *handlers) session(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Alerts.Snapshot())
}

func (h *handlers) history(w http.ResponseWriter, r *http.Request) {
	if h.deps.History == nil || h.deps.Identity == nil {
		writeError(w, r, http.StatusNotImplemented, "history_unavailable", "")
		return
	}
	userID, err := h.deps.Identity.UserID(r.Context())
	if err != nil {
		if errors.Is(err, ports.ErrNotAuthenticated) {
			writeError(w, r, http.StatusUnauthorized, "not_authenticated", model.OutcomeNotAuthenticated.Message())
			return
		}
		writeError(w, r, http.StatusInternalServerError, "identity_failed", "")
		return
	}
	entries, err := h.deps.History.FetchHistory(r.Context(), userID)
	if err != nil {
		logger := log.WithComponentFromContext(r.Context(), "api")
		logger.Warn().Err(err).
			Str(log.FieldEvent, "api.history_failed").
			Msg("history fetch failed")
		writeError(w, r, http.StatusBadGateway, "remote_error", model.OutcomeRemoteError.Message())
		return
	}
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Alerts: entries})
}
