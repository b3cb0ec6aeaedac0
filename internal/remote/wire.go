// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package remote

import (
	"sort"
	"strings"
	"time"

	"github.com/Divyansh7131/Rakshak/internal/domain/alert/model"
)

type wireLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func toWire(pos *model.Position) *wireLocation {
	if pos == nil {
		return nil
	}
	return &wireLocation{Lat: pos.Latitude, Lng: pos.Longitude}
}

type createRequest struct {
	UserID   string        `json:"userId"`
	Location *wireLocation `json:"location"`
	Status   string        `json:"status"`
}

type updateRequest struct {
	Location *wireLocation `json:"location,omitempty"`
	Status   string        `json:"status"`
}

type wireRef struct {
	ID    string `json:"id"`
	Mongo string `json:"_id"`
}

func (r *wireRef) get() string {
	if r == nil {
		return ""
	}
	if r.ID != "" {
		return r.ID
	}
	return r.Mongo
}

// sessionResponse accepts both the sessionId field and the older
// {"sos": {"id": ...}} envelope.
type sessionResponse struct {
	Success   bool     `json:"success"`
	SessionID string   `json:"sessionId"`
	SOS       *wireRef `json:"sos"`
	Message   string   `json:"message"`
}

func (r sessionResponse) id() string {
	if r.SessionID != "" {
		return r.SessionID
	}
	return r.SOS.get()
}

type wireContact struct {
	wireRef
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type detailsResponse struct {
	Success bool `json:"success"`
	Details struct {
		TrustedFriends []wireContact `json:"trustedFriends"`
		Message        string        `json:"message"`
	} `json:"details"`
}

func (r detailsResponse) profile() model.ContactProfile {
	out := model.ContactProfile{
		Contacts: make([]model.TrustedContact, 0, len(r.Details.TrustedFriends)),
		Message:  strings.TrimSpace(r.Details.Message),
	}
	if out.Message == "" {
		out.Message = model.DefaultMessage
	}
	for _, c := range r.Details.TrustedFriends {
		out.Contacts = append(out.Contacts, model.TrustedContact{
			ID:    c.get(),
			Name:  c.Name,
			Phone: c.Phone,
		})
	}
	return out
}

type wireHistoryEntry struct {
	wireRef
	Timestamp string        `json:"timestamp"`
	Status    string        `json:"status"`
	Location  *wireLocation `json:"location"`
	Media     []string      `json:"media"`
}

type historyResponse struct {
	Success    bool               `json:"success"`
	SOSHistory []wireHistoryEntry `json:"sosHistory"`
}

// entries converts the wire list to newest-first order. Entries without a
// parseable timestamp keep their relative order after dated ones.
func (r historyResponse) entries() []model.HistoryEntry {
	out := make([]model.HistoryEntry, 0, len(r.SOSHistory))
	for i := len(r.SOSHistory) - 1; i >= 0; i-- {
		w := r.SOSHistory[i]
		e := model.HistoryEntry{ID: w.get(), Status: w.Status, Media: w.Media}
		if ts, err := time.Parse(time.RFC3339Nano, w.Timestamp); err == nil {
			e.Timestamp = ts.UTC()
		}
		if w.Location != nil {
			e.Latitude, e.Longitude = w.Location.Lat, w.Location.Lng
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp.IsZero() || out[j].Timestamp.IsZero() {
			return !out[i].Timestamp.IsZero() && out[j].Timestamp.IsZero()
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}
