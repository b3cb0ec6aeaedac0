// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Divyansh7131/Rakshak/internal/domain/alert/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type recordingSender struct {
	mu    sync.Mutex
	sent  map[string]string
	fail  map[string]bool
	block chan struct{}
}

func newRecordingSender() *recordingSender {
	return &recordingSender{sent: map[string]string{}, fail: map[string]bool{}}
}

func (r *recordingSender) Name() string { return "recording" }

func (r *recordingSender) Send(ctx context.Context, to model.TrustedContact, text string) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail[to.ID] {
		return errors.New("carrier rejected")
	}
	r.sent[to.ID] = text
	return nil
}

func (r *recordingSender) ids() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.sent))
	for id := range r.sent {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

var (
	pos      = model.Position{Latitude: 28.6139, Longitude: 77.209}
	contacts = []model.TrustedContact{
		{ID: "c1", Name: "Mom", Phone: "9876543210"},
		{ID: "c2", Name: "Ravi", Phone: "9123456780"},
		{ID: "c3", Name: "Neha", Phone: "9000000000"},
	}
)

func TestFormatMessage(t *testing.T) {
	got := FormatMessage("HELP!!", pos)
	assert.Equal(t, "🚨 SOS Alert! HELP!! Location: https://www.google.com/maps/search/?api=1&query=28.6139,77.209", got)

	assert.Contains(t, FormatMessage("   ", pos), "SOS Alert! HELP!! Location:")
}

func TestFormatMessage_NormalizesUnicode(t *testing.T) {
	decomposed := "Cafe\u0301"
	assert.Contains(t, FormatMessage(decomposed, pos), "Caf\u00e9 ")
}

func TestDispatcher_BestEffortPerContact(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	sender := newRecordingSender()
	sender.fail["c2"] = true
	d := NewDispatcher(sender, Options{})

	d.Notify(context.Background(), contacts, "HELP!!", pos)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Wait(ctx))

	assert.Equal(t, []string{"c1", "c3"}, sender.ids(), "one failure must not stop the others")
}

func TestDispatcher_NotifyDoesNotBlock(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	sender := newRecordingSender()
	sender.block = make(chan struct{})
	d := NewDispatcher(sender, Options{})

	returned := make(chan struct{})
	go func() {
		d.Notify(context.Background(), contacts, "HELP!!", pos)
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on sender")
	}

	close(sender.block)
	require.NoError(t, d.Wait(context.Background()))
	assert.Len(t, sender.ids(), 3)
}

func TestDispatcher_SurvivesCallerCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	sender := newRecordingSender()
	sender.block = make(chan struct{})
	d := NewDispatcher(sender, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	d.Notify(ctx, contacts[:1], "HELP!!", pos)
	cancel()
	close(sender.block)

	require.NoError(t, d.Wait(context.Background()))
	assert.Equal(t, []string{"c1"}, sender.ids())
}

func TestDispatcher_NoContacts(t *testing.T) {
	sender := newRecordingSender()
	d := NewDispatcher(sender, Options{})
	d.Notify(context.Background(), nil, "HELP!!", pos)
	require.NoError(t, d.Wait(context.Background()))
	assert.Empty(t, sender.ids())
}

func TestDispatcher_WaitHonoursContext(t *testing.T) {
	sender := newRecordingSender()
	sender.block = make(chan struct{})
	d := NewDispatcher(sender, Options{})
	d.Notify(context.Background(), contacts[:1], "HELP!!", pos)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Wait(ctx), context.DeadlineExceeded)

	close(sender.block)
	require.NoError(t, d.Wait(context.Background()))
}

func TestWebhookSender(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewWebhookSender(srv.URL, srv.Client())
	require.NoError(t, s.Send(context.Background(), contacts[0], "text"))
	assert.Equal(t, webhookPayload{To: "9876543210", Name: "Mom", Message: "text"}, got)

	assert.Error(t, s.Send(context.Background(), model.TrustedContact{ID: "x"}, "text"), "no phone")
}

func TestWebhookSender_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewWebhookSender(srv.URL, srv.Client()).Send(context.Background(), contacts[0], "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
