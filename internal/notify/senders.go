// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Divyansh7131/Rakshak/internal/domain/alert/model"
	"github.com/Divyansh7131/Rakshak/internal/log"
	"github.com/rs/zerolog"
)

// LogSender writes the message to the log instead of delivering it.
type LogSender struct {
	logger zerolog.Logger
}

func NewLogSender() *LogSender {
	return &LogSender{logger: log.WithComponent("notify.log")}
}

func (s *LogSender) Name() string { return "log" }

func (s *LogSender) Send(_ context.Context, to model.TrustedContact, text string) error {
	s.logger.Info().
		Str("contact_id", to.ID).
		Str("contact_name", to.Name).
		Str("text", text).
		Msg("sos message")
	return nil
}

// WebhookSender posts each message to an SMS gateway webhook.
type WebhookSender struct {
	url    string
	client *http.Client
}

func NewWebhookSender(url string, client *http.Client) *WebhookSender {
	return &WebhookSender{url: url, client: client}
}

func (s *WebhookSender) Name() string { return "webhook" }

type webhookPayload struct {
	To      string `json:"to"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

func (s *WebhookSender) Send(ctx context.Context, to model.TrustedContact, text string) error {
	if to.Phone == "" {
		return fmt.Errorf("contact %s has no phone number", to.ID)
	}
	buf, err := json.Marshal(webhookPayload{To: to.Phone, Name: to.Name, Message: text})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}
