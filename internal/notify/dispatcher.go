// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package notify delivers SOS messages to trusted contacts on a best-effort basis.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/Divyansh7131/Rakshak/internal/domain/alert/model"
	"github.com/Divyansh7131/Rakshak/internal/domain/alert/ports"
	"github.com/Divyansh7131/Rakshak/internal/log"
	"github.com/Divyansh7131/Rakshak/internal/metrics"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Sender delivers one message to one contact.
type Sender interface {
	Name() string
	Send(ctx context.Context, to model.TrustedContact, text string) error
}

// Options tunes dispatch.
type Options struct {
	// RatePerSecond paces sends across all contacts. Zero disables pacing.
	RatePerSecond float64
	MaxParallel   int
	SendTimeout   time.Duration
}

// Dispatcher fans a message out to every contact in the background.
// Failures are logged per contact and never retried.
type Dispatcher struct {
	sender      Sender
	limiter     *rate.Limiter
	maxParallel int
	sendTimeout time.Duration
	logger      zerolog.Logger
	wg          sync.WaitGroup
}

var _ ports.Notifier = (*Dispatcher)(nil)

// NewDispatcher returns a dispatcher over sender.
func NewDispatcher(sender Sender, opts Options) *Dispatcher {
	if opts.MaxParallel <= 0 {
		opts.MaxParallel = 4
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 20 * time.Second
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1)
	}
	return &Dispatcher{
		sender:      sender,
		limiter:     limiter,
		maxParallel: opts.MaxParallel,
		sendTimeout: opts.SendTimeout,
		logger:      log.WithComponent("notify").With().Str("sender", sender.Name()).Logger(),
	}
}

// Notify returns immediately. Sends outlive ctx cancellation so a finished
// toggle does not abort them.
func (d *Dispatcher) Notify(ctx context.Context, contacts []model.TrustedContact, message string, pos model.Position) {
	if len(contacts) == 0 {
		d.logger.Info().Str(log.FieldEvent, "notify.no_contacts").Msg("no trusted contacts to notify")
		return
	}
	text := FormatMessage(message, pos)
	targets := append([]model.TrustedContact(nil), contacts...)
	base := context.WithoutCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.dispatch(base, targets, text)
	}()
}

func (d *Dispatcher) dispatch(ctx context.Context, contacts []model.TrustedContact, text string) {
	var g errgroup.Group
	g.SetLimit(d.maxParallel)
	for _, c := range contacts {
		g.Go(func() error {
			d.sendOne(ctx, c, text)
			return nil
		})
	}
	_ = g.Wait()
}

func (d *Dispatcher) sendOne(ctx context.Context, to model.TrustedContact, text string) {
	ctx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	logger := d.logger.With().Str("contact_id", to.ID).Logger()
	if err := d.limiter.Wait(ctx); err != nil {
		metrics.RecordNotifySend(d.sender.Name(), false)
		logger.Warn().Err(err).Str(log.FieldEvent, "notify.paced_out").Msg("notification dropped")
		return
	}
	if err := d.sender.Send(ctx, to, text); err != nil {
		metrics.RecordNotifySend(d.sender.Name(), false)
		logger.Warn().Err(err).Str(log.FieldEvent, "notify.send_failed").Msg("failed to notify contact")
		return
	}
	metrics.RecordNotifySend(d.sender.Name(), true)
	logger.Debug().Str(log.FieldEvent, "notify.sent").Msg("contact notified")
}

// Wait blocks until every dispatched send has finished or ctx ends.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
