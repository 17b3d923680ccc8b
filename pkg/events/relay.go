package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RelayConfig tunes the outbox relay.
type RelayConfig struct {
	Interval  time.Duration
	BatchSize int
}

// Relay moves outbox entries to the broker. Delivery is at-least-once: an
// entry published but not yet marked is sent again on the next pass, so
// consumers dedupe on the event ID.
type Relay struct {
	repo      OutboxRepository
	publisher EntryPublisher
	cfg       RelayConfig
	logger    *slog.Logger
}

// NewRelay creates a relay. Zero config values default to a one second
// interval and batches of 100.
func NewRelay(repo OutboxRepository, publisher EntryPublisher, cfg RelayConfig, logger *slog.Logger) *Relay {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	return &Relay{repo: repo, publisher: publisher, cfg: cfg, logger: logger}
}

// Run drains the outbox every interval until ctx is cancelled. A failed pass
// is logged and retried on the next tick.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	r.logger.Info("outbox relay started", "interval", r.cfg.Interval, "batch_size", r.cfg.BatchSize)
	for {
		n, err := r.Flush(ctx)
		switch {
		case err != nil && ctx.Err() == nil:
			r.logger.WarnContext(ctx, "outbox relay pass failed", "published", n, "error", err)
		case n > 0:
			r.logger.DebugContext(ctx, "outbox relay pass", "published", n)
		}

		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// Flush publishes pending entries batch by batch until the outbox is empty
// and returns how many were published.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	published := 0
	for {
		entries, err := r.repo.FetchUnpublished(ctx, r.cfg.BatchSize)
		if err != nil {
			return published, fmt.Errorf("fetch unpublished: %w", err)
		}
		if len(entries) == 0 {
			return published, nil
		}

		if err := r.publisher.PublishEntries(ctx, entries...); err != nil {
			return published, fmt.Errorf("publish %d entries: %w", len(entries), err)
		}

		ids := make([]string, len(entries))
		for i, e := range entries {
			ids[i] = e.ID
		}
		if err := r.repo.MarkPublished(ctx, ids); err != nil {
			return published, fmt.Errorf("mark published: %w", err)
		}

		published += len(entries)
		if len(entries) < r.cfg.BatchSize {
			return published, nil
		}
	}
}
