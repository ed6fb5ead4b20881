package sla

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/flowdeck/flowdeck/pkg/eventbus"
	"github.com/flowdeck/flowdeck/pkg/events"
	"github.com/robfig/cron/v3"
)

// BreachScanner periodically walks the tracker's active clocks and
// publishes one SLABreached event for each clock past its deadline.
type BreachScanner struct {
	tracker  Tracker
	eventBus eventbus.EventBus
	logger   *slog.Logger
	cron     *cron.Cron
	schedule string
}

type ScannerOption func(*BreachScanner)

// WithSchedule overrides the scan cron expression. Default is every minute.
func WithSchedule(expr string) ScannerOption {
	return func(s *BreachScanner) {
		s.schedule = expr
	}
}

func NewBreachScanner(tracker Tracker, eventBus eventbus.EventBus, logger *slog.Logger, opts ...ScannerOption) *BreachScanner {
	scanner := &BreachScanner{
		tracker:  tracker,
		eventBus: eventBus,
		logger:   logger.With("module", "sla_scanner"),
		schedule: "* * * * *",
	}

	for _, opt := range opts {
		opt(scanner)
	}

	return scanner
}

func (s *BreachScanner) Start(ctx context.Context) error {
	s.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))

	_, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.Scan(ctx); err != nil {
			s.logger.Error("SLA breach scan failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule sla scan: %w", err)
	}

	s.cron.Start()
	s.logger.Info("SLA breach scanner started", "schedule", s.schedule)

	return nil
}

func (s *BreachScanner) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		s.logger.Info("SLA breach scanner stopped")
	}
}

// Scan runs a single pass. Paused and already-reported clocks are skipped.
func (s *BreachScanner) Scan(ctx context.Context) error {
	clocks, err := s.tracker.Active(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active sla clocks: %w", err)
	}

	now := time.Now().UTC()

	for _, clock := range clocks {
		if clock.Breached || clock.Paused() || now.Before(clock.Deadline) {
			continue
		}

		if err := s.reportBreach(ctx, clock, now); err != nil {
			s.logger.Error("Failed to report SLA breach",
				"entity_id", clock.EntityID, "metric", clock.Metric, "error", err)
		}
	}

	return nil
}

func (s *BreachScanner) reportBreach(ctx context.Context, clock *Clock, now time.Time) error {
	event := events.SLABreached{
		BaseEvent: events.BaseEvent{
			ID:        s.eventBus.GenerateID(),
			Type:      events.SLABreachedEvent,
			Timestamp: now,
			EntityID:  clock.EntityID,
		},
		Metric:    clock.Metric,
		StartedAt: clock.StartedAt,
		Deadline:  clock.Deadline,
	}

	if err := s.eventBus.Publish(ctx, clock.EntityID, event); err != nil {
		return err
	}

	// Mark after publish so a failed publish retries on the next pass.
	if err := s.tracker.MarkBreached(ctx, clock.EntityID, clock.Metric); err != nil {
		return err
	}

	s.logger.Warn("SLA breached",
		"entity_id", clock.EntityID,
		"metric", clock.Metric,
		"deadline", clock.Deadline,
		"overdue", now.Sub(clock.Deadline).String())

	return nil
}
