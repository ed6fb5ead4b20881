// Package sla tracks per-entity SLA clocks. A clock is started, paused,
// resumed, and stopped by post-functions as entities move through their
// workflow; a background scanner flags clocks that pass their deadline.
package sla

import (
	"context"
	"errors"
	"time"
)

var ErrClockNotFound = errors.New("sla clock not found")

// Clock is a running SLA measurement for one metric on one entity.
type Clock struct {
	EntityID    string        `json:"entity_id"`
	Metric      string        `json:"metric"`
	StartedAt   time.Time     `json:"started_at"`
	Deadline    time.Time     `json:"deadline"`
	PausedAt    *time.Time    `json:"paused_at,omitempty"`
	PausedTotal time.Duration `json:"paused_total"`
	Breached    bool          `json:"breached"`
}

// Paused reports whether the clock is currently not accumulating time.
func (c *Clock) Paused() bool {
	return c.PausedAt != nil
}

// Elapsed returns accumulated running time as of now, excluding pauses.
func (c *Clock) Elapsed(now time.Time) time.Duration {
	end := now
	if c.PausedAt != nil {
		end = *c.PausedAt
	}

	return end.Sub(c.StartedAt) - c.PausedTotal
}

// Tracker stores SLA clocks keyed by (entity, metric).
type Tracker interface {
	// Start begins a clock with a deadline of now+target, replacing any
	// previous clock for the same entity and metric.
	Start(ctx context.Context, entityID, metric string, target time.Duration) (*Clock, error)

	// Stop removes the clock and returns its final state.
	Stop(ctx context.Context, entityID, metric string) (*Clock, error)

	// Pause freezes the clock. Pausing an already-paused clock is a no-op.
	Pause(ctx context.Context, entityID, metric string) (*Clock, error)

	// Resume unfreezes the clock and pushes its deadline out by the time
	// spent paused. Resuming a running clock is a no-op.
	Resume(ctx context.Context, entityID, metric string) (*Clock, error)

	// Active returns every stored clock.
	Active(ctx context.Context) ([]*Clock, error)

	// MarkBreached flags the clock so a breach is reported only once.
	MarkBreached(ctx context.Context, entityID, metric string) error
}

// Targets maps metric names to their target durations. Metrics without an
// entry fall back to Default.
type Targets struct {
	Default   time.Duration
	PerMetric map[string]time.Duration
}

func (t Targets) For(metric string) time.Duration {
	if d, ok := t.PerMetric[metric]; ok {
		return d
	}

	return t.Default
}

// DefaultTargets returns the out-of-the-box SLA targets.
func DefaultTargets() Targets {
	return Targets{
		Default: 72 * time.Hour,
		PerMetric: map[string]time.Duration{
			"response_time":       4 * time.Hour,
			"resolution_time":     24 * time.Hour,
			"fulfillment_time":    48 * time.Hour,
			"implementation_time": 8 * time.Hour,
		},
	}
}
