package sla

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/flowdeck/flowdeck/pkg/eventbus"
	"github.com/flowdeck/flowdeck/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBus struct {
	published  []eventbus.Event
	publishErr error
	seq        int
}

func (b *recordingBus) Publish(_ context.Context, _ string, event eventbus.Event) error {
	if b.publishErr != nil {
		return b.publishErr
	}

	b.published = append(b.published, event)

	return nil
}

func (b *recordingBus) Handle(_ events.EventType, _ eventbus.EventHandler) error { return nil }
func (b *recordingBus) Subscribe(_ context.Context) error                        { return nil }
func (b *recordingBus) Close() error                                             { return nil }

func (b *recordingBus) GenerateID() string {
	b.seq++

	return "event-" + strconv.Itoa(b.seq)
}

func TestScan_PublishesBreachOnce(t *testing.T) {
	t.Parallel()

	tracker := NewMemoryTracker()
	bus := &recordingBus{}
	scanner := NewBreachScanner(tracker, bus, slog.Default())

	// A negative target puts the deadline in the past immediately.
	_, err := tracker.Start(t.Context(), "entity-1", "resolution_time", -time.Minute)
	require.NoError(t, err)

	require.NoError(t, scanner.Scan(t.Context()))
	require.Len(t, bus.published, 1)

	breach, ok := bus.published[0].(events.SLABreached)
	require.True(t, ok)
	assert.Equal(t, events.SLABreachedEvent, breach.GetType())
	assert.Equal(t, "entity-1", breach.EntityID)
	assert.Equal(t, "resolution_time", breach.Metric)
	assert.NotEmpty(t, breach.ID)

	// A second pass must not report the same breach again.
	require.NoError(t, scanner.Scan(t.Context()))
	assert.Len(t, bus.published, 1)
}

func TestScan_SkipsHealthyAndPausedClocks(t *testing.T) {
	t.Parallel()

	tracker := NewMemoryTracker()
	bus := &recordingBus{}
	scanner := NewBreachScanner(tracker, bus, slog.Default())

	_, err := tracker.Start(t.Context(), "entity-healthy", "resolution_time", time.Hour)
	require.NoError(t, err)

	_, err = tracker.Start(t.Context(), "entity-paused", "resolution_time", -time.Minute)
	require.NoError(t, err)
	_, err = tracker.Pause(t.Context(), "entity-paused", "resolution_time")
	require.NoError(t, err)

	require.NoError(t, scanner.Scan(t.Context()))
	assert.Empty(t, bus.published)
}

func TestScan_FailedPublishRetriesNextPass(t *testing.T) {
	t.Parallel()

	tracker := NewMemoryTracker()
	bus := &recordingBus{publishErr: errors.New("broker down")}
	scanner := NewBreachScanner(tracker, bus, slog.Default())

	_, err := tracker.Start(t.Context(), "entity-1", "resolution_time", -time.Minute)
	require.NoError(t, err)

	// The scan itself succeeds; the failure is logged per clock.
	require.NoError(t, scanner.Scan(t.Context()))
	assert.Empty(t, bus.published)

	// The clock was not marked breached, so the next pass reports it.
	bus.publishErr = nil

	require.NoError(t, scanner.Scan(t.Context()))
	assert.Len(t, bus.published, 1)
}

func TestScannerSchedule(t *testing.T) {
	t.Parallel()

	scanner := NewBreachScanner(NewMemoryTracker(), &recordingBus{}, slog.Default(),
		WithSchedule("*/5 * * * *"))
	assert.Equal(t, "*/5 * * * *", scanner.schedule)
}
