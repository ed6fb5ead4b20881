package sla

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryTracker keeps clocks in process memory. Used in tests and in
// single-node deployments that run without Redis.
type MemoryTracker struct {
	mu     sync.RWMutex
	clocks map[string]*Clock
}

func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{clocks: make(map[string]*Clock)}
}

func (t *MemoryTracker) Start(_ context.Context, entityID, metric string, target time.Duration) (*Clock, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now().UTC()
	clock := &Clock{
		EntityID:  entityID,
		Metric:    metric,
		StartedAt: now,
		Deadline:  now.Add(target),
	}
	t.clocks[key(entityID, metric)] = clock

	copied := *clock

	return &copied, nil
}

func (t *MemoryTracker) Stop(_ context.Context, entityID, metric string) (*Clock, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	clock, ok := t.clocks[key(entityID, metric)]
	if !ok {
		return nil, ErrClockNotFound
	}

	delete(t.clocks, key(entityID, metric))

	return clock, nil
}

func (t *MemoryTracker) Pause(_ context.Context, entityID, metric string) (*Clock, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	clock, ok := t.clocks[key(entityID, metric)]
	if !ok {
		return nil, ErrClockNotFound
	}

	if !clock.Paused() {
		now := time.Now().UTC()
		clock.PausedAt = &now
	}

	copied := *clock

	return &copied, nil
}

func (t *MemoryTracker) Resume(_ context.Context, entityID, metric string) (*Clock, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	clock, ok := t.clocks[key(entityID, metric)]
	if !ok {
		return nil, ErrClockNotFound
	}

	if clock.Paused() {
		paused := time.Now().UTC().Sub(*clock.PausedAt)
		clock.PausedTotal += paused
		clock.Deadline = clock.Deadline.Add(paused)
		clock.PausedAt = nil
	}

	copied := *clock

	return &copied, nil
}

func (t *MemoryTracker) Active(_ context.Context) ([]*Clock, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	clocks := make([]*Clock, 0, len(t.clocks))

	for _, clock := range t.clocks {
		copied := *clock
		clocks = append(clocks, &copied)
	}

	sort.Slice(clocks, func(i, j int) bool {
		if clocks[i].EntityID != clocks[j].EntityID {
			return clocks[i].EntityID < clocks[j].EntityID
		}

		return clocks[i].Metric < clocks[j].Metric
	})

	return clocks, nil
}

func (t *MemoryTracker) MarkBreached(_ context.Context, entityID, metric string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	clock, ok := t.clocks[key(entityID, metric)]
	if !ok {
		return ErrClockNotFound
	}

	clock.Breached = true

	return nil
}

func key(entityID, metric string) string {
	return entityID + ":" + metric
}
