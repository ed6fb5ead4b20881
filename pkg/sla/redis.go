package sla

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "flowdeck:sla"

// RedisTracker stores clocks as JSON values with a set index of active
// clock keys, so the breach scanner can enumerate clocks without SCAN.
type RedisTracker struct {
	client *redis.Client
	prefix string
}

type RedisOption func(*RedisTracker)

// WithPrefix overrides the key prefix. Default is "flowdeck:sla".
func WithPrefix(prefix string) RedisOption {
	return func(t *RedisTracker) {
		t.prefix = prefix
	}
}

func NewRedisTracker(client *redis.Client, opts ...RedisOption) *RedisTracker {
	tracker := &RedisTracker{client: client, prefix: defaultPrefix}

	for _, opt := range opts {
		opt(tracker)
	}

	return tracker
}

func (t *RedisTracker) Start(ctx context.Context, entityID, metric string, target time.Duration) (*Clock, error) {
	now := time.Now().UTC()
	clock := &Clock{
		EntityID:  entityID,
		Metric:    metric,
		StartedAt: now,
		Deadline:  now.Add(target),
	}

	if err := t.save(ctx, clock); err != nil {
		return nil, err
	}

	return clock, nil
}

func (t *RedisTracker) Stop(ctx context.Context, entityID, metric string) (*Clock, error) {
	clock, err := t.load(ctx, entityID, metric)
	if err != nil {
		return nil, err
	}

	key := t.clockKey(entityID, metric)
	pipe := t.client.Pipeline()
	pipe.Del(ctx, key)
	pipe.SRem(ctx, t.indexKey(), key)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("redis pipeline failed: %w", err)
	}

	return clock, nil
}

func (t *RedisTracker) Pause(ctx context.Context, entityID, metric string) (*Clock, error) {
	clock, err := t.load(ctx, entityID, metric)
	if err != nil {
		return nil, err
	}

	if clock.Paused() {
		return clock, nil
	}

	now := time.Now().UTC()
	clock.PausedAt = &now

	if err := t.save(ctx, clock); err != nil {
		return nil, err
	}

	return clock, nil
}

func (t *RedisTracker) Resume(ctx context.Context, entityID, metric string) (*Clock, error) {
	clock, err := t.load(ctx, entityID, metric)
	if err != nil {
		return nil, err
	}

	if !clock.Paused() {
		return clock, nil
	}

	paused := time.Now().UTC().Sub(*clock.PausedAt)
	clock.PausedTotal += paused
	clock.Deadline = clock.Deadline.Add(paused)
	clock.PausedAt = nil

	if err := t.save(ctx, clock); err != nil {
		return nil, err
	}

	return clock, nil
}

func (t *RedisTracker) Active(ctx context.Context) ([]*Clock, error) {
	keys, err := t.client.SMembers(ctx, t.indexKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, fmt.Errorf("redis smembers failed: %w", err)
	}

	if len(keys) == 0 {
		return nil, nil
	}

	values, err := t.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget failed: %w", err)
	}

	clocks := make([]*Clock, 0, len(values))

	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			// Clock expired or was stopped between SMEMBERS and MGET,
			// drop the stale index entry.
			t.client.SRem(ctx, t.indexKey(), keys[i])
			continue
		}

		var clock Clock
		if err := json.Unmarshal([]byte(raw), &clock); err != nil {
			return nil, fmt.Errorf("failed to decode sla clock: %w", err)
		}

		clocks = append(clocks, &clock)
	}

	return clocks, nil
}

func (t *RedisTracker) MarkBreached(ctx context.Context, entityID, metric string) error {
	clock, err := t.load(ctx, entityID, metric)
	if err != nil {
		return err
	}

	clock.Breached = true

	return t.save(ctx, clock)
}

func (t *RedisTracker) load(ctx context.Context, entityID, metric string) (*Clock, error) {
	data, err := t.client.Get(ctx, t.clockKey(entityID, metric)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrClockNotFound
		}

		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var clock Clock
	if err := json.Unmarshal(data, &clock); err != nil {
		return nil, fmt.Errorf("failed to decode sla clock: %w", err)
	}

	return &clock, nil
}

func (t *RedisTracker) save(ctx context.Context, clock *Clock) error {
	data, err := json.Marshal(clock)
	if err != nil {
		return fmt.Errorf("failed to encode sla clock: %w", err)
	}

	key := t.clockKey(clock.EntityID, clock.Metric)
	pipe := t.client.Pipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, t.indexKey(), key)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline failed: %w", err)
	}

	return nil
}

func (t *RedisTracker) clockKey(entityID, metric string) string {
	return fmt.Sprintf("%s:clock:%s:%s", t.prefix, entityID, metric)
}

func (t *RedisTracker) indexKey() string {
	return t.prefix + ":active"
}
