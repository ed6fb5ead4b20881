package cmd

import (
	"fmt"
	"log/slog"

	"github.com/flowdeck/flowdeck/pkg/sla"
	"github.com/redis/go-redis/v9"
)

// NewSLATracker selects the SLA clock store. An empty Redis URL falls back
// to the in-process tracker, which is fine for single-node setups but loses
// clocks on restart.
func NewSLATracker(logger *slog.Logger, redisURL string) sla.Tracker {
	if redisURL == "" {
		logger.Warn("No Redis URL configured, SLA clocks are in-memory only")

		return sla.NewMemoryTracker()
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		panic(fmt.Errorf("invalid redis URL: %w", err))
	}

	return sla.NewRedisTracker(redis.NewClient(opts))
}
