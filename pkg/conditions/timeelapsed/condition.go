// Package timeelapsed provides the time_elapsed guard condition: a minimum
// number of hours must have passed since a timestamp field on the entity.
package timeelapsed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/flowdeck/flowdeck/pkg/models"
)

type Condition struct {
	Since string
	Hours float64
}

func NewCondition(config map[string]any) (*Condition, error) {
	since, _ := config["since"].(string)
	if since == "" {
		return nil, errors.New("time_elapsed condition requires a 'since' field name")
	}

	hours, ok := asFloat(config["hours"])
	if !ok || hours < 0 {
		return nil, errors.New("time_elapsed condition requires a non-negative 'hours' value")
	}

	return &Condition{Since: since, Hours: hours}, nil
}

func (c *Condition) Evaluate(_ context.Context, tctx models.TransitionContext, _ *slog.Logger) (bool, error) {
	raw, ok := tctx.EntityField(c.Since)
	if !ok {
		// A missing anchor timestamp means the clock never started.
		return false, nil
	}

	since, err := parseTime(raw)
	if err != nil {
		return false, fmt.Errorf("time_elapsed condition field %q: %w", c.Since, err)
	}

	elapsed := tctx.Timestamp().Sub(since)

	return elapsed >= time.Duration(c.Hours*float64(time.Hour)), nil
}

func parseTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return time.Time{}, fmt.Errorf("cannot parse %q as RFC 3339 timestamp: %w", t, err)
		}

		return parsed, nil
	default:
		return time.Time{}, fmt.Errorf("cannot interpret %T as timestamp", v)
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
