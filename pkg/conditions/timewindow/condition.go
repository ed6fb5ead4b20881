// Package timewindow provides the time_window guard condition: the
// evaluation time must fall within a configured number of minutes of a
// scheduled timestamp on the entity.
package timewindow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/flowdeck/flowdeck/pkg/models"
)

type Condition struct {
	ScheduledField string
	WithinMinutes  float64
}

func NewCondition(config map[string]any) (*Condition, error) {
	field, _ := config["scheduled_field"].(string)
	if field == "" {
		field = "scheduled_at"
	}

	minutes, ok := asFloat(config["within_minutes_of_scheduled"])
	if !ok || minutes < 0 {
		return nil, errors.New("time_window condition requires a non-negative 'within_minutes_of_scheduled' value")
	}

	return &Condition{ScheduledField: field, WithinMinutes: minutes}, nil
}

func (c *Condition) Evaluate(_ context.Context, tctx models.TransitionContext, _ *slog.Logger) (bool, error) {
	raw, ok := tctx.EntityField(c.ScheduledField)
	if !ok {
		// No schedule on record means there is no window to be inside.
		return false, nil
	}

	scheduled, err := parseTime(raw)
	if err != nil {
		return false, fmt.Errorf("time_window condition field %q: %w", c.ScheduledField, err)
	}

	offset := tctx.Timestamp().Sub(scheduled)
	if offset < 0 {
		offset = -offset
	}

	return offset <= time.Duration(c.WithinMinutes*float64(time.Minute)), nil
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
