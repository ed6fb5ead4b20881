package timewindow

import (
	"log/slog"
	"testing"
	"time"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCondition(t *testing.T) {
	t.Parallel()

	_, err := NewCondition(map[string]any{})
	require.Error(t, err, "the window size is mandatory")

	cond, err := NewCondition(map[string]any{"within_minutes_of_scheduled": 60})
	require.NoError(t, err)
	assert.Equal(t, "scheduled_at", cond.ScheduledField, "field defaults to scheduled_at")

	cond, err = NewCondition(map[string]any{
		"scheduled_field":             "maintenance_window",
		"within_minutes_of_scheduled": 30,
	})
	require.NoError(t, err)
	assert.Equal(t, "maintenance_window", cond.ScheduledField)
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC)

	cond, err := NewCondition(map[string]any{"within_minutes_of_scheduled": 60})
	require.NoError(t, err)

	tests := []struct {
		name      string
		scheduled any
		want      bool
	}{
		{"inside window, before scheduled", now.Add(30 * time.Minute).Format(time.RFC3339), true},
		{"inside window, after scheduled", now.Add(-45 * time.Minute).Format(time.RFC3339), true},
		{"at the edge", now.Add(-60 * time.Minute).Format(time.RFC3339), true},
		{"too early", now.Add(90 * time.Minute).Format(time.RFC3339), false},
		{"too late", now.Add(-2 * time.Hour).Format(time.RFC3339), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tctx := models.TransitionContext{
				Entity: &models.Entity{ID: "e", Fields: map[string]any{"scheduled_at": tt.scheduled}},
				Now:    now,
			}

			got, err := cond.Evaluate(t.Context(), tctx, slog.Default())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_NoSchedule(t *testing.T) {
	t.Parallel()

	cond, err := NewCondition(map[string]any{"within_minutes_of_scheduled": 60})
	require.NoError(t, err)

	tctx := models.TransitionContext{Entity: &models.Entity{ID: "e"}}

	got, err := cond.Evaluate(t.Context(), tctx, slog.Default())
	require.NoError(t, err)
	assert.False(t, got)
}
