package template

import (
	"testing"
	"time"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testExecContext() models.ExecutionContext {
	return models.ExecutionContext{
		ID:           "exec-1",
		TemplateID:   "template-ticket-simple",
		TransitionID: "resolve",
		Entity: &models.Entity{
			ID:          "ticket-42",
			Status:      "resolved",
			Title:       "Printer on fire",
			RequesterID: "user-9",
			AssigneeID:  "agent-1",
			Fields: map[string]any{
				"priority": "high",
				"attempts": float64(3),
			},
		},
		User: models.User{
			ID:          "agent-1",
			DisplayName: "Dana",
		},
		Proposed: map[string]any{
			"resolution": "replaced the fuser",
		},
		CommittedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestExpand(t *testing.T) {
	t.Parallel()

	execCtx := testExecContext()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"now", "at {{now}}", "at 2026-03-10T12:00:00Z"},
		{"user id", "{{user.id}}", "agent-1"},
		{"user name", "by {{user.name}}", "by Dana"},
		{"user display_name alias", "by {{user.display_name}}", "by Dana"},
		{"entity id", "{{entity.id}}", "ticket-42"},
		{"entity status", "{{entity.status}}", "resolved"},
		{"entity title", "{{entity.title}}", "Printer on fire"},
		{"entity requester", "{{entity.requester_id}}", "user-9"},
		{"entity custom field", "priority={{entity.priority}}", "priority=high"},
		{"entity numeric field", "attempts={{entity.attempts}}", "attempts=3"},
		{"context proposed", "{{context.resolution}}", "replaced the fuser"},
		{"context falls back to entity", "{{context.priority}}", "high"},
		{"whitespace inside braces", "{{ user.id }}", "agent-1"},
		{"unknown placeholder left intact", "{{does.not.exist}}", "{{does.not.exist}}"},
		{"unknown entity attr left intact", "{{entity.nope}}", "{{entity.nope}}"},
		{"multiple placeholders", "{{user.name}} resolved {{entity.title}}", "Dana resolved Printer on fire"},
		{"no placeholders", "plain text", "plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Expand(tt.input, execCtx))
		})
	}
}

func TestExpand_NowFallsBackToWallClock(t *testing.T) {
	t.Parallel()

	execCtx := testExecContext()
	execCtx.CommittedAt = time.Time{}

	before := time.Now().UTC().Add(-time.Second)
	got := Expand("{{now}}", execCtx)

	parsed, err := time.Parse(time.RFC3339, got)
	require.NoError(t, err)
	assert.True(t, parsed.After(before))
}

func TestExpandConfig(t *testing.T) {
	t.Parallel()

	execCtx := testExecContext()

	config := map[string]any{
		"field": "resolved_at",
		"value": "{{now}}",
		"nested": map[string]any{
			"message": "Resolved by {{user.name}}",
		},
		"tasks": []any{"Notify {{entity.requester_id}}", 7},
	}

	expanded := ExpandConfig(config, execCtx)

	assert.Equal(t, "resolved_at", expanded["field"])
	assert.Equal(t, "2026-03-10T12:00:00Z", expanded["value"])

	nested, ok := expanded["nested"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Resolved by Dana", nested["message"])

	tasks, ok := expanded["tasks"].([]any)
	require.True(t, ok)
	assert.Equal(t, "Notify user-9", tasks[0])
	assert.Equal(t, 7, tasks[1])

	// The original config must be untouched.
	assert.Equal(t, "{{now}}", config["value"])
	assert.Equal(t, "Resolved by {{user.name}}", config["nested"].(map[string]any)["message"])
}

func TestExpandConfig_Nil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ExpandConfig(nil, testExecContext()))
}
