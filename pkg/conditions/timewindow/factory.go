package timewindow

import (
	"context"

	"github.com/flowdeck/flowdeck/pkg/protocol"
)

// ConditionFactory creates time_window condition evaluators.
type ConditionFactory struct{}

func NewConditionFactory() *ConditionFactory {
	return &ConditionFactory{}
}

// ID returns the unique identifier for the condition factory.
func (*ConditionFactory) ID() string {
	return "time_window"
}

// Name returns the name of the condition factory.
func (*ConditionFactory) Name() string {
	return "Time Window"
}

// Description returns a brief description of the condition.
func (*ConditionFactory) Description() string {
	return "Passes while the current time is within a configured window around a scheduled timestamp."
}

// Create creates a new time_window condition bound to the configuration.
func (f *ConditionFactory) Create(_ context.Context, config map[string]any) (protocol.Condition, error) {
	if config == nil {
		config = map[string]any{}
	}

	return NewCondition(config)
}

// Schema returns the JSON schema for the condition configuration.
func (f *ConditionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"scheduled_field": map[string]any{
				"type":        "string",
				"description": "Entity field holding the scheduled timestamp",
				"default":     "scheduled_at",
			},
			"within_minutes_of_scheduled": map[string]any{
				"type":        "number",
				"description": "Half-width of the window in minutes",
				"minimum":     0,
			},
		},
		"required": []string{"within_minutes_of_scheduled"},
	}
}
