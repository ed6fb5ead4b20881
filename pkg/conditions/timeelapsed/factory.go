package timeelapsed

import (
	"context"

	"github.com/flowdeck/flowdeck/pkg/protocol"
)

// ConditionFactory creates time_elapsed condition evaluators.
type ConditionFactory struct{}

func NewConditionFactory() *ConditionFactory {
	return &ConditionFactory{}
}

// ID returns the unique identifier for the condition factory.
func (*ConditionFactory) ID() string {
	return "time_elapsed"
}

// Name returns the name of the condition factory.
func (*ConditionFactory) Name() string {
	return "Time Elapsed"
}

// Description returns a brief description of the condition.
func (*ConditionFactory) Description() string {
	return "Passes once a minimum number of hours has elapsed since a timestamp field."
}

// Create creates a new time_elapsed condition bound to the configuration.
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
			"since": map[string]any{
				"type":        "string",
				"description": "Entity field holding the anchor timestamp",
				"examples":    []string{"resolved_at", "created_at"},
			},
			"hours": map[string]any{
				"type":        "number",
				"description": "Minimum hours that must have elapsed",
				"minimum":     0,
			},
		},
		"required": []string{"since", "hours"},
	}
}
