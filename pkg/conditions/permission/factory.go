package permission

import (
	"context"

	"github.com/flowdeck/flowdeck/pkg/protocol"
)

// ConditionFactory creates permission condition evaluators.
type ConditionFactory struct{}

func NewConditionFactory() *ConditionFactory {
	return &ConditionFactory{}
}

// ID returns the unique identifier for the condition factory.
func (*ConditionFactory) ID() string {
	return "permission"
}

// Name returns the name of the condition factory.
func (*ConditionFactory) Name() string {
	return "Permission"
}

// Description returns a brief description of the condition.
func (*ConditionFactory) Description() string {
	return "Passes when the requesting user holds the named permission or role."
}

// Create creates a new permission condition bound to the configuration.
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
			"required": map[string]any{
				"type":        "string",
				"description": "Permission or role the requesting user must hold",
				"examples":    []string{"agent", "change_manager", "cab_member"},
			},
		},
		"required": []string{"required"},
	}
}
