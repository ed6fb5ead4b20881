package requester

import (
	"context"

	"github.com/flowdeck/flowdeck/pkg/protocol"
)

// ConditionFactory creates user_is_requester condition evaluators.
type ConditionFactory struct{}

func NewConditionFactory() *ConditionFactory {
	return &ConditionFactory{}
}

// ID returns the unique identifier for the condition factory.
func (*ConditionFactory) ID() string {
	return "user_is_requester"
}

// Name returns the name of the condition factory.
func (*ConditionFactory) Name() string {
	return "User Is Requester"
}

// Description returns a brief description of the condition.
func (*ConditionFactory) Description() string {
	return "Passes when the requesting user is the entity's requester."
}

// Create creates a new user_is_requester condition.
func (f *ConditionFactory) Create(_ context.Context, config map[string]any) (protocol.Condition, error) {
	return NewCondition(config), nil
}

// Schema returns the JSON schema for the condition configuration.
func (f *ConditionFactory) Schema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}
