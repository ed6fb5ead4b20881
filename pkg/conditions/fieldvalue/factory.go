package fieldvalue

import (
	"context"

	"github.com/flowdeck/flowdeck/pkg/protocol"
)

// ConditionFactory creates field_value condition evaluators.
type ConditionFactory struct{}

func NewConditionFactory() *ConditionFactory {
	return &ConditionFactory{}
}

// ID returns the unique identifier for the condition factory.
func (*ConditionFactory) ID() string {
	return "field_value"
}

// Name returns the name of the condition factory.
func (*ConditionFactory) Name() string {
	return "Field Value"
}

// Description returns a brief description of the condition.
func (*ConditionFactory) Description() string {
	return "Compares an entity field against a configured value or value set."
}

// Create creates a new field_value condition bound to the configuration.
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
			"field": map[string]any{
				"type":        "string",
				"description": "Entity field to compare",
				"examples":    []string{"priority", "risk_level"},
			},
			"operator": map[string]any{
				"type":        "string",
				"description": "Comparison operator",
				"default":     OperatorEq,
				"enum":        []string{OperatorEq, OperatorNe, OperatorIn, OperatorNotIn, OperatorGt, OperatorGte, OperatorLt, OperatorLte},
			},
			"value": map[string]any{
				"description": "Expected value for scalar operators",
			},
			"values": map[string]any{
				"type":        "array",
				"description": "Accepted values for in/not_in",
			},
			"source": map[string]any{
				"type":        "string",
				"description": "Where to read the field from",
				"default":     "merged",
				"enum":        []string{"merged", "proposed", "entity"},
			},
		},
		"required": []string{"field"},
	}
}
