package requiredfield

import (
	"context"

	"github.com/flowdeck/flowdeck/pkg/protocol"
)

// ValidatorFactory creates required_field validators.
type ValidatorFactory struct{}

func NewValidatorFactory() *ValidatorFactory {
	return &ValidatorFactory{}
}

// ID returns the unique identifier for the validator factory.
func (*ValidatorFactory) ID() string {
	return "required_field"
}

// Name returns the name of the validator factory.
func (*ValidatorFactory) Name() string {
	return "Required Field"
}

// Description returns a brief description of the validator.
func (*ValidatorFactory) Description() string {
	return "Fails when a named field is absent or empty in the proposed entity state."
}

// Create creates a new required_field validator bound to the configuration
// and its user-facing failure message.
func (f *ValidatorFactory) Create(_ context.Context, config map[string]any, message string) (protocol.FieldValidator, error) {
	if config == nil {
		config = map[string]any{}
	}

	return NewValidator(config, message)
}

// Schema returns the JSON schema for the validator configuration.
func (f *ValidatorFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"field": map[string]any{
				"type":        "string",
				"description": "Field that must be present and non-empty",
				"examples":    []string{"resolution", "escalation_reason"},
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
