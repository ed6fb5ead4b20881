package fieldupdate

import (
	"context"

	"github.com/flowdeck/flowdeck/pkg/persistence"
	"github.com/flowdeck/flowdeck/pkg/protocol"
)

type PostFunctionFactory struct {
	entities persistence.EntityRepository
}

func NewPostFunctionFactory(entities persistence.EntityRepository) *PostFunctionFactory {
	return &PostFunctionFactory{entities: entities}
}

func (*PostFunctionFactory) ID() string {
	return "field_update"
}

func (*PostFunctionFactory) Name() string {
	return "Field Update"
}

func (*PostFunctionFactory) Description() string {
	return "Writes a value to one of the entity's fields after the transition commits."
}

func (f *PostFunctionFactory) Create(_ context.Context, config map[string]any) (protocol.PostFunction, error) {
	if config == nil {
		config = map[string]any{}
	}

	return NewPostFunction(config, f.entities)
}

func (f *PostFunctionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"field": map[string]any{
				"type":        "string",
				"description": "Name of the entity field to write",
				"examples":    []string{"resolved_at", "approved_at"},
			},
			"value": map[string]any{
				"description": "Value to write. Supports placeholders such as {{now}} and {{user.id}}.",
			},
		},
		"required": []string{"field", "value"},
	}
}
