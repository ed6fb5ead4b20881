package createtasks

import (
	"context"

	"github.com/flowdeck/flowdeck/pkg/persistence"
	"github.com/flowdeck/flowdeck/pkg/protocol"
)

type PostFunctionFactory struct {
	tasks persistence.TaskRepository
}

func NewPostFunctionFactory(tasks persistence.TaskRepository) *PostFunctionFactory {
	return &PostFunctionFactory{tasks: tasks}
}

func (*PostFunctionFactory) ID() string {
	return "create_tasks"
}

func (*PostFunctionFactory) Name() string {
	return "Create Tasks"
}

func (*PostFunctionFactory) Description() string {
	return "Opens a checklist of follow-up tasks on the entity after the transition commits."
}

func (f *PostFunctionFactory) Create(_ context.Context, config map[string]any) (protocol.PostFunction, error) {
	if config == nil {
		config = map[string]any{}
	}

	return NewPostFunction(config, f.tasks)
}

func (f *PostFunctionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tasks": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Titles of the tasks to create, in order",
			},
		},
		"required": []string{"tasks"},
	}
}
