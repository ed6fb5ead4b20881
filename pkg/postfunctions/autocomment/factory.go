package autocomment

import (
	"context"

	"github.com/flowdeck/flowdeck/pkg/persistence"
	"github.com/flowdeck/flowdeck/pkg/protocol"
)

type PostFunctionFactory struct {
	comments persistence.CommentRepository
}

func NewPostFunctionFactory(comments persistence.CommentRepository) *PostFunctionFactory {
	return &PostFunctionFactory{comments: comments}
}

func (*PostFunctionFactory) ID() string {
	return "auto_comment"
}

func (*PostFunctionFactory) Name() string {
	return "Auto Comment"
}

func (*PostFunctionFactory) Description() string {
	return "Adds a system comment to the entity's timeline after the transition commits."
}

func (f *PostFunctionFactory) Create(_ context.Context, config map[string]any) (protocol.PostFunction, error) {
	if config == nil {
		config = map[string]any{}
	}

	return NewPostFunction(config, f.comments)
}

func (f *PostFunctionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"body": map[string]any{
				"type":        "string",
				"description": "Comment body. Supports placeholders such as {{user.name}} and {{context.<field>}}.",
			},
		},
		"required": []string{"body"},
	}
}
