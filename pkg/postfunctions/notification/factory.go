package notification

import (
	"context"

	"github.com/flowdeck/flowdeck/pkg/eventbus"
	"github.com/flowdeck/flowdeck/pkg/protocol"
)

// PostFunctionFactory creates notification executors bound to a publisher.
type PostFunctionFactory struct {
	publisher eventbus.EventPublisher
}

func NewPostFunctionFactory(publisher eventbus.EventPublisher) *PostFunctionFactory {
	return &PostFunctionFactory{publisher: publisher}
}

// ID returns the unique identifier for the post-function factory.
func (*PostFunctionFactory) ID() string {
	return "notification"
}

// Name returns the name of the post-function factory.
func (*PostFunctionFactory) Name() string {
	return "Notification"
}

// Description returns a brief description of the post-function.
func (*PostFunctionFactory) Description() string {
	return "Requests delivery of a message to a target audience after a transition commits."
}

// Create creates a new notification executor bound to the configuration.
func (f *PostFunctionFactory) Create(_ context.Context, config map[string]any) (protocol.PostFunction, error) {
	if config == nil {
		config = map[string]any{}
	}

	return NewPostFunction(config, f.publisher)
}

// Schema returns the JSON schema for the post-function configuration.
func (f *PostFunctionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"target": map[string]any{
				"type":        "string",
				"description": "Audience to notify",
				"examples":    []string{"requester", "assignee", "on_call", "cab"},
			},
			"template": map[string]any{
				"type":        "string",
				"description": "Host-application notification template name",
			},
			"message": map[string]any{
				"type":        "string",
				"description": "Message body. Supports placeholders such as {{entity.title}} and {{user.name}}.",
			},
		},
		"required": []string{"target"},
	}
}
