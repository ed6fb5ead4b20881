package survey

import (
	"context"

	"github.com/flowdeck/flowdeck/pkg/eventbus"
	"github.com/flowdeck/flowdeck/pkg/protocol"
)

type PostFunctionFactory struct {
	publisher eventbus.EventPublisher
}

func NewPostFunctionFactory(publisher eventbus.EventPublisher) *PostFunctionFactory {
	return &PostFunctionFactory{publisher: publisher}
}

func (*PostFunctionFactory) ID() string {
	return "satisfaction_survey"
}

func (*PostFunctionFactory) Name() string {
	return "Satisfaction Survey"
}

func (*PostFunctionFactory) Description() string {
	return "Requests a satisfaction survey for the entity's requester, optionally delayed."
}

func (f *PostFunctionFactory) Create(_ context.Context, config map[string]any) (protocol.PostFunction, error) {
	if config == nil {
		config = map[string]any{}
	}

	return NewPostFunction(config, f.publisher)
}

func (f *PostFunctionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"recipient": map[string]any{
				"type":        "string",
				"description": "User to survey. Defaults to the entity's requester.",
			},
			"delay_hours": map[string]any{
				"type":        "integer",
				"description": "Hours to wait before sending the survey",
				"default":     0,
			},
		},
	}
}
