package slaclock

import (
	"context"

	"github.com/flowdeck/flowdeck/pkg/protocol"
	"github.com/flowdeck/flowdeck/pkg/sla"
)

// PostFunctionFactory creates one of the four SLA clock executors. The
// factory's ID carries the operation (sla_start, sla_stop, sla_pause,
// sla_resume).
type PostFunctionFactory struct {
	op          operation
	name        string
	description string
	tracker     sla.Tracker
	targets     sla.Targets
}

func NewStartFactory(tracker sla.Tracker, targets sla.Targets) *PostFunctionFactory {
	return &PostFunctionFactory{
		op:          opStart,
		name:        "Start SLA Clock",
		description: "Starts an SLA clock for the configured metric with its target deadline.",
		tracker:     tracker,
		targets:     targets,
	}
}

func NewStopFactory(tracker sla.Tracker, targets sla.Targets) *PostFunctionFactory {
	return &PostFunctionFactory{
		op:          opStop,
		name:        "Stop SLA Clock",
		description: "Stops and clears the SLA clock for the configured metric.",
		tracker:     tracker,
		targets:     targets,
	}
}

func NewPauseFactory(tracker sla.Tracker, targets sla.Targets) *PostFunctionFactory {
	return &PostFunctionFactory{
		op:          opPause,
		name:        "Pause SLA Clock",
		description: "Pauses the SLA clock for the configured metric until it is resumed.",
		tracker:     tracker,
		targets:     targets,
	}
}

func NewResumeFactory(tracker sla.Tracker, targets sla.Targets) *PostFunctionFactory {
	return &PostFunctionFactory{
		op:          opResume,
		name:        "Resume SLA Clock",
		description: "Resumes a paused SLA clock and extends its deadline by the paused duration.",
		tracker:     tracker,
		targets:     targets,
	}
}

func (f *PostFunctionFactory) ID() string {
	return "sla_" + string(f.op)
}

func (f *PostFunctionFactory) Name() string {
	return f.name
}

func (f *PostFunctionFactory) Description() string {
	return f.description
}

func (f *PostFunctionFactory) Create(_ context.Context, config map[string]any) (protocol.PostFunction, error) {
	if config == nil {
		config = map[string]any{}
	}

	return newPostFunction(f.op, config, f.tracker, f.targets)
}

func (f *PostFunctionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"sla_metric": map[string]any{
				"type":        "string",
				"description": "Metric whose clock to operate on",
				"examples":    []string{"response_time", "resolution_time", "fulfillment_time"},
			},
		},
		"required": []string{"sla_metric"},
	}
}
