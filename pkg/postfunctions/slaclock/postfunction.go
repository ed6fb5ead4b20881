// Package slaclock implements the sla_start, sla_stop, sla_pause, and
// sla_resume post-functions against a shared SLA tracker.
package slaclock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/sla"
)

type operation string

const (
	opStart  operation = "start"
	opStop   operation = "stop"
	opPause  operation = "pause"
	opResume operation = "resume"
)

type PostFunction struct {
	op      operation
	metric  string
	tracker sla.Tracker
	targets sla.Targets
}

func newPostFunction(op operation, config map[string]any, tracker sla.Tracker, targets sla.Targets) (*PostFunction, error) {
	metric, _ := config["sla_metric"].(string)
	if metric == "" {
		return nil, fmt.Errorf("sla_%s post-function requires sla_metric", op)
	}

	return &PostFunction{
		op:      op,
		metric:  metric,
		tracker: tracker,
		targets: targets,
	}, nil
}

func (p *PostFunction) Execute(ctx context.Context, execCtx models.ExecutionContext, logger *slog.Logger) error {
	logger = logger.With("post_function", "sla_"+string(p.op), "sla_metric", p.metric)
	entityID := execCtx.Entity.ID

	var (
		clock *sla.Clock
		err   error
	)

	switch p.op {
	case opStart:
		clock, err = p.tracker.Start(ctx, entityID, p.metric, p.targets.For(p.metric))
	case opStop:
		clock, err = p.tracker.Stop(ctx, entityID, p.metric)
	case opPause:
		clock, err = p.tracker.Pause(ctx, entityID, p.metric)
	case opResume:
		clock, err = p.tracker.Resume(ctx, entityID, p.metric)
	}

	if err != nil {
		// A stop/pause/resume for a clock that never started is a template
		// smell, not a failure worth retrying.
		if errors.Is(err, sla.ErrClockNotFound) {
			logger.Warn("SLA clock not found, skipping")

			return nil
		}

		return fmt.Errorf("sla_%s failed for entity %s: %w", p.op, entityID, err)
	}

	logger.Info("SLA clock updated", "deadline", clock.Deadline)

	return nil
}
