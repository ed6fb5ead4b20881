// Package worker executes post-functions out of band. It consumes
// EntityTransitioned events and runs each declared post-function in order,
// in a failure domain separate from the transition commit.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/flowdeck/flowdeck/pkg/events"
	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/otelhelper"
	"github.com/flowdeck/flowdeck/pkg/registry"
	"github.com/flowdeck/flowdeck/pkg/template"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Executor runs the post-functions of one committed transition. Config
// placeholders are expanded against the execution context before dispatch.
type Executor struct {
	registry *registry.Registry
	tracer   trace.Tracer
	logger   *slog.Logger
}

func NewExecutor(reg *registry.Registry, tracer trace.Tracer, logger *slog.Logger) *Executor {
	return &Executor{
		registry: reg,
		tracer:   tracer,
		logger:   logger.With("module", "postfunction_executor"),
	}
}

// Execute runs every post-function of the event in declared order. A
// failing post-function is logged and skipped; it never rolls back the
// committed transition and never blocks the remaining post-functions.
func (e *Executor) Execute(ctx context.Context, event *events.EntityTransitioned) error {
	execCtx := models.ExecutionContext{
		ID:           uuid.New().String(),
		TemplateID:   event.TemplateID,
		TransitionID: event.TransitionID,
		Entity:       event.Entity,
		User:         event.User,
		Proposed:     event.Proposed,
		CommittedAt:  event.Timestamp,
	}

	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "worker.execute_post_functions",
		attribute.String(otelhelper.TemplateIDKey, event.TemplateID),
		attribute.String(otelhelper.TransitionIDKey, event.TransitionID),
		attribute.String(otelhelper.EntityIDKey, event.EntityID),
		attribute.String(otelhelper.ExecutionIDKey, execCtx.ID),
	)
	defer span.End()

	logger := e.logger.With(
		"entity_id", event.EntityID,
		"transition_id", event.TransitionID,
		"execution_id", execCtx.ID,
	)

	for _, pf := range event.PostFunctions {
		e.executeOne(ctx, pf, execCtx, logger)
	}

	return nil
}

func (e *Executor) executeOne(ctx context.Context, pf models.PostFunction, execCtx models.ExecutionContext, logger *slog.Logger) {
	logger = logger.With("post_function_type", pf.Type)

	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "worker.post_function",
		attribute.String(otelhelper.PostFunctionTypeKey, pf.Type),
		attribute.String(otelhelper.EntityIDKey, execCtx.Entity.ID),
	)
	defer span.End()

	started := time.Now()

	config := template.ExpandConfig(pf.Config, execCtx)

	executor, err := e.registry.CreatePostFunction(ctx, pf.Type, config)
	if err != nil {
		otelhelper.SetError(span, err)
		logger.Error("Failed to create post-function executor", "error", err)

		return
	}

	if err := executor.Execute(ctx, execCtx, logger); err != nil {
		otelhelper.SetError(span, err)
		logger.Error("Post-function execution failed", "error", err)

		return
	}

	logger.Debug("Post-function executed", "duration", time.Since(started).String())
}
