package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/flowdeck/flowdeck/pkg/eventbus"
	"github.com/flowdeck/flowdeck/pkg/events"
	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/otelhelper"
	"github.com/flowdeck/flowdeck/pkg/persistence"
	"github.com/flowdeck/flowdeck/pkg/registry"
	"github.com/flowdeck/flowdeck/pkg/workflow"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Transition applies workflow transitions end to end: engine evaluation,
// the guarded status commit, and publication of the transition event that
// drives post-function execution.
type Transition struct {
	registry    *registry.Registry
	engine      *workflow.Engine
	persistence persistence.Persistence
	publisher   eventbus.EventPublisher
	tracer      trace.Tracer
	logger      *slog.Logger
}

func NewTransition(
	reg *registry.Registry,
	engine *workflow.Engine,
	persistence persistence.Persistence,
	publisher eventbus.EventPublisher,
	tracer trace.Tracer,
	logger *slog.Logger,
) *Transition {
	return &Transition{
		registry:    reg,
		engine:      engine,
		persistence: persistence,
		publisher:   publisher,
		tracer:      tracer,
		logger:      logger.With("module", "transition_service"),
	}
}

// AvailableTransitions returns the transitions declared from the entity's
// current status, in template declaration order. Conditions are not
// evaluated; an ineligible transition still appears here and fails at apply
// time with ConditionNotMet.
func (s *Transition) AvailableTransitions(ctx context.Context, entityID string) ([]models.Transition, error) {
	entity, err := s.persistence.EntityRepository().GetByID(ctx, entityID)
	if err != nil {
		return nil, err
	}

	template, ok := s.registry.GetTemplate(entity.TemplateID)
	if !ok {
		return nil, &ServiceError{Op: "AvailableTransitions", Err: ErrTemplateNotFound}
	}

	return workflow.AvailableTransitions(template, entity.Status), nil
}

// ApplyTransitionRequest identifies the transition to apply and carries the
// submitted field values and the acting user.
type ApplyTransitionRequest struct {
	EntityID     string
	TransitionID string
	User         models.User
	Proposed     map[string]any
}

// ApplyTransitionResponse is the committed outcome.
type ApplyTransitionResponse struct {
	Entity        *models.Entity        `json:"entity"`
	Transition    models.Transition     `json:"transition"`
	PostFunctions []models.PostFunction `json:"post_functions"`
}

// ApplyTransition runs the full transition algorithm against the stored
// entity. The status write is guarded by the status the engine evaluated
// against, so two racing transitions cannot both commit; the loser gets
// ErrStaleEntityStatus. Post-functions run out of band in the worker; their
// failures never roll back the commit.
func (s *Transition) ApplyTransition(ctx context.Context, req ApplyTransitionRequest) (*ApplyTransitionResponse, error) {
	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "transition.apply",
		attribute.String(otelhelper.EntityIDKey, req.EntityID),
		attribute.String(otelhelper.TransitionIDKey, req.TransitionID),
		attribute.String(otelhelper.UserIDKey, req.User.ID),
	)
	defer span.End()

	entity, err := s.persistence.EntityRepository().GetByID(ctx, req.EntityID)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	template, ok := s.registry.GetTemplate(entity.TemplateID)
	if !ok {
		err := &ServiceError{Op: "ApplyTransition", Err: ErrTemplateNotFound}
		otelhelper.SetError(span, err)

		return nil, err
	}

	span.SetAttributes(attribute.String(otelhelper.TemplateIDKey, template.ID))

	tctx := models.TransitionContext{
		User:     req.User,
		Entity:   entity,
		Proposed: req.Proposed,
	}

	fromStatus := entity.Status

	result, err := s.engine.ApplyTransition(ctx, template, entity, req.TransitionID, tctx)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	committed, err := s.persistence.EntityRepository().CommitTransition(
		ctx, entity.ID, fromStatus, result.Transition.ToStatus, req.Proposed,
	)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	s.logger.Info("Transition committed",
		"entity_id", committed.ID,
		"template_id", template.ID,
		"transition_id", result.Transition.ID,
		"from_status", fromStatus,
		"to_status", committed.Status,
	)

	if err := s.publishTransitioned(ctx, template, committed, fromStatus, result, req); err != nil {
		// The commit stands; the event is the casualty. Surfacing this as a
		// failure would make the caller retry an already-applied transition.
		s.logger.Error("Failed to publish transition event",
			"entity_id", committed.ID, "transition_id", result.Transition.ID, "error", err)
	}

	return &ApplyTransitionResponse{
		Entity:        committed,
		Transition:    result.Transition,
		PostFunctions: result.PostFunctions,
	}, nil
}

func (s *Transition) publishTransitioned(
	ctx context.Context,
	template *models.WorkflowTemplate,
	entity *models.Entity,
	fromStatus string,
	result *workflow.ApplyResult,
	req ApplyTransitionRequest,
) error {
	event := events.EntityTransitioned{
		BaseEvent: events.BaseEvent{
			ID:        uuid.New().String(),
			Type:      events.EntityTransitionedEvent,
			Timestamp: time.Now().UTC(),
			EntityID:  entity.ID,
		},
		TemplateID:    template.ID,
		TransitionID:  result.Transition.ID,
		FromStatus:    fromStatus,
		ToStatus:      entity.Status,
		Entity:        entity,
		User:          req.User,
		Proposed:      req.Proposed,
		PostFunctions: result.PostFunctions,
	}

	if err := s.publisher.Publish(ctx, entity.ID, event); err != nil {
		return fmt.Errorf("failed to publish entity transition: %w", err)
	}

	return nil
}
