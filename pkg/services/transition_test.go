package services_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/flowdeck/flowdeck/pkg/catalog"
	"github.com/flowdeck/flowdeck/pkg/conditions/fieldvalue"
	"github.com/flowdeck/flowdeck/pkg/conditions/permission"
	"github.com/flowdeck/flowdeck/pkg/conditions/requester"
	"github.com/flowdeck/flowdeck/pkg/conditions/timeelapsed"
	"github.com/flowdeck/flowdeck/pkg/conditions/timewindow"
	"github.com/flowdeck/flowdeck/pkg/eventbus"
	"github.com/flowdeck/flowdeck/pkg/events"
	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/persistence"
	"github.com/flowdeck/flowdeck/pkg/persistence/file"
	"github.com/flowdeck/flowdeck/pkg/registry"
	"github.com/flowdeck/flowdeck/pkg/services"
	"github.com/flowdeck/flowdeck/pkg/validators/requiredfield"
	"github.com/flowdeck/flowdeck/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

type capturingPublisher struct {
	events []eventbus.Event
}

func (p *capturingPublisher) Publish(_ context.Context, _ string, event eventbus.Event) error {
	p.events = append(p.events, event)

	return nil
}

type transitionFixture struct {
	persistence persistence.Persistence
	entities    *services.Entity
	transitions *services.Transition
	publisher   *capturingPublisher
}

func setupTransitionService(t *testing.T) *transitionFixture {
	t.Helper()

	logger := slog.Default()

	reg := registry.NewRegistry(logger)
	reg.RegisterCondition(permission.NewConditionFactory())
	reg.RegisterCondition(fieldvalue.NewConditionFactory())
	reg.RegisterCondition(timeelapsed.NewConditionFactory())
	reg.RegisterCondition(timewindow.NewConditionFactory())
	reg.RegisterCondition(requester.NewConditionFactory())
	reg.RegisterValidator(requiredfield.NewValidatorFactory())
	require.NoError(t, catalog.Register(reg))

	p := file.NewPersistence(t.TempDir())
	publisher := &capturingPublisher{}
	engine := workflow.NewEngine(reg, logger)

	return &transitionFixture{
		persistence: p,
		entities:    services.NewEntity(p, reg),
		transitions: services.NewTransition(reg, engine, p, publisher, otel.Tracer("test"), logger),
		publisher:   publisher,
	}
}

func createTicket(t *testing.T, fx *transitionFixture) *models.Entity {
	t.Helper()

	entity, err := fx.entities.CreateEntity(t.Context(), services.CreateEntityRequest{
		TemplateID:  "template-ticket-simple",
		Title:       "Printer on fire",
		RequesterID: "user-9",
	})
	require.NoError(t, err)
	assert.Equal(t, "open", entity.Status, "new entities start in the template's initial status")

	return entity
}

func agentUser() models.User {
	return models.User{ID: "agent-1", DisplayName: "Dana", Permissions: []string{"agent"}}
}

func TestApplyTransition_EndToEnd(t *testing.T) {
	t.Parallel()

	fx := setupTransitionService(t)
	entity := createTicket(t, fx)

	resp, err := fx.transitions.ApplyTransition(t.Context(), services.ApplyTransitionRequest{
		EntityID:     entity.ID,
		TransitionID: "start",
		User:         agentUser(),
	})
	require.NoError(t, err)
	assert.Equal(t, "in_progress", resp.Entity.Status)
	assert.Equal(t, "start", resp.Transition.ID)
	assert.NotEmpty(t, resp.PostFunctions)

	stored, err := fx.persistence.EntityRepository().GetByID(t.Context(), entity.ID)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", stored.Status)

	require.Len(t, fx.publisher.events, 1)

	transitioned, ok := fx.publisher.events[0].(events.EntityTransitioned)
	require.True(t, ok)
	assert.Equal(t, "open", transitioned.FromStatus)
	assert.Equal(t, "in_progress", transitioned.ToStatus)
	assert.Equal(t, "template-ticket-simple", transitioned.TemplateID)
	assert.NotEmpty(t, transitioned.ID)
	assert.Len(t, transitioned.PostFunctions, 3)
}

func TestApplyTransition_ProposedFieldsCommitWithStatus(t *testing.T) {
	t.Parallel()

	fx := setupTransitionService(t)
	entity := createTicket(t, fx)

	_, err := fx.transitions.ApplyTransition(t.Context(), services.ApplyTransitionRequest{
		EntityID:     entity.ID,
		TransitionID: "start",
		User:         agentUser(),
	})
	require.NoError(t, err)

	resp, err := fx.transitions.ApplyTransition(t.Context(), services.ApplyTransitionRequest{
		EntityID:     entity.ID,
		TransitionID: "resolve",
		User:         agentUser(),
		Proposed:     map[string]any{"resolution": "replaced the fuser"},
	})
	require.NoError(t, err)
	assert.Equal(t, "resolved", resp.Entity.Status)

	stored, err := fx.persistence.EntityRepository().GetByID(t.Context(), entity.ID)
	require.NoError(t, err)
	assert.Equal(t, "replaced the fuser", stored.Fields["resolution"])
}

func TestApplyTransition_ValidationFailureLeavesEntityUntouched(t *testing.T) {
	t.Parallel()

	fx := setupTransitionService(t)
	entity := createTicket(t, fx)

	_, err := fx.transitions.ApplyTransition(t.Context(), services.ApplyTransitionRequest{
		EntityID:     entity.ID,
		TransitionID: "start",
		User:         agentUser(),
	})
	require.NoError(t, err)

	fx.publisher.events = nil

	_, err = fx.transitions.ApplyTransition(t.Context(), services.ApplyTransitionRequest{
		EntityID:     entity.ID,
		TransitionID: "resolve",
		User:         agentUser(),
	})
	require.Error(t, err)
	assert.True(t, workflow.IsValidationFailed(err))

	var validationErr *workflow.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Resolution is required", validationErr.Failures[0].Message)

	stored, err := fx.persistence.EntityRepository().GetByID(t.Context(), entity.ID)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", stored.Status)
	assert.Empty(t, fx.publisher.events, "nothing is published for a rejected transition")
}

func TestApplyTransition_RepeatApplyIsConflict(t *testing.T) {
	t.Parallel()

	fx := setupTransitionService(t)
	entity := createTicket(t, fx)

	_, err := fx.transitions.ApplyTransition(t.Context(), services.ApplyTransitionRequest{
		EntityID:     entity.ID,
		TransitionID: "start",
		User:         agentUser(),
	})
	require.NoError(t, err)

	// The entity already left "open"; re-applying start must fail.
	_, err = fx.transitions.ApplyTransition(t.Context(), services.ApplyTransitionRequest{
		EntityID:     entity.ID,
		TransitionID: "start",
		User:         agentUser(),
	})
	require.Error(t, err)
	assert.True(t, services.IsConflict(err))
}

func TestApplyTransition_UnknownEntityAndTransition(t *testing.T) {
	t.Parallel()

	fx := setupTransitionService(t)
	entity := createTicket(t, fx)

	_, err := fx.transitions.ApplyTransition(t.Context(), services.ApplyTransitionRequest{
		EntityID:     "ghost",
		TransitionID: "start",
		User:         agentUser(),
	})
	require.Error(t, err)
	assert.True(t, services.IsNotFound(err))

	_, err = fx.transitions.ApplyTransition(t.Context(), services.ApplyTransitionRequest{
		EntityID:     entity.ID,
		TransitionID: "does-not-exist",
		User:         agentUser(),
	})
	require.Error(t, err)
	assert.True(t, services.IsNotFound(err))
}

func TestApplyTransition_ConditionBlocked(t *testing.T) {
	t.Parallel()

	fx := setupTransitionService(t)
	entity := createTicket(t, fx)

	// No agent permission.
	_, err := fx.transitions.ApplyTransition(t.Context(), services.ApplyTransitionRequest{
		EntityID:     entity.ID,
		TransitionID: "start",
		User:         models.User{ID: "user-9"},
	})
	require.Error(t, err)
	assert.True(t, workflow.IsConditionNotMet(err))
}

func TestAvailableTransitions(t *testing.T) {
	t.Parallel()

	fx := setupTransitionService(t)
	entity := createTicket(t, fx)

	available, err := fx.transitions.AvailableTransitions(t.Context(), entity.ID)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "start", available[0].ID)

	_, err = fx.transitions.AvailableTransitions(t.Context(), "ghost")
	require.Error(t, err)
	assert.True(t, services.IsNotFound(err))
}
