package workflow_test

import (
	"log/slog"
	"testing"

	"github.com/flowdeck/flowdeck/pkg/catalog"
	"github.com/flowdeck/flowdeck/pkg/conditions/fieldvalue"
	"github.com/flowdeck/flowdeck/pkg/conditions/permission"
	"github.com/flowdeck/flowdeck/pkg/conditions/requester"
	"github.com/flowdeck/flowdeck/pkg/conditions/timeelapsed"
	"github.com/flowdeck/flowdeck/pkg/conditions/timewindow"
	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/registry"
	"github.com/flowdeck/flowdeck/pkg/validators/requiredfield"
	"github.com/flowdeck/flowdeck/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()

	reg := registry.NewRegistry(slog.Default())
	reg.RegisterCondition(permission.NewConditionFactory())
	reg.RegisterCondition(fieldvalue.NewConditionFactory())
	reg.RegisterCondition(timeelapsed.NewConditionFactory())
	reg.RegisterCondition(timewindow.NewConditionFactory())
	reg.RegisterCondition(requester.NewConditionFactory())
	reg.RegisterValidator(requiredfield.NewValidatorFactory())

	require.NoError(t, catalog.Register(reg))

	return reg
}

func newTestEngine(t *testing.T) (*workflow.Engine, *registry.Registry) {
	t.Helper()

	reg := newTestRegistry(t)

	return workflow.NewEngine(reg, slog.Default()), reg
}

func ticketInProgress() *models.Entity {
	return &models.Entity{
		ID:          "ticket-1",
		TemplateID:  "template-ticket-simple",
		Status:      "in_progress",
		Title:       "Printer on fire",
		RequesterID: "user-9",
		Fields:      map[string]any{},
	}
}

func agent() models.User {
	return models.User{
		ID:          "agent-1",
		DisplayName: "Dana",
		Permissions: []string{"agent"},
	}
}

func TestApplyTransition_ResolveRequiresResolution(t *testing.T) {
	engine, reg := newTestEngine(t)

	template, ok := reg.GetTemplate("template-ticket-simple")
	require.True(t, ok)

	entity := ticketInProgress()
	tctx := models.TransitionContext{User: agent(), Entity: entity}

	_, err := engine.ApplyTransition(t.Context(), template, entity, "resolve", tctx)
	require.Error(t, err)
	assert.True(t, workflow.IsValidationFailed(err))

	var validationErr *workflow.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Failures, 1)
	assert.Equal(t, "Resolution is required", validationErr.Failures[0].Message)

	// The entity is untouched on failure.
	assert.Equal(t, "in_progress", entity.Status)
}

func TestApplyTransition_ResolveSucceeds(t *testing.T) {
	engine, reg := newTestEngine(t)

	template, ok := reg.GetTemplate("template-ticket-simple")
	require.True(t, ok)

	entity := ticketInProgress()
	tctx := models.TransitionContext{
		User:     agent(),
		Entity:   entity,
		Proposed: map[string]any{"resolution": "fixed"},
	}

	result, err := engine.ApplyTransition(t.Context(), template, entity, "resolve", tctx)
	require.NoError(t, err)

	assert.Equal(t, "resolved", result.Entity.Status)

	var slaStop *models.PostFunction

	for i := range result.PostFunctions {
		if result.PostFunctions[i].Type == models.PostFunctionSLAStop {
			slaStop = &result.PostFunctions[i]
		}
	}

	require.NotNil(t, slaStop, "resolve must stop the resolution clock")
	assert.Equal(t, "resolution_time", slaStop.Config["sla_metric"])
}

func TestApplyTransition_EscalationGatedByPriority(t *testing.T) {
	engine, reg := newTestEngine(t)

	template, ok := reg.GetTemplate("template-incident-standard")
	require.True(t, ok)

	incident := &models.Entity{
		ID:          "incident-1",
		TemplateID:  "template-incident-standard",
		Status:      "investigating",
		Title:       "Checkout latency",
		RequesterID: "user-2",
		Fields:      map[string]any{"priority": "low"},
	}

	tctx := models.TransitionContext{
		User:     agent(),
		Entity:   incident,
		Proposed: map[string]any{"escalation_reason": "it got worse"},
	}

	_, err := engine.ApplyTransition(t.Context(), template, incident, "escalate", tctx)
	require.Error(t, err)
	assert.True(t, workflow.IsConditionNotMet(err))

	var conditionErr *workflow.ConditionNotMetError
	require.ErrorAs(t, err, &conditionErr)
	assert.Equal(t, models.ConditionFieldValue, conditionErr.Condition.Type)

	// High priority with a reason goes through.
	incident.Fields["priority"] = "high"

	result, err := engine.ApplyTransition(t.Context(), template, incident, "escalate", tctx)
	require.NoError(t, err)
	assert.Equal(t, "escalated", result.Entity.Status)
}

func TestApplyTransition_ChangeCABGate(t *testing.T) {
	engine, reg := newTestEngine(t)

	template, ok := reg.GetTemplate("template-change-standard")
	require.True(t, ok)

	change := &models.Entity{
		ID:          "change-1",
		TemplateID:  "template-change-standard",
		Status:      "draft",
		Title:       "Rotate certs",
		RequesterID: "user-3",
		Fields:      map[string]any{"risk_level": "low"},
	}

	tctx := models.TransitionContext{
		User:   agent(),
		Entity: change,
		Proposed: map[string]any{
			"implementation_plan": "do it",
			"rollback_plan":       "undo it",
		},
	}

	_, err := engine.ApplyTransition(t.Context(), template, change, "submit_to_cab", tctx)
	require.Error(t, err)
	assert.True(t, workflow.IsConditionNotMet(err))
	assert.Equal(t, "draft", change.Status, "a low-risk change must never reach pending_cab via submit_to_cab")

	change.Fields["risk_level"] = "medium"

	result, err := engine.ApplyTransition(t.Context(), template, change, "submit_to_cab", tctx)
	require.NoError(t, err)
	assert.Equal(t, "pending_cab", result.Entity.Status)
}

func TestApplyTransition_InvalidSourceState(t *testing.T) {
	engine, reg := newTestEngine(t)

	template, ok := reg.GetTemplate("template-ticket-simple")
	require.True(t, ok)

	entity := ticketInProgress()
	entity.Status = "open"

	tctx := models.TransitionContext{
		User:     agent(),
		Entity:   entity,
		Proposed: map[string]any{"resolution": "fixed"},
	}

	// resolve is declared from in_progress; an open ticket cannot take it
	// even though its validators would pass.
	_, err := engine.ApplyTransition(t.Context(), template, entity, "resolve", tctx)
	require.Error(t, err)
	assert.True(t, workflow.IsInvalidSourceState(err))
	assert.Equal(t, "open", entity.Status)
}

func TestApplyTransition_UnknownTransition(t *testing.T) {
	engine, reg := newTestEngine(t)

	template, ok := reg.GetTemplate("template-ticket-simple")
	require.True(t, ok)

	entity := ticketInProgress()
	tctx := models.TransitionContext{User: agent(), Entity: entity}

	_, err := engine.ApplyTransition(t.Context(), template, entity, "does-not-exist", tctx)
	require.Error(t, err)
	assert.True(t, workflow.IsUnknownTransition(err))
}

func TestIsEligible_EmptyConditionsAlwaysPass(t *testing.T) {
	engine, _ := newTestEngine(t)

	transition := models.Transition{ID: "t", FromStatus: "a", ToStatus: "b"}
	tctx := models.TransitionContext{User: models.User{ID: "u"}, Entity: &models.Entity{ID: "e"}}

	eligible, failing, err := engine.IsEligible(t.Context(), transition, tctx)
	require.NoError(t, err)
	assert.True(t, eligible)
	assert.Nil(t, failing)
}

func TestIsEligible_SingleFalseConditionBlocks(t *testing.T) {
	engine, _ := newTestEngine(t)

	transition := models.Transition{
		ID:         "t",
		FromStatus: "a",
		ToStatus:   "b",
		Conditions: []models.Condition{
			{Type: models.ConditionPermission, Config: map[string]any{"required": "agent"}},
			{Type: models.ConditionPermission, Config: map[string]any{"required": "admin"}},
		},
	}

	tctx := models.TransitionContext{
		User:   models.User{ID: "u", Permissions: []string{"agent"}},
		Entity: &models.Entity{ID: "e"},
	}

	eligible, failing, err := engine.IsEligible(t.Context(), transition, tctx)
	require.NoError(t, err)
	assert.False(t, eligible)
	require.NotNil(t, failing)
	assert.Equal(t, "admin", failing.Config["required"])
}

func TestIsEligible_UnsupportedOperatorIsAnError(t *testing.T) {
	engine, _ := newTestEngine(t)

	transition := models.Transition{
		ID:         "t",
		FromStatus: "a",
		ToStatus:   "b",
		Conditions: []models.Condition{
			{Type: models.ConditionFieldValue, Config: map[string]any{
				"field":    "priority",
				"operator": "matches_regex",
				"value":    "hi.*",
			}},
		},
	}

	tctx := models.TransitionContext{
		User:   models.User{ID: "u"},
		Entity: &models.Entity{ID: "e", Fields: map[string]any{"priority": "high"}},
	}

	_, _, err := engine.IsEligible(t.Context(), transition, tctx)
	require.Error(t, err)
	assert.True(t, workflow.IsUnsupportedOperator(err))
}

func TestValidate_ReturnsAllFailures(t *testing.T) {
	engine, _ := newTestEngine(t)

	transition := models.Transition{
		ID:         "t",
		FromStatus: "a",
		ToStatus:   "b",
		Validators: []models.Validator{
			{Type: models.ValidatorRequiredField, Config: map[string]any{"field": "one"}, Message: "One is required"},
			{Type: models.ValidatorRequiredField, Config: map[string]any{"field": "two"}, Message: "Two is required"},
			{Type: models.ValidatorRequiredField, Config: map[string]any{"field": "three"}, Message: "Three is required"},
		},
	}

	tctx := models.TransitionContext{
		User:     models.User{ID: "u"},
		Entity:   &models.Entity{ID: "e"},
		Proposed: map[string]any{"two": "present"},
	}

	failures, err := engine.Validate(t.Context(), transition, tctx)
	require.NoError(t, err)
	require.Len(t, failures, 2)
	assert.Equal(t, "One is required", failures[0].Message)
	assert.Equal(t, "Three is required", failures[1].Message)
}

func TestAvailableTransitions_Deterministic(t *testing.T) {
	_, reg := newTestEngine(t)

	template, ok := reg.GetTemplate("template-incident-standard")
	require.True(t, ok)

	first := workflow.AvailableTransitions(template, "investigating")
	second := workflow.AvailableTransitions(template, "investigating")

	require.Equal(t, first, second)
	require.NotEmpty(t, first)
	assert.Equal(t, "escalate", first[0].ID)
}

func TestAvailableTransitions_UnknownStatusIsEmpty(t *testing.T) {
	_, reg := newTestEngine(t)

	template, ok := reg.GetTemplate("template-ticket-simple")
	require.True(t, ok)

	assert.Empty(t, workflow.AvailableTransitions(template, "no-such-status"))
	assert.Empty(t, workflow.AvailableTransitions(template, "closed"))
}

// Two transitions can share an edge; availability lists both and application
// is by id only, so neither is ever picked implicitly.
func TestAmbiguousSameEdgeTransitions(t *testing.T) {
	engine, _ := newTestEngine(t)

	template := &models.WorkflowTemplate{
		ID:         "template-dual-edge",
		Name:       "Dual Edge",
		EntityType: models.EntityTypeTicket,
		Config: models.WorkflowConfig{
			InitialStatus: "open",
			Statuses: []models.Status{
				{ID: "open", Name: "Open", Category: models.CategoryTodo},
				{ID: "resolved", Name: "Resolved", Category: models.CategoryDone},
			},
			Transitions: []models.Transition{
				{
					ID: "resolve_as_agent", Name: "Resolve", FromStatus: "open", ToStatus: "resolved",
					Conditions: []models.Condition{
						{Type: models.ConditionPermission, Config: map[string]any{"required": "agent"}},
					},
				},
				{
					ID: "resolve_as_requester", Name: "Resolve", FromStatus: "open", ToStatus: "resolved",
					Conditions: []models.Condition{
						{Type: models.ConditionUserIsRequester, Config: map[string]any{}},
					},
				},
			},
		},
	}
	require.NoError(t, template.ValidateStructure())

	available := workflow.AvailableTransitions(template, "open")
	require.Len(t, available, 2)

	entity := &models.Entity{ID: "e", TemplateID: template.ID, Status: "open", RequesterID: "user-9"}
	tctx := models.TransitionContext{User: models.User{ID: "user-9"}, Entity: entity}

	result, err := engine.ApplyTransition(t.Context(), template, entity, "resolve_as_requester", tctx)
	require.NoError(t, err)
	assert.Equal(t, "resolved", result.Entity.Status)
}

func TestCategoryOf(t *testing.T) {
	_, reg := newTestEngine(t)

	template, ok := reg.GetTemplate("template-ticket-simple")
	require.True(t, ok)

	category, err := workflow.CategoryOf(template, "on_hold")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryInProgress, category)

	_, err = workflow.CategoryOf(template, "nope")
	require.Error(t, err)
	assert.True(t, workflow.IsUnknownStatus(err))
}
