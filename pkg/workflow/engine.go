package workflow

import (
	"context"
	"log/slog"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/registry"
)

// Engine evaluates transitions against templates using the evaluators
// registered in the component registry. It holds no mutable state of its
// own; templates are immutable and entities are owned by the caller.
type Engine struct {
	registry *registry.Registry
	logger   *slog.Logger
}

func NewEngine(reg *registry.Registry, logger *slog.Logger) *Engine {
	return &Engine{
		registry: reg,
		logger:   logger.With("module", "workflow_engine"),
	}
}

// ApplyResult is the outcome of a successful transition: the updated entity
// and the post-functions the caller must execute, in declared order.
type ApplyResult struct {
	Entity        *models.Entity        `json:"entity"`
	Transition    models.Transition     `json:"transition"`
	PostFunctions []models.PostFunction `json:"post_functions"`
}

// ListStatuses returns the template's status vocabulary in declared order.
func ListStatuses(template *models.WorkflowTemplate) []models.Status {
	statuses := make([]models.Status, len(template.Config.Statuses))
	copy(statuses, template.Config.Statuses)

	return statuses
}

// CategoryOf returns the coarse category of the given status, or
// ErrUnknownStatus when the id is absent from the template.
func CategoryOf(template *models.WorkflowTemplate, statusID string) (models.StatusCategory, error) {
	status, ok := template.StatusByID(statusID)
	if !ok {
		return "", &TransitionError{
			Op:         "CategoryOf",
			TemplateID: template.ID,
			Err:        ErrUnknownStatus,
		}
	}

	return status.Category, nil
}

// AvailableTransitions returns the transitions declared from the given
// status, in declaration order, ignoring conditions. An unknown or terminal
// status yields an empty slice, not an error.
func AvailableTransitions(template *models.WorkflowTemplate, currentStatus string) []models.Transition {
	available := make([]models.Transition, 0)

	for _, tr := range template.Config.Transitions {
		if tr.FromStatus == currentStatus {
			available = append(available, tr)
		}
	}

	return available
}

// IsEligible evaluates every condition of the transition against the
// context. All conditions must hold; an empty list is eligible. On a false
// result the failing condition is returned for diagnostic display. An
// evaluation error (unknown type, unsupported operator) is returned as an
// error, never folded into a false result.
func (e *Engine) IsEligible(ctx context.Context, transition models.Transition, tctx models.TransitionContext) (bool, *models.Condition, error) {
	for i := range transition.Conditions {
		cond := transition.Conditions[i]

		evaluator, err := e.registry.CreateCondition(ctx, cond.Type, cond.Config)
		if err != nil {
			return false, nil, err
		}

		ok, err := evaluator.Evaluate(ctx, tctx, e.logger)
		if err != nil {
			e.logger.Error("Condition evaluation failed",
				"transition_id", transition.ID,
				"condition_type", cond.Type,
				"error", err,
			)

			return false, nil, err
		}

		if !ok {
			return false, &cond, nil
		}
	}

	return true, nil, nil
}

// Validate runs every validator of the transition and returns ALL failures,
// never just the first: users need to fix everything at once.
func (e *Engine) Validate(ctx context.Context, transition models.Transition, tctx models.TransitionContext) ([]models.ValidationFailure, error) {
	failures := make([]models.ValidationFailure, 0)

	for _, v := range transition.Validators {
		fieldValidator, err := e.registry.CreateValidator(ctx, v.Type, v.Config, v.Message)
		if err != nil {
			return nil, err
		}

		if failure := fieldValidator.Validate(ctx, tctx); failure != nil {
			failures = append(failures, *failure)
		}
	}

	return failures, nil
}

// ApplyTransition applies the identified transition to the entity:
// transition lookup, source-state check, eligibility, validation, then the
// status mutation. The status write is the only state change performed here;
// post-functions are returned for the caller to execute after commit, in a
// separate failure domain.
//
// Transitions are addressed by id only. When several eligible transitions
// share an edge the caller chooses; the engine never auto-picks.
func (e *Engine) ApplyTransition(ctx context.Context, template *models.WorkflowTemplate, entity *models.Entity, transitionID string, tctx models.TransitionContext) (*ApplyResult, error) {
	transition, ok := template.TransitionByID(transitionID)
	if !ok {
		return nil, &TransitionError{
			Op:         "ApplyTransition",
			TemplateID: template.ID,
			EntityID:   entity.ID,
			Err:        ErrUnknownTransition,
		}
	}

	if entity.Status != transition.FromStatus {
		return nil, &TransitionError{
			Op:         "ApplyTransition",
			TemplateID: template.ID,
			EntityID:   entity.ID,
			Err:        ErrInvalidSourceState,
		}
	}

	eligible, failing, err := e.IsEligible(ctx, transition, tctx)
	if err != nil {
		return nil, &TransitionError{
			Op:         "ApplyTransition",
			TemplateID: template.ID,
			EntityID:   entity.ID,
			Err:        err,
		}
	}

	if !eligible {
		return nil, &ConditionNotMetError{
			TransitionID: transition.ID,
			Condition:    *failing,
		}
	}

	failures, err := e.Validate(ctx, transition, tctx)
	if err != nil {
		return nil, &TransitionError{
			Op:         "ApplyTransition",
			TemplateID: template.ID,
			EntityID:   entity.ID,
			Err:        err,
		}
	}

	if len(failures) > 0 {
		return nil, &ValidationError{
			TransitionID: transition.ID,
			Failures:     failures,
		}
	}

	entity.Status = transition.ToStatus

	return &ApplyResult{
		Entity:        entity,
		Transition:    transition,
		PostFunctions: transition.PostFunctions,
	}, nil
}
