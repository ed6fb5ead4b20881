// Package registry stores the immutable template catalog and the component
// factories (conditions, validators, post-functions) the engine dispatches
// on.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/protocol"
)

// ErrTemplateAlreadyRegistered reports a template id collision.
var ErrTemplateAlreadyRegistered = errors.New("template already registered")

// Registry holds the template catalog and the component factories. Factories
// are populated once at startup and read-only afterwards; templates can also
// be registered at runtime (user-defined templates arriving over the API), so
// template access is guarded by a lock. Templates are validated structurally
// on registration; a malformed template aborts registration rather than
// surfacing mid-operation.
type Registry struct {
	logger               *slog.Logger
	mu                   sync.RWMutex
	templates            map[string]*models.WorkflowTemplate
	order                []string
	conditionFactories   map[string]protocol.ConditionFactory
	validatorFactories   map[string]protocol.ValidatorFactory
	postFunctionFactories map[string]protocol.PostFunctionFactory
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:                logger,
		templates:             make(map[string]*models.WorkflowTemplate),
		conditionFactories:    make(map[string]protocol.ConditionFactory),
		validatorFactories:    make(map[string]protocol.ValidatorFactory),
		postFunctionFactories: make(map[string]protocol.PostFunctionFactory),
	}
}

// RegisterTemplate validates and stores a template. Registration fails with
// a MalformedTemplateError when a structural invariant is violated, and with
// ErrTemplateAlreadyRegistered on id collisions.
func (r *Registry) RegisterTemplate(template *models.WorkflowTemplate) error {
	if err := template.ValidateStructure(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.templates[template.ID]; exists {
		return fmt.Errorf("template %q: %w", template.ID, ErrTemplateAlreadyRegistered)
	}

	r.templates[template.ID] = template
	r.order = append(r.order, template.ID)

	r.logger.Debug("Registered workflow template",
		"template_id", template.ID,
		"entity_type", template.EntityType,
		"statuses", len(template.Config.Statuses),
		"transitions", len(template.Config.Transitions),
	)

	return nil
}

// GetTemplate returns the template with the given id, or false when absent.
func (r *Registry) GetTemplate(id string) (*models.WorkflowTemplate, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.templates[id]

	return t, ok
}

// ListTemplates returns all templates in registration order.
func (r *Registry) ListTemplates() []*models.WorkflowTemplate {
	r.mu.RLock()
	defer r.mu.RUnlock()

	templates := make([]*models.WorkflowTemplate, 0, len(r.order))
	for _, id := range r.order {
		templates = append(templates, r.templates[id])
	}

	return templates
}

// ListTemplatesByCategory returns templates whose category matches exactly.
// Category is a free-form catalog label, unrelated to status categories.
func (r *Registry) ListTemplatesByCategory(category string) []*models.WorkflowTemplate {
	r.mu.RLock()
	defer r.mu.RUnlock()

	templates := make([]*models.WorkflowTemplate, 0)

	for _, id := range r.order {
		if r.templates[id].Category == category {
			templates = append(templates, r.templates[id])
		}
	}

	return templates
}

// ListTemplatesByEntityType returns templates governing the given entity type.
func (r *Registry) ListTemplatesByEntityType(entityType models.EntityType) []*models.WorkflowTemplate {
	r.mu.RLock()
	defer r.mu.RUnlock()

	templates := make([]*models.WorkflowTemplate, 0)

	for _, id := range r.order {
		if r.templates[id].EntityType == entityType {
			templates = append(templates, r.templates[id])
		}
	}

	return templates
}

func (r *Registry) RegisterCondition(factory protocol.ConditionFactory) {
	r.conditionFactories[factory.ID()] = factory
}

func (r *Registry) RegisterValidator(factory protocol.ValidatorFactory) {
	r.validatorFactories[factory.ID()] = factory
}

func (r *Registry) RegisterPostFunction(factory protocol.PostFunctionFactory) {
	r.postFunctionFactories[factory.ID()] = factory
}

// CreateCondition instantiates an evaluator for the given condition type.
// An unregistered type is a template configuration bug, reported as an error.
func (r *Registry) CreateCondition(ctx context.Context, conditionType string, config map[string]any) (protocol.Condition, error) {
	factory, ok := r.conditionFactories[conditionType]
	if !ok {
		return nil, fmt.Errorf("condition type %q not registered", conditionType)
	}

	return factory.Create(ctx, config)
}

// CreateValidator instantiates a field validator for the given type.
func (r *Registry) CreateValidator(ctx context.Context, validatorType string, config map[string]any, message string) (protocol.FieldValidator, error) {
	factory, ok := r.validatorFactories[validatorType]
	if !ok {
		return nil, fmt.Errorf("validator type %q not registered", validatorType)
	}

	return factory.Create(ctx, config, message)
}

// CreatePostFunction instantiates an executor for the given post-function
// type.
func (r *Registry) CreatePostFunction(ctx context.Context, postFunctionType string, config map[string]any) (protocol.PostFunction, error) {
	factory, ok := r.postFunctionFactories[postFunctionType]
	if !ok {
		return nil, fmt.Errorf("post-function type %q not registered", postFunctionType)
	}

	return factory.Create(ctx, config)
}

// PostFunctionFactories returns the registered post-function factories,
// keyed by type. Used by the worker to report its capabilities.
func (r *Registry) PostFunctionFactories() map[string]protocol.PostFunctionFactory {
	return r.postFunctionFactories
}
