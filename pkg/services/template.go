package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/persistence"
	"github.com/flowdeck/flowdeck/pkg/registry"
	"github.com/flowdeck/flowdeck/pkg/workflow"
)

// Template exposes the read-only catalog and the storage of user-defined
// templates. Built-ins live only in the registry; user-defined templates
// are persisted as well so they survive restarts.
type Template struct {
	registry    *registry.Registry
	persistence persistence.Persistence
}

func NewTemplate(reg *registry.Registry, persistence persistence.Persistence) *Template {
	return &Template{
		registry:    reg,
		persistence: persistence,
	}
}

// ListTemplates returns every registered template in registration order.
func (s *Template) ListTemplates(_ context.Context) []*models.WorkflowTemplate {
	return s.registry.ListTemplates()
}

// ListTemplatesByEntityType filters the catalog by governed entity type.
func (s *Template) ListTemplatesByEntityType(_ context.Context, entityType models.EntityType) []*models.WorkflowTemplate {
	return s.registry.ListTemplatesByEntityType(entityType)
}

// GetTemplate returns one template by id.
func (s *Template) GetTemplate(_ context.Context, id string) (*models.WorkflowTemplate, error) {
	template, ok := s.registry.GetTemplate(id)
	if !ok {
		return nil, &ServiceError{Op: "GetTemplate", Err: ErrTemplateNotFound}
	}

	return template, nil
}

// ListStatuses returns the template's status vocabulary in declared order.
func (s *Template) ListStatuses(_ context.Context, templateID string) ([]models.Status, error) {
	template, ok := s.registry.GetTemplate(templateID)
	if !ok {
		return nil, &ServiceError{Op: "ListStatuses", Err: ErrTemplateNotFound}
	}

	return workflow.ListStatuses(template), nil
}

// CategoryOf returns the coarse category of a status within a template.
func (s *Template) CategoryOf(_ context.Context, templateID, statusID string) (models.StatusCategory, error) {
	template, ok := s.registry.GetTemplate(templateID)
	if !ok {
		return "", &ServiceError{Op: "CategoryOf", Err: ErrTemplateNotFound}
	}

	return workflow.CategoryOf(template, statusID)
}

// SaveTemplate registers and persists a user-defined template. Registration
// runs first: it rejects malformed templates and id collisions under the
// registry's lock, so a rejected template never leaves an orphan row behind
// to break the next startup's load.
func (s *Template) SaveTemplate(ctx context.Context, template *models.WorkflowTemplate) error {
	if err := s.registry.RegisterTemplate(template); err != nil {
		return err
	}

	if err := s.persistence.TemplateRepository().Save(ctx, template); err != nil {
		return fmt.Errorf("failed to persist template %s: %w", template.ID, err)
	}

	return nil
}

// LoadStoredTemplates registers every persisted user-defined template. Run
// once at startup after the built-ins are in place. A stored template whose
// id is already registered is skipped, not fatal: a stale row must not stop
// the server from booting.
func (s *Template) LoadStoredTemplates(ctx context.Context) error {
	templates, err := s.persistence.TemplateRepository().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load stored templates: %w", err)
	}

	for _, template := range templates {
		err := s.registry.RegisterTemplate(template)
		if errors.Is(err, registry.ErrTemplateAlreadyRegistered) {
			continue
		}

		if err != nil {
			return err
		}
	}

	return nil
}
