package services

import (
	"context"
	"fmt"
	"time"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/persistence"
	"github.com/flowdeck/flowdeck/pkg/registry"
	"github.com/google/uuid"
)

// Entity manages the records governed by workflow templates. Creation pins
// the entity to its template's initial status; status changes after that go
// through the Transition service only.
type Entity struct {
	persistence persistence.Persistence
	registry    *registry.Registry
}

func NewEntity(persistence persistence.Persistence, registry *registry.Registry) *Entity {
	return &Entity{
		persistence: persistence,
		registry:    registry,
	}
}

// HealthCheck checks the health of the persistence layer.
func (s *Entity) HealthCheck(ctx context.Context) (string, bool) {
	if s.persistence == nil {
		return "Persistence layer not initialized", false
	}

	if err := s.persistence.HealthCheck(ctx); err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// CreateEntityRequest contains the fields needed to open a new entity.
type CreateEntityRequest struct {
	TemplateID  string
	Title       string
	RequesterID string
	AssigneeID  string
	Fields      map[string]any
}

// CreateEntity opens a new entity under the given template, in that
// template's initial status.
func (s *Entity) CreateEntity(ctx context.Context, req CreateEntityRequest) (*models.Entity, error) {
	if req.Title == "" {
		return nil, &ServiceError{Op: "CreateEntity", Err: ErrTitleRequired}
	}

	if req.RequesterID == "" {
		return nil, &ServiceError{Op: "CreateEntity", Err: ErrRequesterRequired}
	}

	template, ok := s.registry.GetTemplate(req.TemplateID)
	if !ok {
		return nil, &ServiceError{Op: "CreateEntity", Err: ErrTemplateNotFound}
	}

	fields := req.Fields
	if fields == nil {
		fields = make(map[string]any)
	}

	now := time.Now().UTC()
	entity := &models.Entity{
		ID:          uuid.New().String(),
		TemplateID:  template.ID,
		Status:      template.Config.InitialStatus,
		Title:       req.Title,
		RequesterID: req.RequesterID,
		AssigneeID:  req.AssigneeID,
		Fields:      fields,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.persistence.EntityRepository().Create(ctx, entity); err != nil {
		return nil, fmt.Errorf("failed to create entity: %w", err)
	}

	return entity, nil
}

// GetEntity returns the entity with the given id.
func (s *Entity) GetEntity(ctx context.Context, id string) (*models.Entity, error) {
	return s.persistence.EntityRepository().GetByID(ctx, id)
}

// ListEntities returns all entities in creation order.
func (s *Entity) ListEntities(ctx context.Context) ([]*models.Entity, error) {
	return s.persistence.EntityRepository().List(ctx)
}

// UpdateFields writes non-status fields on the entity. The status itself is
// never writable here.
func (s *Entity) UpdateFields(ctx context.Context, id string, fields map[string]any) (*models.Entity, error) {
	entity, err := s.persistence.EntityRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	for name, value := range fields {
		entity.SetField(name, value)
	}

	if err := s.persistence.EntityRepository().Update(ctx, entity); err != nil {
		return nil, fmt.Errorf("failed to update entity %s: %w", id, err)
	}

	return entity, nil
}

// DeleteEntity removes the entity.
func (s *Entity) DeleteEntity(ctx context.Context, id string) error {
	return s.persistence.EntityRepository().Delete(ctx, id)
}

// ListComments returns the entity's comment timeline.
func (s *Entity) ListComments(ctx context.Context, entityID string) ([]*models.Comment, error) {
	if _, err := s.persistence.EntityRepository().GetByID(ctx, entityID); err != nil {
		return nil, err
	}

	return s.persistence.CommentRepository().ListByEntity(ctx, entityID)
}

// AddComment records a user comment on the entity.
func (s *Entity) AddComment(ctx context.Context, entityID, authorID, body string) (*models.Comment, error) {
	if body == "" {
		return nil, &ServiceError{Op: "AddComment", Err: ErrInvalidRequest}
	}

	if _, err := s.persistence.EntityRepository().GetByID(ctx, entityID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:        uuid.New().String(),
		EntityID:  entityID,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.persistence.CommentRepository().Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to add comment to entity %s: %w", entityID, err)
	}

	return comment, nil
}

// ListTasks returns the entity's follow-up tasks.
func (s *Entity) ListTasks(ctx context.Context, entityID string) ([]*models.Task, error) {
	if _, err := s.persistence.EntityRepository().GetByID(ctx, entityID); err != nil {
		return nil, err
	}

	return s.persistence.TaskRepository().ListByEntity(ctx, entityID)
}
