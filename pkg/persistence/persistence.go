package persistence

import (
	"context"

	"github.com/flowdeck/flowdeck/pkg/models"
)

// EntityRepository stores the ticket-like records governed by templates.
type EntityRepository interface {
	Create(ctx context.Context, entity *models.Entity) error
	GetByID(ctx context.Context, id string) (*models.Entity, error)
	List(ctx context.Context) ([]*models.Entity, error)
	Update(ctx context.Context, entity *models.Entity) error
	Delete(ctx context.Context, id string) error

	// CommitTransition writes the status change of a committed transition,
	// together with any field updates belonging to the same commit. The
	// write succeeds only while the stored status still equals fromStatus;
	// a concurrent transition that got there first surfaces as
	// ErrStaleEntityStatus. This check is the race guard the engine's
	// source-state validation relies on.
	CommitTransition(ctx context.Context, entityID, fromStatus, toStatus string, fields map[string]any) (*models.Entity, error)
}

// CommentRepository stores user and post-function comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByEntity(ctx context.Context, entityID string) ([]*models.Comment, error)
}

// TaskRepository stores follow-up tasks spawned by create_tasks
// post-functions.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	ListByEntity(ctx context.Context, entityID string) ([]*models.Task, error)
}

// TemplateRepository stores user-defined workflow templates. Built-in
// templates never pass through here; they are compile-time constants.
type TemplateRepository interface {
	Save(ctx context.Context, template *models.WorkflowTemplate) error
	GetByID(ctx context.Context, id string) (*models.WorkflowTemplate, error)
	List(ctx context.Context) ([]*models.WorkflowTemplate, error)
}

// Persistence aggregates the repositories of one storage backend.
type Persistence interface {
	EntityRepository() EntityRepository
	CommentRepository() CommentRepository
	TaskRepository() TaskRepository
	TemplateRepository() TemplateRepository
	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
