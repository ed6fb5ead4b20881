// Package fieldupdate implements the field_update post-function: it writes
// one field on the transitioned entity after the status change commits.
package fieldupdate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/persistence"
)

type PostFunction struct {
	field    string
	value    any
	entities persistence.EntityRepository
}

func NewPostFunction(config map[string]any, entities persistence.EntityRepository) (*PostFunction, error) {
	field, _ := config["field"].(string)
	if field == "" {
		return nil, fmt.Errorf("field_update post-function requires a field")
	}

	return &PostFunction{
		field:    field,
		value:    config["value"],
		entities: entities,
	}, nil
}

func (p *PostFunction) Execute(ctx context.Context, execCtx models.ExecutionContext, logger *slog.Logger) error {
	logger = logger.With("post_function", "field_update", "field", p.field)

	// Re-read instead of trusting the event payload: another post-function
	// may have written fields since the transition committed.
	entity, err := p.entities.GetByID(ctx, execCtx.Entity.ID)
	if err != nil {
		return fmt.Errorf("failed to load entity %s: %w", execCtx.Entity.ID, err)
	}

	entity.SetField(p.field, p.value)

	if err := p.entities.Update(ctx, entity); err != nil {
		return fmt.Errorf("failed to update entity %s: %w", entity.ID, err)
	}

	logger.Info("Entity field updated")

	return nil
}
