// Package createtasks implements the create_tasks post-function: it opens a
// checklist of follow-up tasks on the entity after a transition commits.
package createtasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/persistence"
	"github.com/google/uuid"
)

type PostFunction struct {
	titles []string
	tasks  persistence.TaskRepository
}

func NewPostFunction(config map[string]any, tasks persistence.TaskRepository) (*PostFunction, error) {
	raw, ok := config["tasks"].([]any)
	if !ok || len(raw) == 0 {
		return nil, fmt.Errorf("create_tasks post-function requires a non-empty tasks list")
	}

	titles := make([]string, 0, len(raw))

	for _, item := range raw {
		title, ok := item.(string)
		if !ok || title == "" {
			return nil, fmt.Errorf("create_tasks post-function requires string task titles, got %T", item)
		}

		titles = append(titles, title)
	}

	return &PostFunction{titles: titles, tasks: tasks}, nil
}

func (p *PostFunction) Execute(ctx context.Context, execCtx models.ExecutionContext, logger *slog.Logger) error {
	logger = logger.With("post_function", "create_tasks")

	now := time.Now().UTC()

	for _, title := range p.titles {
		task := &models.Task{
			ID:        uuid.New().String(),
			EntityID:  execCtx.Entity.ID,
			Title:     title,
			CreatedAt: now,
		}

		if err := p.tasks.Create(ctx, task); err != nil {
			return fmt.Errorf("failed to create task %q on entity %s: %w", title, execCtx.Entity.ID, err)
		}
	}

	logger.Info("Tasks created", "count", len(p.titles))

	return nil
}
