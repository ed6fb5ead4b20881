package postgresql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/flowdeck/flowdeck/pkg/models"
)

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, entity_id, title, done, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		task.ID, task.EntityID, task.Title, task.Done, task.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task for entity %s: %w", task.EntityID, err)
	}

	return nil
}

func (r *TaskRepository) ListByEntity(ctx context.Context, entityID string) ([]*models.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, entity_id, title, done, created_at
		FROM tasks WHERE entity_id = $1 ORDER BY created_at`, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks for entity %s: %w", entityID, err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)

	for rows.Next() {
		var task models.Task

		err := rows.Scan(&task.ID, &task.EntityID, &task.Title, &task.Done, &task.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}

		tasks = append(tasks, &task)
	}

	return tasks, rows.Err()
}
