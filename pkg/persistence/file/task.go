package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/flowdeck/flowdeck/pkg/models"
)

// TaskRepository stores follow-up tasks grouped per entity.
type TaskRepository struct {
	root string
	mu   sync.Mutex
}

func NewTaskRepository(root string) *TaskRepository {
	return &TaskRepository{root: root}
}

func (r *TaskRepository) path(entityID string) string {
	return filepath.Join(r.root, "tasks", entityID+".json")
}

func (r *TaskRepository) Create(_ context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.read(task.EntityID)
	if err != nil {
		return err
	}

	tasks = append(tasks, task)

	return r.write(task.EntityID, tasks)
}

func (r *TaskRepository) ListByEntity(_ context.Context, entityID string) ([]*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.read(entityID)
}

func (r *TaskRepository) read(entityID string) ([]*models.Task, error) {
	data, err := os.ReadFile(r.path(entityID))
	if err != nil {
		if os.IsNotExist(err) {
			return make([]*models.Task, 0), nil
		}

		return nil, fmt.Errorf("failed to read tasks for entity %s: %w", entityID, err)
	}

	var tasks []*models.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks for entity %s: %w", entityID, err)
	}

	return tasks, nil
}

func (r *TaskRepository) write(entityID string, tasks []*models.Task) error {
	if err := os.MkdirAll(filepath.Join(r.root, "tasks"), 0o755); err != nil {
		return fmt.Errorf("failed to create tasks directory: %w", err)
	}

	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode tasks for entity %s: %w", entityID, err)
	}

	if err := os.WriteFile(r.path(entityID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write tasks for entity %s: %w", entityID, err)
	}

	return nil
}
