package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/persistence"
)

// EntityRepository stores one JSON document per entity. The mutex makes
// CommitTransition's read-check-write atomic within this process, standing
// in for the row lock a database backend provides.
type EntityRepository struct {
	root string
	mu   sync.Mutex
}

func NewEntityRepository(root string) *EntityRepository {
	return &EntityRepository{root: root}
}

func (r *EntityRepository) dir() string {
	return filepath.Join(r.root, "entities")
}

func (r *EntityRepository) path(id string) string {
	return filepath.Join(r.dir(), id+".json")
}

func (r *EntityRepository) Create(_ context.Context, entity *models.Entity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := os.Stat(r.path(entity.ID)); err == nil {
		return persistence.NewEntityError("Create", entity.ID, persistence.ErrEntityAlreadyExists)
	}

	return r.write(entity)
}

func (r *EntityRepository) GetByID(_ context.Context, id string) (*models.Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.read(id)
}

func (r *EntityRepository) List(_ context.Context) ([]*models.Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	jsonFiles, err := fs.Glob(os.DirFS(r.dir()), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list entity files: %w", err)
	}

	sort.Strings(jsonFiles)

	entities := make([]*models.Entity, 0, len(jsonFiles))

	for _, f := range jsonFiles {
		entity, err := r.read(f[:len(f)-len(".json")])
		if err != nil {
			return nil, err
		}

		entities = append(entities, entity)
	}

	return entities, nil
}

func (r *EntityRepository) Update(_ context.Context, entity *models.Entity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.read(entity.ID); err != nil {
		return err
	}

	entity.UpdatedAt = time.Now().UTC()

	return r.write(entity)
}

func (r *EntityRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.read(id); err != nil {
		return err
	}

	return os.Remove(r.path(id))
}

func (r *EntityRepository) CommitTransition(_ context.Context, entityID, fromStatus, toStatus string, fields map[string]any) (*models.Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entity, err := r.read(entityID)
	if err != nil {
		return nil, err
	}

	if entity.Status != fromStatus {
		return nil, persistence.NewEntityError("CommitTransition", entityID, persistence.ErrStaleEntityStatus)
	}

	entity.Status = toStatus
	for name, value := range fields {
		entity.SetField(name, value)
	}

	entity.UpdatedAt = time.Now().UTC()

	if err := r.write(entity); err != nil {
		return nil, err
	}

	return entity, nil
}

func (r *EntityRepository) read(id string) (*models.Entity, error) {
	data, err := os.ReadFile(r.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewEntityError("GetByID", id, persistence.ErrEntityNotFound)
		}

		return nil, fmt.Errorf("failed to read entity %s: %w", id, err)
	}

	var entity models.Entity
	if err := json.Unmarshal(data, &entity); err != nil {
		return nil, fmt.Errorf("failed to decode entity %s: %w", id, err)
	}

	return &entity, nil
}

func (r *EntityRepository) write(entity *models.Entity) error {
	if err := os.MkdirAll(r.dir(), 0o755); err != nil {
		return fmt.Errorf("failed to create entities directory: %w", err)
	}

	data, err := json.MarshalIndent(entity, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode entity %s: %w", entity.ID, err)
	}

	if err := os.WriteFile(r.path(entity.ID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write entity %s: %w", entity.ID, err)
	}

	return nil
}
