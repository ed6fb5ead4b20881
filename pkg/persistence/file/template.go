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

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/persistence"
)

// TemplateRepository stores user-defined workflow templates as JSON
// documents. Structural validation happens in the registry on load, not
// here.
type TemplateRepository struct {
	root string
	mu   sync.Mutex
}

func NewTemplateRepository(root string) *TemplateRepository {
	return &TemplateRepository{root: root}
}

func (r *TemplateRepository) dir() string {
	return filepath.Join(r.root, "templates")
}

func (r *TemplateRepository) path(id string) string {
	return filepath.Join(r.dir(), id+".json")
}

func (r *TemplateRepository) Save(_ context.Context, template *models.WorkflowTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(r.dir(), 0o755); err != nil {
		return fmt.Errorf("failed to create templates directory: %w", err)
	}

	data, err := json.MarshalIndent(template, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode template %s: %w", template.ID, err)
	}

	if err := os.WriteFile(r.path(template.ID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write template %s: %w", template.ID, err)
	}

	return nil
}

func (r *TemplateRepository) GetByID(_ context.Context, id string) (*models.WorkflowTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.read(id)
}

func (r *TemplateRepository) List(_ context.Context) ([]*models.WorkflowTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	jsonFiles, err := fs.Glob(os.DirFS(r.dir()), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list template files: %w", err)
	}

	sort.Strings(jsonFiles)

	templates := make([]*models.WorkflowTemplate, 0, len(jsonFiles))

	for _, f := range jsonFiles {
		template, err := r.read(f[:len(f)-len(".json")])
		if err != nil {
			return nil, err
		}

		templates = append(templates, template)
	}

	return templates, nil
}

func (r *TemplateRepository) read(id string) (*models.WorkflowTemplate, error) {
	data, err := os.ReadFile(r.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.ErrTemplateNotFound
		}

		return nil, fmt.Errorf("failed to read template %s: %w", id, err)
	}

	var template models.WorkflowTemplate
	if err := json.Unmarshal(data, &template); err != nil {
		return nil, fmt.Errorf("failed to decode template %s: %w", id, err)
	}

	return &template, nil
}
