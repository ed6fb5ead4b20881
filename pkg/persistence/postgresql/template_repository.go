package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/persistence"
)

// TemplateRepository stores user-defined templates as whole JSON documents:
// templates are immutable bundles, so there is nothing to query inside them.
type TemplateRepository struct {
	db *sql.DB
}

func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) Save(ctx context.Context, template *models.WorkflowTemplate) error {
	definition, err := json.Marshal(template)
	if err != nil {
		return fmt.Errorf("failed to encode template %s: %w", template.ID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO workflow_templates (id, definition)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET definition = EXCLUDED.definition`,
		template.ID, definition,
	)
	if err != nil {
		return fmt.Errorf("failed to save template %s: %w", template.ID, err)
	}

	return nil
}

func (r *TemplateRepository) GetByID(ctx context.Context, id string) (*models.WorkflowTemplate, error) {
	var definition []byte

	err := r.db.QueryRowContext(ctx,
		"SELECT definition FROM workflow_templates WHERE id = $1", id,
	).Scan(&definition)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrTemplateNotFound
		}

		return nil, fmt.Errorf("failed to read template %s: %w", id, err)
	}

	return decodeTemplate(definition)
}

func (r *TemplateRepository) List(ctx context.Context) ([]*models.WorkflowTemplate, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT definition FROM workflow_templates ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	templates := make([]*models.WorkflowTemplate, 0)

	for rows.Next() {
		var definition []byte

		if err := rows.Scan(&definition); err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}

		template, err := decodeTemplate(definition)
		if err != nil {
			return nil, err
		}

		templates = append(templates, template)
	}

	return templates, rows.Err()
}

func decodeTemplate(definition []byte) (*models.WorkflowTemplate, error) {
	var template models.WorkflowTemplate
	if err := json.Unmarshal(definition, &template); err != nil {
		return nil, fmt.Errorf("failed to decode template: %w", err)
	}

	return &template, nil
}
