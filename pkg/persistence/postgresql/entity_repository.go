package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/persistence"
	"github.com/lib/pq"
)

// EntityRepository persists entities with free-form fields as JSONB.
type EntityRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewEntityRepository(db *sql.DB, logger *slog.Logger) *EntityRepository {
	return &EntityRepository{db: db, logger: logger}
}

func (r *EntityRepository) Create(ctx context.Context, entity *models.Entity) error {
	fields, err := json.Marshal(entity.Fields)
	if err != nil {
		return fmt.Errorf("failed to encode entity fields: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO entities (id, template_id, status, title, requester_id, assignee_id, fields, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9)`,
		entity.ID, entity.TemplateID, entity.Status, entity.Title,
		entity.RequesterID, entity.AssigneeID, fields,
		entity.CreatedAt, entity.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return persistence.NewEntityError("Create", entity.ID, persistence.ErrEntityAlreadyExists)
		}

		return persistence.NewEntityError("Create", entity.ID, err)
	}

	return nil
}

func (r *EntityRepository) GetByID(ctx context.Context, id string) (*models.Entity, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, template_id, status, title, requester_id, COALESCE(assignee_id, ''), fields, created_at, updated_at
		FROM entities WHERE id = $1`, id)

	return scanEntity(row, id)
}

func (r *EntityRepository) List(ctx context.Context) ([]*models.Entity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, template_id, status, title, requester_id, COALESCE(assignee_id, ''), fields, created_at, updated_at
		FROM entities ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}
	defer rows.Close()

	entities := make([]*models.Entity, 0)

	for rows.Next() {
		entity, err := scanEntity(rows, "")
		if err != nil {
			return nil, err
		}

		entities = append(entities, entity)
	}

	return entities, rows.Err()
}

func (r *EntityRepository) Update(ctx context.Context, entity *models.Entity) error {
	fields, err := json.Marshal(entity.Fields)
	if err != nil {
		return fmt.Errorf("failed to encode entity fields: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE entities
		SET template_id = $2, status = $3, title = $4, requester_id = $5,
		    assignee_id = NULLIF($6, ''), fields = $7, updated_at = NOW()
		WHERE id = $1`,
		entity.ID, entity.TemplateID, entity.Status, entity.Title,
		entity.RequesterID, entity.AssigneeID, fields,
	)
	if err != nil {
		return persistence.NewEntityError("Update", entity.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return persistence.NewEntityError("Update", entity.ID, err)
	}

	if affected == 0 {
		return persistence.NewEntityError("Update", entity.ID, persistence.ErrEntityNotFound)
	}

	return nil
}

func (r *EntityRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM entities WHERE id = $1", id)
	if err != nil {
		return persistence.NewEntityError("Delete", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return persistence.NewEntityError("Delete", id, err)
	}

	if affected == 0 {
		return persistence.NewEntityError("Delete", id, persistence.ErrEntityNotFound)
	}

	return nil
}

// CommitTransition performs the status write guarded by the previous
// status: the WHERE clause is the compare-and-swap that makes one of two
// racing transitions lose with ErrStaleEntityStatus.
func (r *EntityRepository) CommitTransition(ctx context.Context, entityID, fromStatus, toStatus string, fields map[string]any) (*models.Entity, error) {
	fieldPatch, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode field updates: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE entities
		SET status = $3, fields = fields || $4::jsonb, updated_at = NOW()
		WHERE id = $1 AND status = $2`,
		entityID, fromStatus, toStatus, fieldPatch,
	)
	if err != nil {
		return nil, persistence.NewEntityError("CommitTransition", entityID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, persistence.NewEntityError("CommitTransition", entityID, err)
	}

	if affected == 0 {
		// Either the entity is gone or another transition won the race.
		if _, err := r.GetByID(ctx, entityID); err != nil {
			return nil, err
		}

		return nil, persistence.NewEntityError("CommitTransition", entityID, persistence.ErrStaleEntityStatus)
	}

	return r.GetByID(ctx, entityID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntity(row rowScanner, id string) (*models.Entity, error) {
	var (
		entity models.Entity
		fields []byte
	)

	err := row.Scan(
		&entity.ID, &entity.TemplateID, &entity.Status, &entity.Title,
		&entity.RequesterID, &entity.AssigneeID, &fields,
		&entity.CreatedAt, &entity.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewEntityError("GetByID", id, persistence.ErrEntityNotFound)
		}

		return nil, fmt.Errorf("failed to scan entity: %w", err)
	}

	if len(fields) > 0 {
		if err := json.Unmarshal(fields, &entity.Fields); err != nil {
			return nil, fmt.Errorf("failed to decode entity fields: %w", err)
		}
	}

	return &entity, nil
}
