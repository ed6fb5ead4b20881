package postgresql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/flowdeck/flowdeck/pkg/models"
)

type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO comments (id, entity_id, author_id, body, is_system, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		comment.ID, comment.EntityID, comment.AuthorID, comment.Body,
		comment.System, comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create comment for entity %s: %w", comment.EntityID, err)
	}

	return nil
}

func (r *CommentRepository) ListByEntity(ctx context.Context, entityID string) ([]*models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, entity_id, author_id, body, is_system, created_at
		FROM comments WHERE entity_id = $1 ORDER BY created_at`, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments for entity %s: %w", entityID, err)
	}
	defer rows.Close()

	comments := make([]*models.Comment, 0)

	for rows.Next() {
		var comment models.Comment

		err := rows.Scan(
			&comment.ID, &comment.EntityID, &comment.AuthorID,
			&comment.Body, &comment.System, &comment.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}

		comments = append(comments, &comment)
	}

	return comments, rows.Err()
}
