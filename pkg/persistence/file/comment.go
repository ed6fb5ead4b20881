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

// CommentRepository stores comments grouped per entity, one JSON file per
// entity holding the ordered comment list.
type CommentRepository struct {
	root string
	mu   sync.Mutex
}

func NewCommentRepository(root string) *CommentRepository {
	return &CommentRepository{root: root}
}

func (r *CommentRepository) path(entityID string) string {
	return filepath.Join(r.root, "comments", entityID+".json")
}

func (r *CommentRepository) Create(_ context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	comments, err := r.read(comment.EntityID)
	if err != nil {
		return err
	}

	comments = append(comments, comment)

	return r.write(comment.EntityID, comments)
}

func (r *CommentRepository) ListByEntity(_ context.Context, entityID string) ([]*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.read(entityID)
}

func (r *CommentRepository) read(entityID string) ([]*models.Comment, error) {
	data, err := os.ReadFile(r.path(entityID))
	if err != nil {
		if os.IsNotExist(err) {
			return make([]*models.Comment, 0), nil
		}

		return nil, fmt.Errorf("failed to read comments for entity %s: %w", entityID, err)
	}

	var comments []*models.Comment
	if err := json.Unmarshal(data, &comments); err != nil {
		return nil, fmt.Errorf("failed to decode comments for entity %s: %w", entityID, err)
	}

	return comments, nil
}

func (r *CommentRepository) write(entityID string, comments []*models.Comment) error {
	if err := os.MkdirAll(filepath.Join(r.root, "comments"), 0o755); err != nil {
		return fmt.Errorf("failed to create comments directory: %w", err)
	}

	data, err := json.MarshalIndent(comments, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode comments for entity %s: %w", entityID, err)
	}

	if err := os.WriteFile(r.path(entityID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write comments for entity %s: %w", entityID, err)
	}

	return nil
}
