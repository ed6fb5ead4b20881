// Package autocomment implements the auto_comment post-function: it records
// a system comment on the entity's timeline after a transition commits.
package autocomment

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
	body     string
	comments persistence.CommentRepository
}

func NewPostFunction(config map[string]any, comments persistence.CommentRepository) (*PostFunction, error) {
	body, _ := config["body"].(string)
	if body == "" {
		return nil, fmt.Errorf("auto_comment post-function requires a body")
	}

	return &PostFunction{body: body, comments: comments}, nil
}

func (p *PostFunction) Execute(ctx context.Context, execCtx models.ExecutionContext, logger *slog.Logger) error {
	logger = logger.With("post_function", "auto_comment")

	comment := &models.Comment{
		ID:        uuid.New().String(),
		EntityID:  execCtx.Entity.ID,
		AuthorID:  execCtx.User.ID,
		Body:      p.body,
		System:    true,
		CreatedAt: time.Now().UTC(),
	}

	if err := p.comments.Create(ctx, comment); err != nil {
		return fmt.Errorf("failed to create comment on entity %s: %w", execCtx.Entity.ID, err)
	}

	logger.Info("System comment added", "comment_id", comment.ID)

	return nil
}
