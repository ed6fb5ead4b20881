package protocol

import (
	"context"
	"log/slog"

	"github.com/flowdeck/flowdeck/pkg/models"
)

// PostFunction performs one declared side effect after a transition has
// committed. Execution failures are the caller's to log; they never roll
// back the status change.
type PostFunction interface {
	Execute(ctx context.Context, execCtx models.ExecutionContext, logger *slog.Logger) error
}

// PostFunctionFactory creates post-function executors bound to a config.
type PostFunctionFactory interface {
	ID() string
	Name() string
	Description() string
	Schema() map[string]any
	Create(ctx context.Context, config map[string]any) (PostFunction, error)
}
