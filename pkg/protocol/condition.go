// Package protocol defines the interfaces between the transition engine and
// its pluggable components: condition evaluators, field validators, and
// post-function executors.
package protocol

import (
	"context"
	"log/slog"

	"github.com/flowdeck/flowdeck/pkg/models"
)

// Condition evaluates one guard against the transition context. Evaluation
// errors (unknown operator, unusable config) are distinct from a false
// result: an error marks the transition as misconfigured, never as merely
// ineligible.
type Condition interface {
	Evaluate(ctx context.Context, tctx models.TransitionContext, logger *slog.Logger) (bool, error)
}

// ConditionFactory creates condition evaluators bound to a config.
type ConditionFactory interface {
	ID() string
	Name() string
	Description() string
	Schema() map[string]any
	Create(ctx context.Context, config map[string]any) (Condition, error)
}
