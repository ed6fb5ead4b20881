package protocol

import (
	"context"

	"github.com/flowdeck/flowdeck/pkg/models"
)

// FieldValidator checks the proposed entity state at transition time. A nil
// result means the check passed; a non-nil result carries the validator's
// user-facing message verbatim.
type FieldValidator interface {
	Validate(ctx context.Context, tctx models.TransitionContext) *models.ValidationFailure
}

// ValidatorFactory creates field validators bound to a config and the
// declared failure message.
type ValidatorFactory interface {
	ID() string
	Name() string
	Description() string
	Schema() map[string]any
	Create(ctx context.Context, config map[string]any, message string) (FieldValidator, error)
}
