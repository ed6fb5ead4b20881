// Package requester provides the user_is_requester guard condition: the
// requesting user must be the entity's original requester.
package requester

import (
	"context"
	"log/slog"

	"github.com/flowdeck/flowdeck/pkg/models"
)

type Condition struct{}

func NewCondition(_ map[string]any) *Condition {
	return &Condition{}
}

func (c *Condition) Evaluate(_ context.Context, tctx models.TransitionContext, _ *slog.Logger) (bool, error) {
	if tctx.Entity == nil || tctx.User.ID == "" {
		return false, nil
	}

	return tctx.User.ID == tctx.Entity.RequesterID, nil
}
