// Package permission provides the permission guard condition: the
// requesting user must hold a named permission or role.
package permission

import (
	"context"
	"errors"
	"log/slog"

	"github.com/flowdeck/flowdeck/pkg/models"
)

type Condition struct {
	Required string
}

func NewCondition(config map[string]any) (*Condition, error) {
	required, _ := config["required"].(string)
	if required == "" {
		return nil, errors.New("permission condition requires a 'required' permission name")
	}

	return &Condition{Required: required}, nil
}

func (c *Condition) Evaluate(_ context.Context, tctx models.TransitionContext, _ *slog.Logger) (bool, error) {
	return tctx.User.HasPermission(c.Required), nil
}
