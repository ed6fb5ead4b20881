// Package requiredfield provides the required_field validator: a named
// field must be present and non-empty in the proposed entity state.
package requiredfield

import (
	"context"
	"errors"
	"strings"

	"github.com/flowdeck/flowdeck/pkg/models"
)

type Validator struct {
	Field   string
	Source  string
	Message string
}

func NewValidator(config map[string]any, message string) (*Validator, error) {
	field, _ := config["field"].(string)
	if field == "" {
		return nil, errors.New("required_field validator requires a 'field' name")
	}

	source, _ := config["source"].(string)

	return &Validator{
		Field:   field,
		Source:  source,
		Message: message,
	}, nil
}

// Validate fails when the field is absent or empty. The returned message is
// the validator's declared message, verbatim: it is user-facing copy, not an
// internal error code.
func (v *Validator) Validate(_ context.Context, tctx models.TransitionContext) *models.ValidationFailure {
	value, ok := tctx.FieldValue(v.Field, v.Source)
	if ok && !isEmpty(value) {
		return nil
	}

	return &models.ValidationFailure{
		Field:   v.Field,
		Message: v.Message,
	}
}

func isEmpty(v any) bool {
	switch value := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(value) == ""
	case []any:
		return len(value) == 0
	case map[string]any:
		return len(value) == 0
	default:
		return false
	}
}
