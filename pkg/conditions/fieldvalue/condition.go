// Package fieldvalue provides the field_value guard condition: an entity
// field compared against a configured value or value set.
package fieldvalue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strconv"

	"github.com/flowdeck/flowdeck/pkg/models"
)

// Supported comparison operators. The set is open in the template format;
// an operator outside this set fails loudly with ErrUnsupportedOperator
// rather than evaluating to false.
const (
	OperatorEq    = "eq"
	OperatorNe    = "ne"
	OperatorIn    = "in"
	OperatorNotIn = "not_in"
	OperatorGt    = "gt"
	OperatorGte   = "gte"
	OperatorLt    = "lt"
	OperatorLte   = "lte"
)

type Condition struct {
	Field    string
	Operator string
	Value    any
	Values   []any
	Source   string
}

func NewCondition(config map[string]any) (*Condition, error) {
	field, _ := config["field"].(string)
	if field == "" {
		return nil, errors.New("field_value condition requires a 'field' name")
	}

	operator, _ := config["operator"].(string)
	if operator == "" {
		operator = OperatorEq
	}

	source, _ := config["source"].(string)

	cond := &Condition{
		Field:    field,
		Operator: operator,
		Value:    config["value"],
		Source:   source,
	}

	if raw, ok := config["values"]; ok {
		values, ok := raw.([]any)
		if !ok {
			// Typed slices appear when templates are defined in Go code
			// rather than decoded from JSON.
			rv := reflect.ValueOf(raw)
			if rv.Kind() != reflect.Slice {
				return nil, fmt.Errorf("field_value condition 'values' must be a list, got %T", raw)
			}

			values = make([]any, rv.Len())
			for i := range rv.Len() {
				values[i] = rv.Index(i).Interface()
			}
		}

		cond.Values = values
	}

	return cond, nil
}

func (c *Condition) Evaluate(_ context.Context, tctx models.TransitionContext, _ *slog.Logger) (bool, error) {
	actual, _ := tctx.FieldValue(c.Field, c.Source)

	switch c.Operator {
	case OperatorEq:
		return looseEqual(actual, c.Value), nil
	case OperatorNe:
		return !looseEqual(actual, c.Value), nil
	case OperatorIn:
		return c.contains(actual), nil
	case OperatorNotIn:
		return !c.contains(actual), nil
	case OperatorGt, OperatorGte, OperatorLt, OperatorLte:
		return compareOrdered(c.Operator, actual, c.Value)
	default:
		return false, fmt.Errorf("field_value condition on %q: operator %q: %w",
			c.Field, c.Operator, models.ErrUnsupportedOperator)
	}
}

func (c *Condition) contains(actual any) bool {
	for _, v := range c.Values {
		if looseEqual(actual, v) {
			return true
		}
	}

	return false
}

// looseEqual compares values the way JSON round-tripping produces them:
// numbers normalize to float64, everything else compares structurally.
func looseEqual(a, b any) bool {
	if fa, ok := asFloat(a); ok {
		if fb, ok := asFloat(b); ok {
			return fa == fb
		}

		return false
	}

	return reflect.DeepEqual(a, b)
}

func compareOrdered(operator string, actual, expected any) (bool, error) {
	fa, okA := asFloat(actual)

	fb, okB := asFloat(expected)
	if !okA || !okB {
		return false, fmt.Errorf("operator %q requires numeric operands, got %T and %T",
			operator, actual, expected)
	}

	switch operator {
	case OperatorGt:
		return fa > fb, nil
	case OperatorGte:
		return fa >= fb, nil
	case OperatorLt:
		return fa < fb, nil
	default:
		return fa <= fb, nil
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)

		return f, err == nil
	default:
		return 0, false
	}
}
