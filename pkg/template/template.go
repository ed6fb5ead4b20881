// Package template provides placeholder expansion for post-function config
// values. Config strings may embed {{now}}, {{user.id}}, {{user.name}},
// {{entity.<attr>}}, and {{context.<field>}} placeholders, resolved against
// the transition-time execution context.
package template

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/flowdeck/flowdeck/pkg/models"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_.]+)\s*\}\}`)

// Expand substitutes every recognized placeholder in input. Unrecognized
// placeholders are left intact so misconfigurations stay visible in the
// produced output instead of vanishing silently.
func Expand(input string, execCtx models.ExecutionContext) string {
	return placeholderPattern.ReplaceAllStringFunc(input, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]

		value, ok := resolve(name, execCtx)
		if !ok {
			return match
		}

		return value
	})
}

// ExpandConfig returns a copy of config with every string value expanded,
// recursing into nested maps and slices. The input map is not mutated.
func ExpandConfig(config map[string]any, execCtx models.ExecutionContext) map[string]any {
	if config == nil {
		return nil
	}

	expanded := make(map[string]any, len(config))
	for k, v := range config {
		expanded[k] = expandValue(v, execCtx)
	}

	return expanded
}

func expandValue(v any, execCtx models.ExecutionContext) any {
	switch value := v.(type) {
	case string:
		return Expand(value, execCtx)
	case map[string]any:
		return ExpandConfig(value, execCtx)
	case []any:
		expanded := make([]any, len(value))
		for i, item := range value {
			expanded[i] = expandValue(item, execCtx)
		}

		return expanded
	default:
		return v
	}
}

func resolve(name string, execCtx models.ExecutionContext) (string, bool) {
	switch name {
	case "now":
		now := execCtx.CommittedAt
		if now.IsZero() {
			now = time.Now().UTC()
		}

		return now.Format(time.RFC3339), true
	case "user.id":
		return execCtx.User.ID, true
	case "user.name", "user.display_name":
		return execCtx.User.DisplayName, true
	}

	const contextPrefix = "context."
	if len(name) > len(contextPrefix) && name[:len(contextPrefix)] == contextPrefix {
		return resolveContextField(name[len(contextPrefix):], execCtx)
	}

	const entityPrefix = "entity."
	if len(name) > len(entityPrefix) && name[:len(entityPrefix)] == entityPrefix {
		return resolveEntityAttr(name[len(entityPrefix):], execCtx)
	}

	return "", false
}

// resolveContextField reads a submitted field value, falling back to the
// entity's stored fields, matching the merged view validators check.
func resolveContextField(field string, execCtx models.ExecutionContext) (string, bool) {
	if v, ok := execCtx.Proposed[field]; ok {
		return formatValue(v), true
	}

	if execCtx.Entity != nil {
		if v, ok := execCtx.Entity.Field(field); ok {
			return formatValue(v), true
		}
	}

	return "", false
}

func resolveEntityAttr(attr string, execCtx models.ExecutionContext) (string, bool) {
	if execCtx.Entity == nil {
		return "", false
	}

	switch attr {
	case "id":
		return execCtx.Entity.ID, true
	case "status":
		return execCtx.Entity.Status, true
	case "title":
		return execCtx.Entity.Title, true
	case "requester_id":
		return execCtx.Entity.RequesterID, true
	case "assignee_id":
		return execCtx.Entity.AssigneeID, true
	default:
		if v, ok := execCtx.Entity.Field(attr); ok {
			return formatValue(v), true
		}

		return "", false
	}
}

func formatValue(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case time.Time:
		return value.Format(time.RFC3339)
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}

		return string(encoded)
	}
}
