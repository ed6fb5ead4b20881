package models

import "time"

// User is the identity on whose behalf a transition is requested. The host
// application supplies it; the catalog only reads it for permission
// conditions and placeholder expansion.
type User struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Permissions []string `json:"permissions,omitempty"`
}

// HasPermission reports whether the user holds the named permission or role.
func (u *User) HasPermission(name string) bool {
	for _, p := range u.Permissions {
		if p == name {
			return true
		}
	}

	return false
}

// Field sources for validator lookups.
const (
	FieldSourceProposed = "proposed"
	FieldSourceEntity   = "entity"
	FieldSourceMerged   = "merged"
)

// TransitionContext bundles the facts a transition is evaluated against:
// the requesting user, the entity's current state, the transition-form
// payload (proposed field values), and the evaluation time.
type TransitionContext struct {
	User     User           `json:"user"`
	Entity   *Entity        `json:"entity"`
	Proposed map[string]any `json:"proposed,omitempty"`
	Now      time.Time      `json:"now,omitempty"`
}

// Timestamp returns the evaluation time, defaulting to the wall clock when
// the caller left Now unset.
func (c *TransitionContext) Timestamp() time.Time {
	if c.Now.IsZero() {
		return time.Now().UTC()
	}

	return c.Now
}

// EntityField reads a field from the entity's current state.
func (c *TransitionContext) EntityField(name string) (any, bool) {
	if c.Entity == nil {
		return nil, false
	}

	return c.Entity.Field(name)
}

// FieldValue resolves a field name against the requested source. The merged
// source prefers the proposed payload and falls back to the entity, which is
// the post-transition view validators check by default.
func (c *TransitionContext) FieldValue(name, source string) (any, bool) {
	switch source {
	case FieldSourceProposed:
		v, ok := c.Proposed[name]

		return v, ok
	case FieldSourceEntity:
		return c.EntityField(name)
	default:
		if v, ok := c.Proposed[name]; ok {
			return v, true
		}

		return c.EntityField(name)
	}
}
