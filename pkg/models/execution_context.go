package models

import "time"

// ExecutionContext carries everything a post-function executor needs to run
// the side effects of a committed transition: the transitioned entity, the
// governing template and transition, the acting user, and the submitted
// field values for placeholder expansion.
type ExecutionContext struct {
	ID           string         `json:"id"`
	TemplateID   string         `json:"template_id"`
	TransitionID string         `json:"transition_id"`
	Entity       *Entity        `json:"entity"`
	User         User           `json:"user"`
	Proposed     map[string]any `json:"proposed,omitempty"`
	CommittedAt  time.Time      `json:"committed_at"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}
