// Package web provides the HTTP surface of the template catalog and entity
// transitions.
package web

import "github.com/flowdeck/flowdeck/pkg/models"

// UserPayload identifies the acting user on transition requests. Until an
// identity provider is wired in, callers assert their own permissions.
type UserPayload struct {
	ID          string   `json:"id"                     validate:"required"`
	DisplayName string   `json:"display_name,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

func (u UserPayload) toModel() models.User {
	return models.User{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Permissions: u.Permissions,
	}
}

// CreateEntityRequest represents the request body for opening a new entity.
type CreateEntityRequest struct {
	TemplateID  string         `json:"template_id"            validate:"required"`
	Title       string         `json:"title"                  validate:"required,min=1"`
	RequesterID string         `json:"requester_id"           validate:"required"`
	AssigneeID  string         `json:"assignee_id,omitempty"`
	Fields      map[string]any `json:"fields,omitempty"`
}

// UpdateEntityRequest represents a partial update of an entity's free-form
// fields. Status is never writable here; it only moves via transitions.
type UpdateEntityRequest struct {
	Fields map[string]any `json:"fields" validate:"required,min=1"`
}

// ApplyTransitionRequest represents the request body for applying a
// transition. The transition is addressed by id in the URL; the body
// carries the acting user and the submitted field values.
type ApplyTransitionRequest struct {
	User     UserPayload    `json:"user"               validate:"required"`
	Proposed map[string]any `json:"proposed,omitempty"`
}

// AddCommentRequest represents the request body for commenting on an entity.
type AddCommentRequest struct {
	AuthorID string `json:"author_id" validate:"required"`
	Body     string `json:"body"      validate:"required,min=1"`
}

// TransitionResponse is the filtered view of a transition returned from the
// availability endpoint: enough for a client to render an action button and
// address the transition, without the guard internals.
type TransitionResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
}

func TransformTransitionResponse(transition models.Transition) TransitionResponse {
	return TransitionResponse{
		ID:         transition.ID,
		Name:       transition.Name,
		FromStatus: transition.FromStatus,
		ToStatus:   transition.ToStatus,
	}
}
