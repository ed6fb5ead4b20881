package models

import "time"

// Entity is a ticket-like record governed by a workflow template. The
// catalog never defines the full field schema of the host application; any
// field referenced by conditions, validators, or post-functions lives in
// Fields under its string name.
type Entity struct {
	ID          string         `json:"id"`
	TemplateID  string         `json:"template_id" validate:"required"`
	Status      string         `json:"status"      validate:"required"`
	Title       string         `json:"title"       validate:"required"`
	RequesterID string         `json:"requester_id"`
	AssigneeID  string         `json:"assignee_id,omitempty"`
	Fields      map[string]any `json:"fields,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Field returns the named free-form field, or false when unset.
func (e *Entity) Field(name string) (any, bool) {
	if e.Fields == nil {
		return nil, false
	}

	v, ok := e.Fields[name]

	return v, ok
}

// SetField stores a free-form field value, allocating the map on first use.
func (e *Entity) SetField(name string, value any) {
	if e.Fields == nil {
		e.Fields = make(map[string]any)
	}

	e.Fields[name] = value
}

// Comment is an annotation on an entity, written either by a user or by an
// auto_comment post-function.
type Comment struct {
	ID        string    `json:"id"`
	EntityID  string    `json:"entity_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	System    bool      `json:"system"` // true when generated by a post-function
	CreatedAt time.Time `json:"created_at"`
}

// Task is a follow-up work item spawned by a create_tasks post-function.
type Task struct {
	ID        string    `json:"id"`
	EntityID  string    `json:"entity_id"`
	Title     string    `json:"title"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
}
