// Package models defines the core domain models for the workflow template catalog.
package models

// StatusCategory is the coarse grouping of a status, used by consumers to
// render any template on a generic three-column surface without knowing its
// specific status vocabulary.
type StatusCategory string

const (
	CategoryTodo       StatusCategory = "todo"
	CategoryInProgress StatusCategory = "in_progress"
	CategoryDone       StatusCategory = "done"
)

// Status is a named state an entity may occupy under a given template.
// IDs are unique within the owning template, not globally.
type Status struct {
	ID       string         `json:"id"       validate:"required"`
	Name     string         `json:"name"     validate:"required"`
	Category StatusCategory `json:"category" validate:"required,oneof=todo in_progress done"`
	Color    string         `json:"color,omitempty"` // Display hint only, no semantics
}
