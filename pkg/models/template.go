package models

import (
	"errors"
	"fmt"
)

// EntityType is the kind of record a template governs.
type EntityType string

const (
	EntityTypeTicket         EntityType = "ticket"
	EntityTypeServiceRequest EntityType = "service_request"
	EntityTypeChange         EntityType = "change"
	EntityTypeAsset          EntityType = "asset"
	EntityTypeIncident       EntityType = "incident"
)

// ErrMalformedTemplate indicates a template violates a structural invariant.
// Detected at registry-load time so a broken template never enters service.
var ErrMalformedTemplate = errors.New("malformed workflow template")

// ErrUnsupportedOperator indicates a field_value condition uses an operator
// its evaluator does not recognize. A configuration bug, fatal for that
// transition: it must never be silently treated as true or false.
var ErrUnsupportedOperator = errors.New("unsupported operator")

// MalformedTemplateError wraps a structural invariant violation with the
// offending template and a human-readable reason.
type MalformedTemplateError struct {
	TemplateID string
	Reason     string
}

func (e *MalformedTemplateError) Error() string {
	return fmt.Sprintf("malformed template %q: %s", e.TemplateID, e.Reason)
}

func (e *MalformedTemplateError) Is(target error) bool {
	return target == ErrMalformedTemplate
}

// WorkflowConfig is the executable shape of one template: its status
// vocabulary, transition table, and initial status.
type WorkflowConfig struct {
	Statuses      []Status     `json:"statuses"       validate:"required,min=1,dive"`
	Transitions   []Transition `json:"transitions"    validate:"dive"`
	InitialStatus string       `json:"initial_status" validate:"required"`
}

// WorkflowTemplate is a named, immutable workflow definition bundle.
// Templates are created at catalog-definition time and never mutated.
type WorkflowTemplate struct {
	ID          string         `json:"id"          validate:"required"`
	Name        string         `json:"name"        validate:"required,min=3"`
	Description string         `json:"description" validate:"required"`
	EntityType  EntityType     `json:"entity_type" validate:"required,oneof=ticket service_request change asset incident"`
	Category    string         `json:"category,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Config      WorkflowConfig `json:"config"`
}

// StatusByID returns the status with the given id, or false when absent.
func (t *WorkflowTemplate) StatusByID(statusID string) (Status, bool) {
	for _, s := range t.Config.Statuses {
		if s.ID == statusID {
			return s, true
		}
	}

	return Status{}, false
}

// TransitionByID returns the transition with the given id, or false when
// absent. Lookup is by id only: (from,to)-pair addressing is ambiguous by
// design since multiple transitions may share an edge.
func (t *WorkflowTemplate) TransitionByID(transitionID string) (Transition, bool) {
	for _, tr := range t.Config.Transitions {
		if tr.ID == transitionID {
			return tr, true
		}
	}

	return Transition{}, false
}

// ValidateStructure checks the template's structural invariants:
// status ids unique, initial status present, every transition endpoint
// resolving to a declared status. Returns a MalformedTemplateError on the
// first violation found.
func (t *WorkflowTemplate) ValidateStructure() error {
	seen := make(map[string]struct{}, len(t.Config.Statuses))

	for _, s := range t.Config.Statuses {
		if _, dup := seen[s.ID]; dup {
			return &MalformedTemplateError{
				TemplateID: t.ID,
				Reason:     fmt.Sprintf("duplicate status id %q", s.ID),
			}
		}

		seen[s.ID] = struct{}{}
	}

	if _, ok := seen[t.Config.InitialStatus]; !ok {
		return &MalformedTemplateError{
			TemplateID: t.ID,
			Reason:     fmt.Sprintf("initial status %q is not a declared status", t.Config.InitialStatus),
		}
	}

	for _, tr := range t.Config.Transitions {
		if _, ok := seen[tr.FromStatus]; !ok {
			return &MalformedTemplateError{
				TemplateID: t.ID,
				Reason:     fmt.Sprintf("transition %q references unknown from_status %q", tr.ID, tr.FromStatus),
			}
		}

		if _, ok := seen[tr.ToStatus]; !ok {
			return &MalformedTemplateError{
				TemplateID: t.ID,
				Reason:     fmt.Sprintf("transition %q references unknown to_status %q", tr.ID, tr.ToStatus),
			}
		}
	}

	return nil
}
