// Package services provides the application services over the workflow
// engine: entity lifecycle, template catalog access, and transition
// application with its commit and event publication.
package services

import (
	"errors"
	"fmt"

	"github.com/flowdeck/flowdeck/pkg/persistence"
	"github.com/flowdeck/flowdeck/pkg/workflow"
)

// Errors surfaced by the underlying layers, re-exported so callers depend on
// the service package only.
var (
	ErrEntityNotFound     = persistence.ErrEntityNotFound
	ErrStaleEntityStatus  = persistence.ErrStaleEntityStatus
	ErrTemplateNotFound   = errors.New("workflow template not found")
	ErrInvalidSourceState = workflow.ErrInvalidSourceState
	ErrConditionNotMet    = workflow.ErrConditionNotMet
	ErrValidationFailed   = workflow.ErrValidationFailed
)

// Request validation errors (400-class).
var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrTitleRequired     = errors.New("entity title is required")
	ErrRequesterRequired = errors.New("entity requester is required")
)

// ServiceError wraps service-level errors with operation context.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// IsValidationError checks if an error should map to HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrTitleRequired) ||
		errors.Is(err, ErrRequesterRequired)
}

// IsNotFound checks if an error should map to HTTP 404.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntityNotFound) ||
		errors.Is(err, ErrTemplateNotFound) ||
		errors.Is(err, workflow.ErrUnknownTransition) ||
		errors.Is(err, workflow.ErrUnknownStatus)
}

// IsConflict checks if an error should map to HTTP 409: the caller acted on
// a stale view of the entity's status.
func IsConflict(err error) bool {
	return errors.Is(err, ErrInvalidSourceState) ||
		errors.Is(err, ErrStaleEntityStatus)
}
