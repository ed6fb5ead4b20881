// Package persistence provides standardized error types and repository
// interfaces for entity, comment, task, and template storage.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrEntityNotFound indicates an entity was not found by the given identifier.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrEntityAlreadyExists indicates an entity with the same identifier already exists.
	ErrEntityAlreadyExists = errors.New("entity already exists")

	// ErrStaleEntityStatus indicates a transition commit lost the race: the
	// stored status no longer matches the transition's source status.
	ErrStaleEntityStatus = errors.New("entity status changed since read")

	// ErrCommentNotFound indicates a comment was not found by the given identifier.
	ErrCommentNotFound = errors.New("comment not found")

	// ErrTaskNotFound indicates a task was not found by the given identifier.
	ErrTaskNotFound = errors.New("task not found")

	// ErrTemplateNotFound indicates a stored template was not found by the given identifier.
	ErrTemplateNotFound = errors.New("template not found")
)

// EntityError wraps entity-related errors with additional context.
type EntityError struct {
	Op       string // Operation being performed (e.g., "GetByID", "Save")
	EntityID string
	Err      error
}

func (e *EntityError) Error() string {
	return fmt.Sprintf("%s operation failed for entity %s: %v", e.Op, e.EntityID, e.Err)
}

func (e *EntityError) Unwrap() error {
	return e.Err
}

func (e *EntityError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewEntityError creates a new entity error with context.
func NewEntityError(op, entityID string, err error) *EntityError {
	return &EntityError{
		Op:       op,
		EntityID: entityID,
		Err:      err,
	}
}

// IsEntityNotFound checks if an error indicates an entity was not found.
func IsEntityNotFound(err error) bool {
	return errors.Is(err, ErrEntityNotFound)
}

// IsEntityAlreadyExists checks if an error indicates an entity id collision.
func IsEntityAlreadyExists(err error) bool {
	return errors.Is(err, ErrEntityAlreadyExists)
}

// IsStaleEntityStatus checks if an error indicates a lost transition race.
func IsStaleEntityStatus(err error) bool {
	return errors.Is(err, ErrStaleEntityStatus)
}

// IsTemplateNotFound checks if an error indicates a stored template was not found.
func IsTemplateNotFound(err error) bool {
	return errors.Is(err, ErrTemplateNotFound)
}
