// Package workflow implements the transition engine over workflow templates:
// status vocabulary lookups, structural transition availability, guard
// evaluation, field validation, and transition application.
package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/flowdeck/flowdeck/pkg/models"
)

// Standard transition error kinds. All are returned as values; none abort
// the process.
var (
	// ErrUnknownStatus indicates a status id absent from the template.
	ErrUnknownStatus = errors.New("unknown status")

	// ErrUnknownTransition indicates a transition id absent from the template.
	ErrUnknownTransition = errors.New("unknown transition")

	// ErrInvalidSourceState indicates the entity's current status does not
	// match the transition's from_status. The caller holds a stale read and
	// must reload before retrying.
	ErrInvalidSourceState = errors.New("entity status does not match transition source")

	// ErrConditionNotMet indicates a guard condition evaluated false. This is
	// an expected outcome surfaced to the end user, not a bug.
	ErrConditionNotMet = errors.New("transition condition not met")

	// ErrValidationFailed indicates one or more field validators failed.
	ErrValidationFailed = errors.New("transition validation failed")
)

// ErrUnsupportedOperator is returned when a field_value condition uses an
// operator the evaluator does not recognize. This is a template
// configuration bug and is fatal for that transition.
var ErrUnsupportedOperator = models.ErrUnsupportedOperator

// ConditionNotMetError carries the specific failing condition for
// diagnostic display.
type ConditionNotMetError struct {
	TransitionID string
	Condition    models.Condition
}

func (e *ConditionNotMetError) Error() string {
	return fmt.Sprintf("transition %q blocked by %s condition", e.TransitionID, e.Condition.Type)
}

func (e *ConditionNotMetError) Is(target error) bool {
	return target == ErrConditionNotMet
}

// ValidationError carries the full list of validator failures. Messages are
// user-facing and must reach the caller unmodified.
type ValidationError struct {
	TransitionID string
	Failures     []models.ValidationFailure
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		msgs = append(msgs, f.Message)
	}

	return fmt.Sprintf("transition %q validation failed: %s", e.TransitionID, strings.Join(msgs, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// TransitionError wraps engine errors with the operation and template for
// log context.
type TransitionError struct {
	Op         string
	TemplateID string
	EntityID   string
	Err        error
}

func (e *TransitionError) Error() string {
	if e.EntityID != "" {
		return fmt.Sprintf("%s failed for entity %s under template %s: %v", e.Op, e.EntityID, e.TemplateID, e.Err)
	}

	return fmt.Sprintf("%s failed under template %s: %v", e.Op, e.TemplateID, e.Err)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

// IsUnknownStatus checks if an error indicates a status lookup miss.
func IsUnknownStatus(err error) bool {
	return errors.Is(err, ErrUnknownStatus)
}

// IsUnknownTransition checks if an error indicates a transition lookup miss.
func IsUnknownTransition(err error) bool {
	return errors.Is(err, ErrUnknownTransition)
}

// IsInvalidSourceState checks if an error indicates a stale source status.
func IsInvalidSourceState(err error) bool {
	return errors.Is(err, ErrInvalidSourceState)
}

// IsConditionNotMet checks if an error indicates a failed guard condition.
func IsConditionNotMet(err error) bool {
	return errors.Is(err, ErrConditionNotMet)
}

// IsValidationFailed checks if an error indicates failed field validation.
func IsValidationFailed(err error) bool {
	return errors.Is(err, ErrValidationFailed)
}

// IsUnsupportedOperator checks if an error indicates a misconfigured
// field_value operator.
func IsUnsupportedOperator(err error) bool {
	return errors.Is(err, ErrUnsupportedOperator)
}
