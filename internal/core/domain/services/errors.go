package services

import (
	"errors"
	"fmt"
	"strings"

	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"
)

var (
	// ErrNotAuthorized is the sentinel wrapped by AuthorizationError.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrDependencyViolation is the sentinel wrapped by DependencyViolationError.
	ErrDependencyViolation = errors.New("dependency violation")
	// ErrEvidenceMissing is the sentinel wrapped by EvidenceMissingError.
	ErrEvidenceMissing = errors.New("evidence missing")
)

// AnyAttachment is reported as missing when a step requires evidence but has
// no document list and nothing is attached.
const AnyAttachment = "any attachment"

// AuthorizationError reports an actor acting outside its role or capability.
type AuthorizationError struct {
	ActorID  string
	Role     kernel.Role
	Required kernel.Role
	Action   string
}

// NewAuthorizationError creates an AuthorizationError. Required may be empty
// when the action needs a capability rather than a role.
func NewAuthorizationError(actor kernel.Actor, required kernel.Role, action string) *AuthorizationError {
	return &AuthorizationError{
		ActorID:  actor.ID(),
		Role:     actor.Role(),
		Required: required,
		Action:   action,
	}
}

func (e *AuthorizationError) Error() string {
	if e.Required == "" {
		return fmt.Sprintf("%s: %s (%s) cannot %s", ErrNotAuthorized, e.ActorID, e.Role, e.Action)
	}
	return fmt.Sprintf("%s: %s (%s) cannot %s, requires role %s",
		ErrNotAuthorized, e.ActorID, e.Role, e.Action, e.Required)
}

func (e *AuthorizationError) Unwrap() error {
	return ErrNotAuthorized
}

// DependencyViolationError reports a required predecessor that is not done.
type DependencyViolationError struct {
	Milestone    milestone.StepKey
	BlockingStep milestone.StepKey
}

// NewDependencyViolationError creates a DependencyViolationError.
func NewDependencyViolationError(step, blocking milestone.StepKey) *DependencyViolationError {
	return &DependencyViolationError{
		Milestone:    step,
		BlockingStep: blocking,
	}
}

func (e *DependencyViolationError) Error() string {
	return fmt.Sprintf("%s: %s cannot start before %s is done", ErrDependencyViolation, e.Milestone, e.BlockingStep)
}

func (e *DependencyViolationError) Unwrap() error {
	return ErrDependencyViolation
}

// EvidenceMissingError enumerates the document types still to be attached.
type EvidenceMissingError struct {
	Milestone milestone.StepKey
	Missing   []string
}

// NewEvidenceMissingError creates an EvidenceMissingError.
func NewEvidenceMissingError(step milestone.StepKey, missing []string) *EvidenceMissingError {
	return &EvidenceMissingError{
		Milestone: step,
		Missing:   missing,
	}
}

func (e *EvidenceMissingError) Error() string {
	return fmt.Sprintf("%s: %s needs %s", ErrEvidenceMissing, e.Milestone, strings.Join(e.Missing, ", "))
}

func (e *EvidenceMissingError) Unwrap() error {
	return ErrEvidenceMissing
}
