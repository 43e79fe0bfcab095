// Package guard holds the constructor guard embedded by commands, queries and
// domain entities. A zero-value struct carries a zero-value guard and fails
// validation, so objects built with a struct literal are rejected at the first
// Validate call.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by ConstructorGuard.Validate when the
// guard is a zero value and the caller did not supply its own error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a value as produced by its constructor.
//
// Embed it as a private field and set it with NewConstructorGuard in the
// constructor:
//
//	type TransitionMilestoneCommand struct {
//	    milestoneID uuid.UUID
//	    target      milestone.Status
//	    guard       guard.ConstructorGuard
//	}
//
//	func (c TransitionMilestoneCommand) Validate() error {
//	    return c.guard.Validate(ErrTransitionMilestoneCommandIsNotConstructed)
//	}
//
// The guard is a plain value. Copies keep their state and it is safe for
// concurrent reads.
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard in the constructed state.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard. For a zero-value guard it returns
// validationError, or ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
