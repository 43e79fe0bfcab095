package commands

import (
	"errors"
	"math"
	"strings"

	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"
	"exportflow/internal/pkg/errs"
	"exportflow/internal/pkg/guard"
)

var ErrTransitionMilestoneCommandIsNotConstructed = errors.New(
	"TransitionMilestoneCommand must be created via NewTransitionMilestoneCommand constructor",
)

// TransitionMilestoneCommand requests one milestone status change.
type TransitionMilestoneCommand struct {
	milestoneID     kernel.UUID
	target          milestone.Status
	note            string
	actor           kernel.Actor
	capability      kernel.Capability
	expectedVersion *int

	guard guard.ConstructorGuard
}

// NewTransitionMilestoneCommand creates the command.
//
// Parameters:
//   - milestoneID: the milestone to change
//   - target: requested status
//   - note: free text; mandatory when target is Blocked
//   - actor, capability: who asks and what the policy grants them
//   - expectedVersion: the version the caller read, nil to skip the check
//
// Returns:
//   - TransitionMilestoneCommand: the validated command
//   - error: validation errors combined with errors.Join
func NewTransitionMilestoneCommand(
	milestoneID kernel.UUID,
	target milestone.Status,
	note string,
	actor kernel.Actor,
	capability kernel.Capability,
	expectedVersion *int,
) (TransitionMilestoneCommand, error) {
	var noteErr, versionErr error
	note = strings.TrimSpace(note)
	if target == milestone.Blocked && note == "" {
		noteErr = errs.NewValueIsRequiredErrorWithCause("note", errors.New("blocking a milestone needs a reason"))
	}
	if expectedVersion != nil && *expectedVersion < 0 {
		versionErr = errs.NewValueIsOutOfRangeError("expected version", *expectedVersion, 0, math.MaxInt32)
	}

	if err := errors.Join(milestoneID.Validate(), target.Validate(), actor.Validate(), noteErr, versionErr); err != nil {
		return TransitionMilestoneCommand{}, err
	}

	var version *int
	if expectedVersion != nil {
		v := *expectedVersion
		version = &v
	}

	return TransitionMilestoneCommand{
		milestoneID:     milestoneID,
		target:          target,
		note:            note,
		actor:           actor,
		capability:      capability,
		expectedVersion: version,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (c TransitionMilestoneCommand) Validate() error {
	return c.guard.Validate(ErrTransitionMilestoneCommandIsNotConstructed)
}

func (c TransitionMilestoneCommand) MilestoneID() kernel.UUID      { return c.milestoneID }
func (c TransitionMilestoneCommand) Target() milestone.Status      { return c.target }
func (c TransitionMilestoneCommand) Note() string                  { return c.note }
func (c TransitionMilestoneCommand) Actor() kernel.Actor           { return c.actor }
func (c TransitionMilestoneCommand) Capability() kernel.Capability { return c.capability }

// ExpectedVersion returns the version the caller read, or nil.
func (c TransitionMilestoneCommand) ExpectedVersion() *int {
	if c.expectedVersion == nil {
		return nil
	}
	v := *c.expectedVersion
	return &v
}
