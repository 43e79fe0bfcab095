package commands

import (
	"errors"
	"strings"

	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/pkg/guard"
)

var ErrApproveDelayRequestCommandIsNotConstructed = errors.New(
	"ApproveDelayRequestCommand must be created via NewApproveDelayRequestCommand constructor",
)

// ApproveDelayRequestCommand approves a pending delay request and applies it
// to the schedule.
type ApproveDelayRequestCommand struct {
	requestID   kernel.UUID
	evidenceRef string
	actor       kernel.Actor
	capability  kernel.Capability

	guard guard.ConstructorGuard
}

// NewApproveDelayRequestCommand creates the command. evidenceRef is the
// external confirmation and may be empty when the request carries one or
// needs none.
func NewApproveDelayRequestCommand(
	requestID kernel.UUID,
	evidenceRef string,
	actor kernel.Actor,
	capability kernel.Capability,
) (ApproveDelayRequestCommand, error) {
	if err := errors.Join(requestID.Validate(), actor.Validate()); err != nil {
		return ApproveDelayRequestCommand{}, err
	}

	return ApproveDelayRequestCommand{
		requestID:   requestID,
		evidenceRef: strings.TrimSpace(evidenceRef),
		actor:       actor,
		capability:  capability,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c ApproveDelayRequestCommand) Validate() error {
	return c.guard.Validate(ErrApproveDelayRequestCommandIsNotConstructed)
}

func (c ApproveDelayRequestCommand) RequestID() kernel.UUID        { return c.requestID }
func (c ApproveDelayRequestCommand) EvidenceRef() string           { return c.evidenceRef }
func (c ApproveDelayRequestCommand) Actor() kernel.Actor           { return c.actor }
func (c ApproveDelayRequestCommand) Capability() kernel.Capability { return c.capability }
