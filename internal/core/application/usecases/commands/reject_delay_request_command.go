package commands

import (
	"errors"
	"strings"

	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/pkg/errs"
	"exportflow/internal/pkg/guard"
)

var ErrRejectDelayRequestCommandIsNotConstructed = errors.New(
	"RejectDelayRequestCommand must be created via NewRejectDelayRequestCommand constructor",
)

// RejectDelayRequestCommand rejects a pending delay request.
type RejectDelayRequestCommand struct {
	requestID  kernel.UUID
	note       string
	actor      kernel.Actor
	capability kernel.Capability

	guard guard.ConstructorGuard
}

// NewRejectDelayRequestCommand creates the command. The note is mandatory.
func NewRejectDelayRequestCommand(
	requestID kernel.UUID,
	note string,
	actor kernel.Actor,
	capability kernel.Capability,
) (RejectDelayRequestCommand, error) {
	var noteErr error
	note = strings.TrimSpace(note)
	if note == "" {
		noteErr = errs.NewValueIsRequiredError("rejection note")
	}

	if err := errors.Join(requestID.Validate(), actor.Validate(), noteErr); err != nil {
		return RejectDelayRequestCommand{}, err
	}

	return RejectDelayRequestCommand{
		requestID:  requestID,
		note:       note,
		actor:      actor,
		capability: capability,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c RejectDelayRequestCommand) Validate() error {
	return c.guard.Validate(ErrRejectDelayRequestCommandIsNotConstructed)
}

func (c RejectDelayRequestCommand) RequestID() kernel.UUID        { return c.requestID }
func (c RejectDelayRequestCommand) Note() string                  { return c.note }
func (c RejectDelayRequestCommand) Actor() kernel.Actor           { return c.actor }
func (c RejectDelayRequestCommand) Capability() kernel.Capability { return c.capability }
