package commands

import (
	"errors"
	"time"

	"exportflow/internal/core/domain/model/delay"
	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/pkg/guard"
)

var ErrSubmitDelayRequestCommandIsNotConstructed = errors.New(
	"SubmitDelayRequestCommand must be created via NewSubmitDelayRequestCommand constructor",
)

// DelayProposal is the requester's part of a delay request. Exactly one of
// AnchorDate and DueDate is set; DueDate needs MilestoneID.
type DelayProposal struct {
	MilestoneID                  *kernel.UUID
	Reason                       delay.ReasonCategory
	ReasonText                   string
	AnchorDate                   *time.Time
	DueDate                      *time.Time
	RequiresExternalConfirmation bool
	ConfirmationEvidenceRef      string
}

// SubmitDelayRequestCommand files a delay request against an order.
type SubmitDelayRequestCommand struct {
	requestID kernel.UUID
	orderID   kernel.UUID
	proposal  DelayProposal
	actor     kernel.Actor

	guard guard.ConstructorGuard
}

// NewSubmitDelayRequestCommand creates the command. The proposal itself is
// validated when the request is built, so that the rules live in one place.
func NewSubmitDelayRequestCommand(
	requestID, orderID kernel.UUID,
	proposal DelayProposal,
	actor kernel.Actor,
) (SubmitDelayRequestCommand, error) {
	if err := errors.Join(requestID.Validate(), orderID.Validate(), proposal.Reason.Validate(), actor.Validate()); err != nil {
		return SubmitDelayRequestCommand{}, err
	}

	return SubmitDelayRequestCommand{
		requestID: requestID,
		orderID:   orderID,
		proposal:  proposal,
		actor:     actor,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c SubmitDelayRequestCommand) Validate() error {
	return c.guard.Validate(ErrSubmitDelayRequestCommandIsNotConstructed)
}

func (c SubmitDelayRequestCommand) RequestID() kernel.UUID { return c.requestID }
func (c SubmitDelayRequestCommand) OrderID() kernel.UUID   { return c.orderID }
func (c SubmitDelayRequestCommand) Actor() kernel.Actor    { return c.actor }

// Submission builds the request fields as of requestedAt.
func (c SubmitDelayRequestCommand) Submission(requestedAt time.Time) delay.Submission {
	return delay.Submission{
		OrderID:                      c.orderID,
		MilestoneID:                  c.proposal.MilestoneID,
		Reason:                       c.proposal.Reason,
		ReasonText:                   c.proposal.ReasonText,
		ProposedAnchorDate:           dateOrNil(c.proposal.AnchorDate),
		ProposedDueDate:              dateOrNil(c.proposal.DueDate),
		RequiresExternalConfirmation: c.proposal.RequiresExternalConfirmation,
		ConfirmationEvidenceRef:      c.proposal.ConfirmationEvidenceRef,
		RequestedBy:                  c.actor.ID(),
		RequestedAt:                  requestedAt,
	}
}
