package commands

import (
	"context"

	"exportflow/internal/core/domain/model/milestone"
	"exportflow/internal/core/domain/services"
	"exportflow/internal/core/ports"
)

// RejectDelayRequestCommandHandler rejects delay requests. The schedule is
// left as it is.
type RejectDelayRequestCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

// NewRejectDelayRequestCommandHandler creates a handler for delay rejections.
func NewRejectDelayRequestCommandHandler(uowFactory UoWFactory, clock ports.Clock) RejectDelayRequestCommandHandler {
	return RejectDelayRequestCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

// Handle records the rejection and a DelayRejected audit entry carrying the note.
func (h *RejectDelayRequestCommandHandler) Handle(ctx context.Context, cmd RejectDelayRequestCommand) (DelayDecision, error) {
	if err := cmd.Validate(); err != nil {
		return DelayDecision{}, err
	}

	if !canDecideDelays(cmd.Capability()) {
		return DelayDecision{}, services.NewAuthorizationError(cmd.Actor(), "", "reject delay requests")
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return DelayDecision{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	requests := uow.DelayRequestRepository()

	request, err := requests.Get(ctx, cmd.RequestID())
	if err != nil {
		return DelayDecision{}, err
	}

	now := h.clock.Now()
	if err = request.Reject(cmd.Actor().ID(), now, cmd.Note()); err != nil {
		return DelayDecision{}, err
	}

	if err = requests.Update(ctx, request); err != nil {
		return DelayDecision{}, err
	}

	entry, err := milestone.NewLogEntry(request.OrderID(), request.MilestoneID(), cmd.Actor().ID(),
		milestone.ActionDelayRejected, cmd.Note(), now)
	if err != nil {
		return DelayDecision{}, err
	}

	if err = uow.MilestoneLogRepository().Append(ctx, entry); err != nil {
		return DelayDecision{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return DelayDecision{}, err
	}

	return DelayDecision{Request: request, Entry: entry}, nil
}
