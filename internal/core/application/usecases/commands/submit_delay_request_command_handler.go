package commands

import (
	"context"
	"fmt"

	"exportflow/internal/core/domain/model/delay"
	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"
	"exportflow/internal/core/domain/model/order"
	"exportflow/internal/core/ports"
	"exportflow/internal/pkg/errs"
)

// SubmitDelayRequestCommandHandler stores pending delay requests.
type SubmitDelayRequestCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

// NewSubmitDelayRequestCommandHandler creates a handler for delay submissions.
func NewSubmitDelayRequestCommandHandler(uowFactory UoWFactory, clock ports.Clock) SubmitDelayRequestCommandHandler {
	return SubmitDelayRequestCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

// Handle validates the request against the order and stores it as Pending
// together with a DelaySubmitted audit entry.
//
// Returns:
//   - *delay.Request: the stored request
//   - error: ValueIsInvalidError when the order is not active or the
//     milestone belongs to another order, ObjectNotFoundError for unknown
//     identifiers, or a submission validation error
func (h *SubmitDelayRequestCommandHandler) Handle(ctx context.Context, cmd SubmitDelayRequestCommand) (*delay.Request, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	request, err := delay.NewRequest(cmd.RequestID(), cmd.Submission(h.clock.Now()))
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, request.OrderID())
	if err != nil {
		return nil, err
	}
	if o.Status() != order.Active {
		return nil, errs.NewValueIsInvalidErrorWithCause("order status",
			fmt.Errorf("delays can only be requested for active orders, %s is %s", o.Number(), o.Status()))
	}

	if id := request.MilestoneID(); id != nil {
		m, getErr := uow.MilestoneRepository().Get(ctx, *id)
		if getErr != nil {
			return nil, getErr
		}
		if !m.OrderID().IsEqual(o.ID()) {
			return nil, errs.NewValueIsInvalidErrorWithCause("milestone id",
				fmt.Errorf("milestone %s does not belong to order %s", id, o.Number()))
		}
	}

	if err = uow.DelayRequestRepository().Add(ctx, request); err != nil {
		return nil, err
	}

	entry, err := milestone.NewLogEntry(o.ID(), request.MilestoneID(), cmd.Actor().ID(),
		milestone.ActionDelaySubmitted, submissionNote(o, request), request.RequestedAt())
	if err != nil {
		return nil, err
	}

	if err = uow.MilestoneLogRepository().Append(ctx, entry); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return request, nil
}

func submissionNote(o *order.Order, r *delay.Request) string {
	if d := r.ProposedAnchorDate(); d != nil {
		return fmt.Sprintf("%s: proposed %s %s", r.Reason(), o.TradeTerm().AnchorName(), kernel.FormatDate(*d))
	}
	return fmt.Sprintf("%s: proposed due date %s", r.Reason(), kernel.FormatDate(*r.ProposedDueDate()))
}
