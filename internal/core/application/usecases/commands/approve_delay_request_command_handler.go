package commands

import (
	"context"
	"fmt"
	"time"

	"exportflow/internal/core/domain/catalog"
	"exportflow/internal/core/domain/model/delay"
	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"
	"exportflow/internal/core/domain/model/order"
	"exportflow/internal/core/domain/services"
	"exportflow/internal/core/ports"
	"exportflow/internal/pkg/errs"
)

// DelayDecision is the outcome of a decided delay request.
type DelayDecision struct {
	Request *delay.Request
	// Updated holds the rescheduled milestones in update order. It is empty
	// for a rejection.
	Updated []*milestone.Milestone
	Entry   milestone.LogEntry
}

// ApproveDelayRequestCommandHandler approves delay requests and runs the
// recalculation engine.
//
// The strategy follows the request:
//   - a new anchor date moves the order's anchor and recomputes every milestone
//   - a new due date moves one milestone and shifts the ones due on or after it
//
// Only dates change; statuses are never touched. The decision, the date
// updates and the audit entry are stored in one transaction. A failing update
// is reported as *BatchUpdateError and nothing is stored.
//
// Example:
//
//	decision, err := handler.Handle(ctx, cmd)
//	var batchErr *BatchUpdateError
//	if errors.As(err, &batchErr) {
//	    log.Printf("stopped at %s", batchErr.StepKey)
//	}
type ApproveDelayRequestCommandHandler struct {
	uowFactory   UoWFactory
	catalog      *catalog.Catalog
	recalculator services.DelayRecalculator
	clock        ports.Clock
}

// NewApproveDelayRequestCommandHandler creates a handler for delay approvals.
func NewApproveDelayRequestCommandHandler(
	uowFactory UoWFactory,
	c *catalog.Catalog,
	recalculator services.DelayRecalculator,
	clock ports.Clock,
) ApproveDelayRequestCommandHandler {
	return ApproveDelayRequestCommandHandler{
		uowFactory:   uowFactory,
		catalog:      c,
		recalculator: recalculator,
		clock:        clock,
	}
}

// Handle approves the request and applies it.
func (h *ApproveDelayRequestCommandHandler) Handle(ctx context.Context, cmd ApproveDelayRequestCommand) (DelayDecision, error) {
	if err := cmd.Validate(); err != nil {
		return DelayDecision{}, err
	}

	if !canDecideDelays(cmd.Capability()) {
		return DelayDecision{}, services.NewAuthorizationError(cmd.Actor(), "", "approve delay requests")
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return DelayDecision{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	request, err := uow.DelayRequestRepository().Get(ctx, cmd.RequestID())
	if err != nil {
		return DelayDecision{}, err
	}

	o, err := uow.OrderRepository().Get(ctx, request.OrderID())
	if err != nil {
		return DelayDecision{}, err
	}

	all, err := uow.MilestoneRepository().ListByOrder(ctx, o.ID())
	if err != nil {
		return DelayDecision{}, err
	}

	now := h.clock.Now()
	if err = request.Approve(cmd.Actor().ID(), now, cmd.EvidenceRef()); err != nil {
		return DelayDecision{}, err
	}

	var (
		rec         services.Recalculation
		milestoneID *kernel.UUID
		action      milestone.Action
		note        string
	)
	switch request.Kind() {
	case delay.AnchorChange:
		rec, err = h.changeAnchor(ctx, uow.OrderRepository(), o, *request.ProposedAnchorDate(), all)
		action = milestone.ActionRecalculated
		note = fmt.Sprintf("%s moved to %s", o.TradeTerm().AnchorName(), kernel.FormatDate(*request.ProposedAnchorDate()))
	default:
		var target *milestone.Milestone
		if target, err = milestoneOf(all, *request.MilestoneID()); err == nil {
			rec, err = h.recalculator.Shift(target, *request.ProposedDueDate(), all)
			id := target.ID()
			milestoneID = &id
			action = milestone.ActionDelayShifted
			note = fmt.Sprintf("%s %s", target.Step(), rec.Describe())
		}
	}
	if err != nil {
		return DelayDecision{}, err
	}

	updated, err := applyDateUpdates(ctx, uow.MilestoneRepository(), all, rec.Updates)
	if err != nil {
		return DelayDecision{}, err
	}

	if err = uow.DelayRequestRepository().Update(ctx, request); err != nil {
		return DelayDecision{}, err
	}

	entry, err := milestone.NewLogEntry(o.ID(), milestoneID, cmd.Actor().ID(), action, note, now)
	if err != nil {
		return DelayDecision{}, err
	}

	if err = uow.MilestoneLogRepository().Append(ctx, entry); err != nil {
		return DelayDecision{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return DelayDecision{}, err
	}

	return DelayDecision{Request: request, Updated: updated, Entry: entry}, nil
}

func (h *ApproveDelayRequestCommandHandler) changeAnchor(
	ctx context.Context,
	orders ports.OrderRepository,
	o *order.Order,
	anchor time.Time,
	all []*milestone.Milestone,
) (services.Recalculation, error) {
	if err := o.ChangeAnchor(anchor); err != nil {
		return services.Recalculation{}, err
	}
	if err := orders.Update(ctx, o); err != nil {
		return services.Recalculation{}, err
	}
	return h.recalculator.Recompute(o.Attributes(), h.catalog.TemplatesFor(o.Attributes()), all)
}

func canDecideDelays(c kernel.Capability) bool {
	return c.ApproveDelays || c.Administrator
}

func milestoneOf(all []*milestone.Milestone, id kernel.UUID) (*milestone.Milestone, error) {
	for _, m := range all {
		if m.ID().IsEqual(id) {
			return m, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("milestone", id.String())
}
