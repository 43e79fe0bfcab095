package commands

import (
	"context"

	"exportflow/internal/core/domain/catalog"
	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"
	"exportflow/internal/core/domain/services"
)

// ActivateOrderCommandHandler activates an order and creates its milestones.
//
// The milestone set is created once, in full, in the same transaction as the
// status change. Activating an order twice fails because the order is no
// longer a draft.
//
// Example:
//
//	handler := NewActivateOrderCommandHandler(uowFactory, catalog.Default(), services.NewScheduleCalculator())
//	cmd, _ := NewActivateOrderCommand(orderID, actor, capability)
//	milestones, err := handler.Handle(ctx, cmd)
//	var required *errs.ValueIsRequiredError
//	if errors.As(err, &required) {
//	    // the anchor date named by required.ParamName is missing
//	}
type ActivateOrderCommandHandler struct {
	uowFactory UoWFactory
	catalog    *catalog.Catalog
	calculator services.ScheduleCalculator
}

// NewActivateOrderCommandHandler creates a handler for order activation.
func NewActivateOrderCommandHandler(
	uowFactory UoWFactory,
	c *catalog.Catalog,
	calculator services.ScheduleCalculator,
) ActivateOrderCommandHandler {
	return ActivateOrderCommandHandler{
		uowFactory: uowFactory,
		catalog:    c,
		calculator: calculator,
	}
}

// Handle activates the order and returns the generated milestones in
// catalog order.
func (h *ActivateOrderCommandHandler) Handle(ctx context.Context, cmd ActivateOrderCommand) ([]*milestone.Milestone, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if !cmd.Capability().CanActAs(cmd.Actor(), kernel.RoleMerchandiser) {
		return nil, services.NewAuthorizationError(cmd.Actor(), kernel.RoleMerchandiser, "activate orders")
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	milestoneRepo := uow.MilestoneRepository()

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = o.Activate(); err != nil {
		return nil, err
	}

	templates := h.catalog.TemplatesFor(o.Attributes())
	schedule, err := h.calculator.Compute(o.Attributes(), templates)
	if err != nil {
		return nil, err
	}

	milestones := make([]*milestone.Milestone, 0, len(templates))
	for _, t := range templates {
		dates := schedule[t.Step]
		m, newErr := milestone.NewMilestone(kernel.NewUUID(), o.ID(), t.Definition, dates.PlannedAt, dates.DueAt)
		if newErr != nil {
			return nil, newErr
		}
		milestones = append(milestones, m)
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = milestoneRepo.AddAll(ctx, milestones); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return milestones, nil
}
