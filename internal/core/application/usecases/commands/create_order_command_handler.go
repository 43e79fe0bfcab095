package commands

import (
	"context"

	"exportflow/internal/core/domain/model/order"
	"exportflow/internal/core/ports"
)

// CreateOrderCommandHandler creates draft orders with a freshly allocated
// order number.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, allocator, clock)
//	created, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
//	fmt.Println(created.Number()) // EX-20240102-0001
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	numbers    ports.OrderNumberAllocator
	clock      ports.Clock
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	numbers ports.OrderNumberAllocator,
	clock ports.Clock,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		numbers:    numbers,
		clock:      clock,
	}
}

// Handle allocates the order number and stores the draft order.
// A number allocated for an order that then fails to store is not reused.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	number, err := h.numbers.Next(ctx, now)
	if err != nil {
		return nil, err
	}

	created, err := order.NewOrder(cmd.OrderID(), number, cmd.CustomerRef(), cmd.Attributes(now))
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

	if err = uow.OrderRepository().Add(ctx, created); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return created, nil
}
