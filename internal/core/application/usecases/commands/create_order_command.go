package commands

import (
	"errors"
	"strings"
	"time"

	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/order"
	"exportflow/internal/pkg/errs"
	"exportflow/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand registers a new export order as a draft.
// The creation timestamp and the order number are assigned by the handler.
//
// Example:
//
//	ship := kernel.NewDate(2024, 3, 1)
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), "PO-4471", order.FOB, order.Bulk,
//	    order.StandardPackaging, true, &ship, nil)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID          kernel.UUID
	customerRef      string
	tradeTerm        order.TradeTerm
	category         order.Category
	packaging        order.Packaging
	requiresPPSample bool
	shipDate         *time.Time
	warehouseDate    *time.Time

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the order data. Anchor dates are optional
// on a draft but must be present before activation.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	customerRef string,
	tradeTerm order.TradeTerm,
	category order.Category,
	packaging order.Packaging,
	requiresPPSample bool,
	shipDate, warehouseDate *time.Time,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		requiresPPSample: requiresPPSample,
		shipDate:         dateOrNil(shipDate),
		warehouseDate:    dateOrNil(warehouseDate),
		guard:            guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCustomerRef(customerRef),
		cmd.setEnums(tradeTerm, category, packaging),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateOrderCommand) CustomerRef() string {
	return c.customerRef
}

// Attributes returns the order attributes stamped with createdAt.
func (c CreateOrderCommand) Attributes(createdAt time.Time) order.Attributes {
	return order.Attributes{
		TradeTerm:        c.tradeTerm,
		Category:         c.category,
		Packaging:        c.packaging,
		RequiresPPSample: c.requiresPPSample,
		CreatedAt:        createdAt.UTC(),
		ShipDate:         c.shipDate,
		WarehouseDate:    c.warehouseDate,
	}
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCustomerRef(ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return errs.NewValueIsRequiredError("customer reference")
	}

	c.customerRef = ref
	return nil
}

func (c *CreateOrderCommand) setEnums(tradeTerm order.TradeTerm, category order.Category, packaging order.Packaging) error {
	if err := errors.Join(tradeTerm.Validate(), category.Validate(), packaging.Validate()); err != nil {
		return err
	}

	c.tradeTerm = tradeTerm
	c.category = category
	c.packaging = packaging
	return nil
}

func dateOrNil(d *time.Time) *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	day := kernel.DateOf(*d)
	return &day
}
