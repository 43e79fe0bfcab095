package order

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/pkg/errs"
	"exportflow/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	numberPattern = regexp.MustCompile(`^EX-\d{8}-\d{4,}$`)
)

// Order is the export order aggregate root. It owns the attributes that the
// milestone schedule is derived from and the Draft -> Active lifecycle.
//
// Order follows these invariants:
//   - the order number has the form EX-YYYYMMDD-NNNN
//   - trade term, category and packaging are known values
//   - an order can only be activated when its trade-term anchor is present
//   - the anchor can only be moved on an active order (delay approval)
type Order struct {
	id          kernel.UUID
	number      string
	customerRef string
	attrs       Attributes
	status      Status

	// version is the optimistic-concurrency counter read from storage.
	version int

	guard guard.ConstructorGuard
}

// NewOrder creates a Draft order.
//
// Parameters:
//   - id: identifier of the new order
//   - number: human readable number issued by the order-number allocator
//   - customerRef: the buyer's PO reference, required
//   - attrs: scheduling attributes, see Attributes.Validate
//
// Returns:
//   - *Order in Draft status
//   - all validation errors joined with errors.Join
//
// Example:
//
//	ship := kernel.NewDate(2024, 3, 1)
//	o, err := order.NewOrder(kernel.NewUUID(), "EX-20240102-0001", "PO-7781", order.Attributes{
//	    TradeTerm: order.FOB,
//	    Category:  order.Bulk,
//	    Packaging: order.StandardPackaging,
//	    CreatedAt: time.Now(),
//	    ShipDate:  &ship,
//	})
func NewOrder(id kernel.UUID, number, customerRef string, attrs Attributes) (*Order, error) {
	o := &Order{
		status: Draft,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setCustomerRef(customerRef),
		o.setAttributes(attrs),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order from storage without resetting its status.
func RestoreOrder(
	id kernel.UUID,
	number, customerRef string,
	attrs Attributes,
	status Status,
	version int,
) (*Order, error) {
	o := &Order{
		status:  status,
		version: version,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setCustomerRef(customerRef),
		o.setAttributes(attrs),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the order was built by NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID           { return o.id }
func (o *Order) Number() string            { return o.number }
func (o *Order) CustomerRef() string       { return o.customerRef }
func (o *Order) Attributes() Attributes    { return o.attrs }
func (o *Order) TradeTerm() TradeTerm      { return o.attrs.TradeTerm }
func (o *Order) Category() Category        { return o.attrs.Category }
func (o *Order) Packaging() Packaging      { return o.attrs.Packaging }
func (o *Order) RequiresPPSample() bool    { return o.attrs.RequiresPPSample }
func (o *Order) CreatedAt() time.Time      { return o.attrs.CreatedAt }
func (o *Order) ShipDate() *time.Time      { return o.attrs.ShipDate }
func (o *Order) WarehouseDate() *time.Time { return o.attrs.WarehouseDate }
func (o *Order) Status() Status            { return o.status }
func (o *Order) Version() int              { return o.version }

// AdvanceVersion records that the current state was stored.
func (o *Order) AdvanceVersion() {
	o.version++
}

// Anchor returns the trade-term anchor date, see Attributes.Anchor.
func (o *Order) Anchor() (time.Time, error) {
	return o.attrs.Anchor()
}

// Activate moves a Draft order to Active. The anchor must be present because
// the milestone set is computed from it in the same transaction.
func (o *Order) Activate() error {
	if _, err := o.attrs.Anchor(); err != nil {
		return err
	}

	newStatus, err := o.status.Activate()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// ChangeAnchor replaces the trade-term anchor of an active order. It is used
// when an anchor-change delay request is approved.
func (o *Order) ChangeAnchor(d time.Time) error {
	if o.status != Active {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s orders have no schedule to move", o.status),
		)
	}
	if d.IsZero() {
		return errs.NewValueIsRequiredError(o.attrs.TradeTerm.AnchorName())
	}

	o.attrs = o.attrs.WithAnchor(d)
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number string) error {
	if !numberPattern.MatchString(number) {
		return errs.NewValueIsInvalidErrorWithCause("order number", fmt.Errorf("%q does not match EX-YYYYMMDD-NNNN", number))
	}
	o.number = number
	return nil
}

func (o *Order) setCustomerRef(ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return errs.NewValueIsRequiredError("customer reference")
	}
	o.customerRef = ref
	return nil
}

func (o *Order) setAttributes(attrs Attributes) error {
	if err := attrs.Validate(); err != nil {
		return err
	}
	if attrs.ShipDate != nil {
		d := kernel.DateOf(*attrs.ShipDate)
		attrs.ShipDate = &d
	}
	if attrs.WarehouseDate != nil {
		d := kernel.DateOf(*attrs.WarehouseDate)
		attrs.WarehouseDate = &d
	}
	o.attrs = attrs
	return nil
}
