package catalog

import (
	"fmt"

	"exportflow/internal/core/domain/model/milestone"
	"exportflow/internal/core/domain/model/order"
	"exportflow/internal/pkg/errs"
)

// Anchor names the date an offset is measured from.
type Anchor int

const (
	UnknownAnchor Anchor = iota
	// AnchorOrderCreated is the UTC calendar date the order was created.
	AnchorOrderCreated
	// AnchorShip is the trade-term anchor: the ship date for FOB orders and
	// the warehouse arrival date for DDP orders.
	AnchorShip
)

func (a Anchor) Validate() error {
	if a != AnchorOrderCreated && a != AnchorShip {
		return errs.NewValueIsInvalidErrorWithCause("offset anchor", fmt.Errorf("%d is not a valid anchor", a))
	}
	return nil
}

func (a Anchor) String() string {
	switch a {
	case AnchorOrderCreated:
		return "created"
	case AnchorShip:
		return "ship"
	default:
		return "unknown"
	}
}

// OffsetRule derives a template's due date in business days.
//
// A rule is either anchor-relative (DerivedFrom nil: Anchor + OffsetDays), or
// chained (DerivedFrom set: the sibling's due date + OffsetDays). A chained
// rule whose sibling is excluded for the order falls back to
// Anchor + FallbackOffsetDays.
type OffsetRule struct {
	Anchor      Anchor
	OffsetDays  int
	DerivedFrom *milestone.StepKey

	FallbackOffsetDays int

	// TradeTermLeads replaces |OffsetDays| for the listed trade terms.
	TradeTermLeads map[order.TradeTerm]int

	// CustomPackagingExtraDays lengthens the lead when the order has custom
	// packaging.
	CustomPackagingExtraDays int
}

// IsChained reports whether the rule is computed from a sibling's due date.
func (r OffsetRule) IsChained() bool {
	return r.DerivedFrom != nil
}

// Template is an immutable milestone template.
type Template struct {
	milestone.Definition

	Offset OffsetRule

	// Include decides whether the template applies to an order. Nil means always.
	Include func(order.Attributes) bool
}

// AppliesTo reports whether the template is part of the milestone set of an
// order with the given attributes.
func (t Template) AppliesTo(attrs order.Attributes) bool {
	return t.Include == nil || t.Include(attrs)
}

func derivedFrom(k milestone.StepKey) *milestone.StepKey {
	return &k
}

func requiresPPSample(attrs order.Attributes) bool {
	return attrs.RequiresPPSample
}
