package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/pkg/errs"
)

// TradeTerm selects the anchor date that drives the schedule.
//
//	FOB -> ship date (ETD at the port of loading)
//	DDP -> arrival date at the customer warehouse
type TradeTerm int

const (
	UnknownTradeTerm TradeTerm = iota
	FOB
	DDP
)

var tradeTermNames = map[TradeTerm]string{
	FOB: "FOB",
	DDP: "DDP",
}

// ParseTradeTerm accepts the case-insensitive term name.
func ParseTradeTerm(s string) (TradeTerm, error) {
	for t, name := range tradeTermNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return UnknownTradeTerm, errs.NewValueIsInvalidErrorWithCause("trade term", fmt.Errorf("%q is not FOB or DDP", s))
}

func (t TradeTerm) Validate() error {
	if _, ok := tradeTermNames[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("trade term", fmt.Errorf("%d is not a valid trade term", t))
	}
	return nil
}

func (t TradeTerm) String() string {
	if name, ok := tradeTermNames[t]; ok {
		return name
	}
	return "Unknown"
}

// AnchorName is the business name of the date the trade term anchors on.
func (t TradeTerm) AnchorName() string {
	if t == DDP {
		return "warehouse date"
	}
	return "ship date"
}

// Category distinguishes production orders from sample runs.
type Category int

const (
	UnknownCategory Category = iota
	Bulk
	Sample
)

var categoryNames = map[Category]string{
	Bulk:   "bulk",
	Sample: "sample",
}

// ParseCategory accepts "bulk" or "sample".
func ParseCategory(s string) (Category, error) {
	for c, name := range categoryNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return UnknownCategory, errs.NewValueIsInvalidErrorWithCause("category", fmt.Errorf("%q is not bulk or sample", s))
}

func (c Category) Validate() error {
	if _, ok := categoryNames[c]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("category", fmt.Errorf("%d is not a valid category", c))
	}
	return nil
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// Packaging distinguishes stock cartons from customer-specific packaging,
// which needs extra lead time for artwork and printing.
type Packaging int

const (
	UnknownPackaging Packaging = iota
	StandardPackaging
	CustomPackaging
)

var packagingNames = map[Packaging]string{
	StandardPackaging: "standard",
	CustomPackaging:   "custom",
}

// ParsePackaging accepts "standard" or "custom".
func ParsePackaging(s string) (Packaging, error) {
	for p, name := range packagingNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return p, nil
		}
	}
	return UnknownPackaging, errs.NewValueIsInvalidErrorWithCause("packaging", fmt.Errorf("%q is not standard or custom", s))
}

func (p Packaging) Validate() error {
	if _, ok := packagingNames[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("packaging", fmt.Errorf("%d is not a valid packaging", p))
	}
	return nil
}

func (p Packaging) String() string {
	if name, ok := packagingNames[p]; ok {
		return name
	}
	return "unknown"
}

// Attributes are the order properties that shape the milestone set and its
// dates. The template catalog and the schedule calculator read nothing else.
type Attributes struct {
	TradeTerm        TradeTerm
	Category         Category
	Packaging        Packaging
	RequiresPPSample bool
	CreatedAt        time.Time
	ShipDate         *time.Time
	WarehouseDate    *time.Time
}

// Validate checks the enumerations and the creation timestamp. Anchor dates
// may be missing on drafts; Anchor reports them when they are needed.
func (a Attributes) Validate() error {
	var createdErr error
	if a.CreatedAt.IsZero() {
		createdErr = errs.NewValueIsRequiredError("created at")
	}
	return errors.Join(
		a.TradeTerm.Validate(),
		a.Category.Validate(),
		a.Packaging.Validate(),
		createdErr,
	)
}

// Anchor returns the date designated by the trade term: the ship date for
// FOB, the warehouse arrival date for DDP.
//
// Returns:
//   - the anchor as a calendar date (not yet shifted to a business day)
//   - ValueIsRequiredError naming the missing date
//   - ValueIsInvalidError for an unknown trade term
func (a Attributes) Anchor() (time.Time, error) {
	switch a.TradeTerm {
	case FOB:
		if a.ShipDate == nil || a.ShipDate.IsZero() {
			return time.Time{}, errs.NewValueIsRequiredErrorWithCause(
				"ship date", errors.New("FOB orders are anchored on the ship date"))
		}
		return kernel.DateOf(*a.ShipDate), nil
	case DDP:
		if a.WarehouseDate == nil || a.WarehouseDate.IsZero() {
			return time.Time{}, errs.NewValueIsRequiredErrorWithCause(
				"warehouse date", errors.New("DDP orders are anchored on the warehouse arrival date"))
		}
		return kernel.DateOf(*a.WarehouseDate), nil
	default:
		return time.Time{}, a.TradeTerm.Validate()
	}
}

// CreatedDate is the creation timestamp truncated to its UTC calendar date.
func (a Attributes) CreatedDate() time.Time {
	return kernel.DateOf(a.CreatedAt)
}

// WithAnchor returns a copy with the trade-term anchor replaced by d.
func (a Attributes) WithAnchor(d time.Time) Attributes {
	d = kernel.DateOf(d)
	if a.TradeTerm == DDP {
		a.WarehouseDate = &d
	} else {
		a.ShipDate = &d
	}
	return a
}
