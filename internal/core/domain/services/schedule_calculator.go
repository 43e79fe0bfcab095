package services

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"exportflow/internal/core/domain/catalog"
	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"
	"exportflow/internal/core/domain/model/order"
	"exportflow/internal/pkg/errs"
)

// Dates is the computed planned and due date of one milestone.
type Dates struct {
	PlannedAt time.Time
	DueAt     time.Time
}

// Schedule maps every included step to its dates.
type Schedule map[milestone.StepKey]Dates

// ScheduleCalculator derives milestone dates from an order's anchor dates.
// It is pure: identical attributes and templates always give an identical
// schedule, and every date it returns is a business day.
//
// Rules, applied per template:
//   - an anchor-relative rule counts OffsetDays business days from the anchor
//     (shifted back to a business day first)
//   - the lead (|OffsetDays|) is replaced by a trade-term override when one
//     exists, grows by CustomPackagingExtraDays for custom packaging and is
//     halved, rounded up, for sample orders
//   - a chained rule counts OffsetDays from the sibling's due date, or falls
//     back to FallbackOffsetDays from the anchor when the sibling is excluded
//   - the planned date is one business day before the due date
//
// Example:
//
//	calc := services.NewScheduleCalculator()
//	schedule, err := calc.Compute(o.Attributes(), catalog.Default().TemplatesFor(o.Attributes()))
//	if err != nil {
//	    return err // missing anchor date
//	}
//	start := schedule[milestone.ProductionStart].DueAt
type ScheduleCalculator struct{}

// NewScheduleCalculator creates a ScheduleCalculator.
func NewScheduleCalculator() ScheduleCalculator {
	return ScheduleCalculator{}
}

// Compute returns the schedule for templates, which are normally the result
// of catalog.Catalog.TemplatesFor(attrs).
//
// Parameters:
//   - attrs: order attributes carrying trade term, category, packaging and anchors
//   - templates: the milestone templates included for the order, in catalog order
//
// Returns:
//   - Schedule: dates for every template
//   - error: ValueIsRequiredError naming the missing anchor ("ship date" or
//     "warehouse date"), ValueIsInvalidError for duplicate keys or a
//     derived-from cycle
func (c ScheduleCalculator) Compute(attrs order.Attributes, templates []catalog.Template) (Schedule, error) {
	if err := attrs.Validate(); err != nil {
		return nil, err
	}

	ship, err := attrs.Anchor()
	if err != nil {
		return nil, err
	}
	anchors := map[catalog.Anchor]time.Time{
		catalog.AnchorOrderCreated: kernel.ShiftToBusinessDay(attrs.CreatedDate()),
		catalog.AnchorShip:         kernel.ShiftToBusinessDay(ship),
	}

	sequence, err := derivationOrder(templates)
	if err != nil {
		return nil, err
	}

	schedule := make(Schedule, len(templates))
	for _, t := range sequence {
		rule := t.Offset

		var due time.Time
		if sibling, ok := c.sibling(rule, schedule); ok {
			due = kernel.AddBusinessDays(sibling.DueAt, rule.OffsetDays)
		} else {
			anchor, ok := anchors[rule.Anchor]
			if !ok {
				return nil, rule.Anchor.Validate()
			}
			offset := rule.OffsetDays
			if rule.IsChained() {
				offset = rule.FallbackOffsetDays
			}
			due = kernel.AddBusinessDays(anchor, adjustOffset(offset, rule, attrs))
		}

		due = kernel.ShiftToBusinessDay(due)
		schedule[t.Step] = Dates{
			PlannedAt: kernel.SubtractBusinessDays(due, 1),
			DueAt:     due,
		}
	}
	return schedule, nil
}

func (c ScheduleCalculator) sibling(rule catalog.OffsetRule, schedule Schedule) (Dates, bool) {
	if !rule.IsChained() {
		return Dates{}, false
	}
	d, ok := schedule[*rule.DerivedFrom]
	return d, ok
}

// adjustOffset applies the trade-term override, the custom packaging
// extension and sample compression to an anchor-relative offset.
func adjustOffset(offset int, rule catalog.OffsetRule, attrs order.Attributes) int {
	sign := 1
	if offset < 0 {
		sign = -1
	}
	lead := offset * sign

	if override, ok := rule.TradeTermLeads[attrs.TradeTerm]; ok {
		lead = override
	}
	if attrs.Packaging == order.CustomPackaging {
		lead += rule.CustomPackagingExtraDays
	}
	if attrs.Category == order.Sample {
		lead = (lead + 1) / 2
	}
	return sign * lead
}

// derivationOrder sorts templates so that every derived-from sibling comes
// before the templates computed from it (Kahn's algorithm). Ready templates
// are taken in their input order.
func derivationOrder(templates []catalog.Template) ([]catalog.Template, error) {
	index := make(map[milestone.StepKey]int, len(templates))
	for i, t := range templates {
		if _, dup := index[t.Step]; dup {
			return nil, errs.NewValueIsInvalidErrorWithCause("templates", fmt.Errorf("%s is listed twice", t.Step))
		}
		index[t.Step] = i
	}

	inDegree := make([]int, len(templates))
	dependents := make([][]int, len(templates))
	for i, t := range templates {
		if !t.Offset.IsChained() {
			continue
		}
		if from, ok := index[*t.Offset.DerivedFrom]; ok {
			inDegree[i]++
			dependents[from] = append(dependents[from], i)
		}
	}

	var ready []int
	for i, d := range inDegree {
		if d == 0 {
			ready = append(ready, i)
		}
	}

	out := make([]catalog.Template, 0, len(templates))
	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]
		out = append(out, templates[i])

		for _, next := range dependents[i] {
			inDegree[next]--
			if inDegree[next] == 0 {
				ready = append(ready, next)
				slices.Sort(ready)
			}
		}
	}

	if len(out) != len(templates) {
		return nil, errs.NewValueIsInvalidErrorWithCause("templates", errors.New("derived-from cycle"))
	}
	return out, nil
}
