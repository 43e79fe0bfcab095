package services

import (
	"fmt"
	"time"

	"exportflow/internal/core/domain/catalog"
	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"
	"exportflow/internal/core/domain/model/order"
	"exportflow/internal/pkg/errs"
)

// DateUpdate is the absolute new schedule of one milestone. Applying the same
// update twice gives the same result.
type DateUpdate struct {
	MilestoneID kernel.UUID
	Step        milestone.StepKey
	PlannedAt   time.Time
	DueAt       time.Time
}

// Recalculation is the batch produced for an approved delay.
type Recalculation struct {
	Updates []DateUpdate
	// DeltaDays is the calendar-day shift of a single-milestone change. It is
	// zero for an anchor change.
	DeltaDays int
}

// DelayRecalculator turns an approved delay into date updates. Statuses are
// never changed.
type DelayRecalculator struct {
	calculator ScheduleCalculator
}

// NewDelayRecalculator creates a DelayRecalculator.
func NewDelayRecalculator(calculator ScheduleCalculator) DelayRecalculator {
	return DelayRecalculator{calculator: calculator}
}

// Recompute re-derives every milestone from the order's current anchor, which
// the caller has already changed.
//
// Parameters:
//   - attrs: order attributes with the new anchor date
//   - templates: the order's templates (catalog.Catalog.TemplatesFor(attrs))
//   - all: every milestone of the order
//
// Returns:
//   - Recalculation: one update per milestone
//   - error: when the anchor is missing or a milestone has no template
func (r DelayRecalculator) Recompute(
	attrs order.Attributes,
	templates []catalog.Template,
	all []*milestone.Milestone,
) (Recalculation, error) {
	schedule, err := r.calculator.Compute(attrs, templates)
	if err != nil {
		return Recalculation{}, err
	}

	updates := make([]DateUpdate, 0, len(all))
	for _, m := range all {
		dates, ok := schedule[m.Step()]
		if !ok {
			return Recalculation{}, errs.NewObjectNotFoundErrorWithCause("template", m.Step(),
				fmt.Errorf("milestone %s has no template for the order", m.ID()))
		}
		updates = append(updates, DateUpdate{
			MilestoneID: m.ID(),
			Step:        m.Step(),
			PlannedAt:   dates.PlannedAt,
			DueAt:       dates.DueAt,
		})
	}
	return Recalculation{Updates: updates}, nil
}

// Shift moves target to newDue and every other milestone due on or after
// target's original due date by the same number of calendar days. A shifted
// date that lands on a weekend moves back to the preceding Friday.
//
// Parameters:
//   - target: the milestone named by the delay request
//   - newDue: the proposed due date, a business day
//   - all: every milestone of the order
//
// Returns:
//   - Recalculation: updates for target and the shifted milestones, with DeltaDays
//   - error: ValueIsInvalidError when newDue is a weekend
//
// Example:
//
//	// target due Wed 2024-02-07, proposed Mon 2024-02-12: delta +5
//	rec, err := recalc.Shift(target, kernel.NewDate(2024, 2, 12), all)
func (r DelayRecalculator) Shift(
	target *milestone.Milestone,
	newDue time.Time,
	all []*milestone.Milestone,
) (Recalculation, error) {
	newDue = kernel.DateOf(newDue)
	if err := kernel.ValidateBusinessDay("proposed due date", newDue); err != nil {
		return Recalculation{}, err
	}

	original := target.DueAt()
	delta := kernel.DaysBetween(original, newDue)

	updates := []DateUpdate{{
		MilestoneID: target.ID(),
		Step:        target.Step(),
		PlannedAt:   kernel.SubtractBusinessDays(newDue, 1),
		DueAt:       newDue,
	}}

	for _, m := range all {
		if m.ID().IsEqual(target.ID()) || m.DueAt().Before(original) {
			continue
		}
		updates = append(updates, DateUpdate{
			MilestoneID: m.ID(),
			Step:        m.Step(),
			PlannedAt:   kernel.ShiftToBusinessDay(kernel.AddCalendarDays(m.PlannedAt(), delta)),
			DueAt:       kernel.ShiftToBusinessDay(kernel.AddCalendarDays(m.DueAt(), delta)),
		})
	}
	return Recalculation{Updates: updates, DeltaDays: delta}, nil
}

// Describe renders the audit note of a shift, for example "shifted 5 days later".
func (rec Recalculation) Describe() string {
	switch {
	case rec.DeltaDays > 0:
		return fmt.Sprintf("shifted %d days later", rec.DeltaDays)
	case rec.DeltaDays < 0:
		return fmt.Sprintf("shifted %d days earlier", -rec.DeltaDays)
	default:
		return "dates unchanged"
	}
}
