package queries_test

import (
	"context"
	"time"

	"exportflow/internal/adapters/out/postgres/milestonerepo"
	"exportflow/internal/adapters/out/postgres/orderrepo"
	"exportflow/internal/core/domain/catalog"
	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"
	"exportflow/internal/core/domain/model/order"
	"exportflow/internal/core/domain/services"

	"gorm.io/gorm"
)

type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}

var createdAt = time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC)

func bulkFOBAttributes() order.Attributes {
	ship := kernel.NewDate(2024, 3, 1)
	return order.Attributes{
		TradeTerm:        order.FOB,
		Category:         order.Bulk,
		Packaging:        order.StandardPackaging,
		RequiresPPSample: true,
		CreatedAt:        createdAt,
		ShipDate:         &ship,
	}
}

// seedActiveOrder stores an active bulk FOB order shipping 2024-03-01 together
// with its generated milestone set.
func seedActiveOrder(ctx context.Context, db *gorm.DB, number string) (*order.Order, []*milestone.Milestone, error) {
	o, err := order.NewOrder(kernel.NewUUID(), number, "PO-"+number, bulkFOBAttributes())
	if err != nil {
		return nil, nil, err
	}
	if err = o.Activate(); err != nil {
		return nil, nil, err
	}
	if err = orderrepo.NewGormOrderRepository(db, noopTracker{}).Add(ctx, o); err != nil {
		return nil, nil, err
	}

	templates := catalog.Default().TemplatesFor(o.Attributes())
	schedule, err := services.NewScheduleCalculator().Compute(o.Attributes(), templates)
	if err != nil {
		return nil, nil, err
	}

	milestones := make([]*milestone.Milestone, 0, len(templates))
	for _, t := range templates {
		m, newErr := milestone.NewMilestone(kernel.NewUUID(), o.ID(), t.Definition,
			schedule[t.Step].PlannedAt, schedule[t.Step].DueAt)
		if newErr != nil {
			return nil, nil, newErr
		}
		milestones = append(milestones, m)
	}
	if err = milestonerepo.NewGormMilestoneRepository(db, noopTracker{}).AddAll(ctx, milestones); err != nil {
		return nil, nil, err
	}
	return o, milestones, nil
}

func findStep(milestones []*milestone.Milestone, step milestone.StepKey) *milestone.Milestone {
	for _, m := range milestones {
		if m.Step() == step {
			return m
		}
	}
	return nil
}
