package commands_test

import (
	"testing"
	"time"

	"exportflow/internal/core/domain/catalog"
	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"
	"exportflow/internal/core/domain/model/order"
	"exportflow/internal/core/domain/services"

	"github.com/stretchr/testify/require"
)

var (
	createdAt = time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)
	now       = time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)
	shipDate  = kernel.NewDate(2024, 3, 1)
)

func fobAttributes() order.Attributes {
	ship := shipDate
	return order.Attributes{
		TradeTerm:        order.FOB,
		Category:         order.Bulk,
		Packaging:        order.StandardPackaging,
		RequiresPPSample: true,
		CreatedAt:        createdAt,
		ShipDate:         &ship,
	}
}

func draftOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), "EX-20240102-0001", "PO-4471", fobAttributes())
	require.NoError(t, err)
	return o
}

func activeOrder(t *testing.T) *order.Order {
	t.Helper()
	o := draftOrder(t)
	require.NoError(t, o.Activate())
	return o
}

func orderMilestones(t *testing.T, o *order.Order) []*milestone.Milestone {
	t.Helper()
	templates := catalog.Default().TemplatesFor(o.Attributes())
	schedule, err := services.NewScheduleCalculator().Compute(o.Attributes(), templates)
	require.NoError(t, err)

	out := make([]*milestone.Milestone, 0, len(templates))
	for _, tpl := range templates {
		d := schedule[tpl.Step]
		m, err := milestone.NewMilestone(kernel.NewUUID(), o.ID(), tpl.Definition, d.PlannedAt, d.DueAt)
		require.NoError(t, err)
		out = append(out, m)
	}
	return out
}

func findStep(all []*milestone.Milestone, step milestone.StepKey) *milestone.Milestone {
	for _, m := range all {
		if m.Step() == step {
			return m
		}
	}
	return nil
}

func setStatus(t *testing.T, all []*milestone.Milestone, step milestone.StepKey, status milestone.Status) *milestone.Milestone {
	t.Helper()
	for i, m := range all {
		if m.Step() != step {
			continue
		}
		restored, err := milestone.RestoreMilestone(m.ID(), m.OrderID(), m.Definition(), nil,
			m.PlannedAt(), m.DueAt(), status, m.Notes(), m.Version())
		require.NoError(t, err)
		all[i] = restored
		return restored
	}
	t.Fatalf("step %s not in set", step)
	return nil
}

func newActor(t *testing.T, role kernel.Role) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor("user-"+string(role), "Test User", role)
	require.NoError(t, err)
	return a
}
