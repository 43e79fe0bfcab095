package services_test

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
	created = time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC) // Tuesday
	ship    = kernel.NewDate(2024, 3, 1)                    // Friday
)

func date(month time.Month, day int) time.Time {
	return kernel.NewDate(2024, month, day)
}

func bulkFOB() order.Attributes {
	s := ship
	return order.Attributes{
		TradeTerm:        order.FOB,
		Category:         order.Bulk,
		Packaging:        order.StandardPackaging,
		RequiresPPSample: true,
		CreatedAt:        created,
		ShipDate:         &s,
	}
}

func compute(t *testing.T, attrs order.Attributes) services.Schedule {
	t.Helper()
	schedule, err := services.NewScheduleCalculator().Compute(attrs, catalog.Default().TemplatesFor(attrs))
	require.NoError(t, err)
	return schedule
}

// buildMilestones creates the full milestone set of an order the way
// activation does.
func buildMilestones(t *testing.T, attrs order.Attributes) []*milestone.Milestone {
	t.Helper()
	orderID := kernel.NewUUID()
	templates := catalog.Default().TemplatesFor(attrs)
	schedule := compute(t, attrs)

	out := make([]*milestone.Milestone, 0, len(templates))
	for _, tpl := range templates {
		d := schedule[tpl.Step]
		m, err := milestone.NewMilestone(kernel.NewUUID(), orderID, tpl.Definition, d.PlannedAt, d.DueAt)
		require.NoError(t, err)
		out = append(out, m)
	}
	return out
}

func find(all []*milestone.Milestone, step milestone.StepKey) *milestone.Milestone {
	for _, m := range all {
		if m.Step() == step {
			return m
		}
	}
	return nil
}

// withStatus rebuilds m in the given status.
func withStatus(t *testing.T, m *milestone.Milestone, status milestone.Status) *milestone.Milestone {
	t.Helper()
	out, err := milestone.RestoreMilestone(m.ID(), m.OrderID(), m.Definition(), nil,
		m.PlannedAt(), m.DueAt(), status, m.Notes(), m.Version())
	require.NoError(t, err)
	return out
}
