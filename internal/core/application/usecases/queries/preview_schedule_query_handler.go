package queries

import (
	"cmp"
	"slices"

	"exportflow/internal/core/domain/catalog"
	"exportflow/internal/core/domain/services"
)

// PreviewScheduleQueryHandler runs the schedule calculator over the catalog.
type PreviewScheduleQueryHandler struct {
	catalog    *catalog.Catalog
	calculator services.ScheduleCalculator
}

// NewPreviewScheduleQueryHandler creates a preview handler.
func NewPreviewScheduleQueryHandler(c *catalog.Catalog, calculator services.ScheduleCalculator) PreviewScheduleQueryHandler {
	return PreviewScheduleQueryHandler{
		catalog:    c,
		calculator: calculator,
	}
}

// Handle returns the lines ordered the same way a stored milestone set is
// listed: due date, planned date, then execution order.
func (h PreviewScheduleQueryHandler) Handle(query PreviewScheduleQuery) ([]ScheduleLine, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	templates := h.catalog.TemplatesFor(query.Attributes())
	schedule, err := h.calculator.Compute(query.Attributes(), templates)
	if err != nil {
		return nil, err
	}

	lines := make([]ScheduleLine, 0, len(templates))
	positions := make(map[string]int, len(templates))
	for _, t := range templates {
		preds := make([]string, 0, len(t.Predecessors))
		for _, p := range t.Predecessors {
			preds = append(preds, string(p))
		}
		dates := schedule[t.Step]
		lines = append(lines, ScheduleLine{
			Step:             string(t.Step),
			Name:             t.Name,
			Role:             string(t.Role),
			Required:         t.Required,
			Critical:         t.Critical,
			EvidenceRequired: t.EvidenceRequired,
			Predecessors:     preds,
			RequiredDocs:     h.catalog.RequiredDocuments(t.Step),
			PlannedAt:        dates.PlannedAt,
			DueAt:            dates.DueAt,
		})
		positions[string(t.Step)] = h.catalog.Position(t.Step)
	}

	slices.SortStableFunc(lines, func(a, b ScheduleLine) int {
		return cmp.Or(
			a.DueAt.Compare(b.DueAt),
			a.PlannedAt.Compare(b.PlannedAt),
			cmp.Compare(positions[a.Step], positions[b.Step]),
		)
	})
	return lines, nil
}
