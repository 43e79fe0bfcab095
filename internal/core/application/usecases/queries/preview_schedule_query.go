package queries

import (
	"errors"
	"time"

	"exportflow/internal/core/domain/model/order"
	"exportflow/internal/pkg/guard"
)

var (
	ErrPreviewScheduleQueryIsNotConstructed = errors.New(
		"PreviewScheduleQuery must be created via NewPreviewScheduleQuery constructor",
	)
)

// PreviewScheduleQuery computes the milestone set an order with the given
// attributes would get on activation, without touching storage.
//
// Example:
//
//	ship := kernel.NewDate(2024, 3, 1)
//	query, err := NewPreviewScheduleQuery(order.Attributes{
//	    TradeTerm: order.FOB,
//	    Category:  order.Bulk,
//	    Packaging: order.StandardPackaging,
//	    CreatedAt: time.Now(),
//	    ShipDate:  &ship,
//	})
//	lines, err := handler.Handle(query)
type PreviewScheduleQuery struct {
	attrs order.Attributes
	guard guard.ConstructorGuard
}

// NewPreviewScheduleQuery validates the attributes. The anchor date the trade
// term requires must be present.
func NewPreviewScheduleQuery(attrs order.Attributes) (PreviewScheduleQuery, error) {
	if err := attrs.Validate(); err != nil {
		return PreviewScheduleQuery{}, err
	}
	if _, err := attrs.Anchor(); err != nil {
		return PreviewScheduleQuery{}, err
	}
	return PreviewScheduleQuery{
		attrs: attrs,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q PreviewScheduleQuery) Validate() error {
	return q.guard.Validate(ErrPreviewScheduleQueryIsNotConstructed)
}

func (q PreviewScheduleQuery) Attributes() order.Attributes { return q.attrs }

// ScheduleLine is one previewed milestone.
type ScheduleLine struct {
	Step             string
	Name             string
	Role             string
	Required         bool
	Critical         bool
	EvidenceRequired bool
	Predecessors     []string
	RequiredDocs     []string
	PlannedAt        time.Time
	DueAt            time.Time
}
