// Package queries contains read operations. Handlers read the database
// directly with SQL and return flat views; they never load aggregates.
package queries

import (
	"errors"
	"time"

	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/pkg/errs"
	"exportflow/internal/pkg/guard"
)

var (
	ErrGetOrderMilestonesQueryIsNotConstructed = errors.New(
		"GetOrderMilestonesQuery must be created via NewGetOrderMilestonesQuery constructor",
	)
)

// GetOrderMilestonesQuery retrieves an order header with its full milestone
// set. Today decides which milestones are reported as overdue.
//
// Example:
//
//	query, err := NewGetOrderMilestonesQuery(orderID, time.Now())
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
//	for _, m := range view.Milestones {
//	    fmt.Printf("%-22s %s due %s\n", m.Step, m.Status, kernel.FormatDate(m.DueAt))
//	}
type GetOrderMilestonesQuery struct {
	orderID kernel.UUID
	today   time.Time
	guard   guard.ConstructorGuard
}

// NewGetOrderMilestonesQuery creates the query.
//
// Returns:
//   - ValueIsInvalidError for an empty order ID
//   - ValueIsRequiredError for a zero today
func NewGetOrderMilestonesQuery(orderID kernel.UUID, today time.Time) (GetOrderMilestonesQuery, error) {
	var todayErr error
	if today.IsZero() {
		todayErr = errs.NewValueIsRequiredError("today")
	}
	if err := errors.Join(orderID.Validate(), todayErr); err != nil {
		return GetOrderMilestonesQuery{}, err
	}
	return GetOrderMilestonesQuery{
		orderID: orderID,
		today:   kernel.DateOf(today),
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderMilestonesQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderMilestonesQueryIsNotConstructed)
}

func (q GetOrderMilestonesQuery) OrderID() kernel.UUID { return q.orderID }
func (q GetOrderMilestonesQuery) Today() time.Time     { return q.today }

// OrderView is the order header shown above its milestones.
type OrderView struct {
	ID               kernel.UUID
	Number           string
	CustomerRef      string
	TradeTerm        string
	Category         string
	Packaging        string
	RequiresPPSample bool
	Status           string
	CreatedAt        time.Time
	ShipDate         *time.Time
	WarehouseDate    *time.Time
	Version          int
}

// MilestoneView is one row of an order's milestone set.
type MilestoneView struct {
	ID               kernel.UUID
	Step             string
	Name             string
	Role             string
	Assignee         *string
	PlannedAt        time.Time
	DueAt            time.Time
	Status           string
	Notes            string
	Required         bool
	Critical         bool
	EvidenceRequired bool
	Predecessors     []string
	Overdue          bool
	Version          int
}

// GetOrderMilestonesQueryResponse is an order with its milestones ordered by
// due date, planned date and execution order.
type GetOrderMilestonesQueryResponse struct {
	Order      OrderView
	Milestones []MilestoneView
}
