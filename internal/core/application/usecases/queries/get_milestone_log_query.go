package queries

import (
	"errors"
	"time"

	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/pkg/guard"
)

var (
	ErrGetMilestoneLogQueryIsNotConstructed = errors.New(
		"GetMilestoneLogQuery must be created via NewGetMilestoneLogQuery constructor",
	)
)

// GetMilestoneLogQuery reads the audit trail of an order, or of one of its
// milestones when a milestone ID is given.
type GetMilestoneLogQuery struct {
	orderID     kernel.UUID
	milestoneID *kernel.UUID
	guard       guard.ConstructorGuard
}

// NewGetMilestoneLogQuery creates the query. milestoneID may be nil.
func NewGetMilestoneLogQuery(orderID kernel.UUID, milestoneID *kernel.UUID) (GetMilestoneLogQuery, error) {
	var milestoneErr error
	if milestoneID != nil {
		milestoneErr = milestoneID.Validate()
	}
	if err := errors.Join(orderID.Validate(), milestoneErr); err != nil {
		return GetMilestoneLogQuery{}, err
	}

	var copied *kernel.UUID
	if milestoneID != nil {
		id := *milestoneID
		copied = &id
	}
	return GetMilestoneLogQuery{
		orderID:     orderID,
		milestoneID: copied,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetMilestoneLogQuery) Validate() error {
	return q.guard.Validate(ErrGetMilestoneLogQueryIsNotConstructed)
}

func (q GetMilestoneLogQuery) OrderID() kernel.UUID      { return q.orderID }
func (q GetMilestoneLogQuery) MilestoneID() *kernel.UUID { return q.milestoneID }

// LogEntryView is one audit entry. Step is empty for order-level entries;
// FromStatus and ToStatus are empty for entries that change no status.
type LogEntryView struct {
	ID          kernel.UUID
	MilestoneID *kernel.UUID
	Step        string
	ActorID     string
	Action      string
	FromStatus  string
	ToStatus    string
	Note        string
	At          time.Time
}
