package queries

import (
	"errors"
	"time"

	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/pkg/guard"
)

var (
	ErrGetDelayRequestsQueryIsNotConstructed = errors.New(
		"GetDelayRequestsQuery must be created via NewGetDelayRequestsQuery constructor",
	)
)

// GetDelayRequestsQuery lists an order's delay requests newest first,
// optionally only the pending ones.
type GetDelayRequestsQuery struct {
	orderID     kernel.UUID
	pendingOnly bool
	guard       guard.ConstructorGuard
}

// NewGetDelayRequestsQuery creates the query.
func NewGetDelayRequestsQuery(orderID kernel.UUID, pendingOnly bool) (GetDelayRequestsQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetDelayRequestsQuery{}, err
	}
	return GetDelayRequestsQuery{
		orderID:     orderID,
		pendingOnly: pendingOnly,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetDelayRequestsQuery) Validate() error {
	return q.guard.Validate(ErrGetDelayRequestsQueryIsNotConstructed)
}

func (q GetDelayRequestsQuery) OrderID() kernel.UUID { return q.orderID }
func (q GetDelayRequestsQuery) PendingOnly() bool    { return q.pendingOnly }

// DelayRequestView is one delay request with its decision, if any.
type DelayRequestView struct {
	ID                           kernel.UUID
	MilestoneID                  *kernel.UUID
	Step                         string
	Reason                       string
	ReasonText                   string
	ProposedAnchorDate           *time.Time
	ProposedDueDate              *time.Time
	RequiresExternalConfirmation bool
	ConfirmationEvidenceRef      string
	RequestedBy                  string
	RequestedAt                  time.Time
	Status                       string
	DecidedBy                    *string
	DecidedAt                    *time.Time
	RejectionNote                string
}
