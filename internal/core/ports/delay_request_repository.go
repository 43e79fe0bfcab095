package ports

import (
	"context"

	"exportflow/internal/core/domain/model/delay"
	"exportflow/internal/core/domain/model/kernel"
)

// DelayRequestRepository defines the persistence contract for delay requests.
type DelayRequestRepository interface {
	Add(ctx context.Context, request *delay.Request) error
	// Update stores the decision of a pending request.
	Update(ctx context.Context, request *delay.Request) error
	Get(ctx context.Context, id kernel.UUID) (*delay.Request, error)
	// ListByOrder returns the requests of an order, newest first.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*delay.Request, error)
}
