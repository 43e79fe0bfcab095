// Package ports defines the contracts between the milestone engine and its
// infrastructure: repositories, the unit of work, the evidence inventory,
// the authorization policy, the order-number allocator and the audit event
// publisher.
package ports

import (
	"context"

	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order. A duplicate order number fails with
	// ValueIsInvalidError.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order. The stored version must
	// equal aggregate.Version(), otherwise VersionIsInvalidError is returned.
	// On success the aggregate's version is advanced.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by identifier or returns ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllInStatus returns orders in the given status ordered by creation.
	GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error)
}
