package ports

import (
	"context"
	"time"

	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"
)

// MilestoneRepository defines the persistence contract for milestones.
// Milestones are created once per order and never deleted individually.
type MilestoneRepository interface {
	// AddAll persists the complete milestone set of an order.
	AddAll(ctx context.Context, milestones []*milestone.Milestone) error

	// Update persists status, notes, assignee and dates of one milestone.
	// The stored version must equal m.Version(), otherwise
	// VersionIsInvalidError is returned. On success m's version is advanced.
	Update(ctx context.Context, m *milestone.Milestone) error

	// Get retrieves a milestone by identifier or returns ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*milestone.Milestone, error)

	// ListByOrder returns every milestone of an order ordered by due date,
	// planned date and catalog position.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*milestone.Milestone, error)

	// ListOverdue returns milestones that are not done and were due before today.
	ListOverdue(ctx context.Context, today time.Time) ([]*milestone.Milestone, error)
}
