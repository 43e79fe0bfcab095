package ports

import (
	"context"

	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"
)

// MilestoneLogRepository is the append-only audit log.
type MilestoneLogRepository interface {
	// Append stores entries. Entries appended inside a unit of work are
	// published after it commits.
	Append(ctx context.Context, entries ...milestone.LogEntry) error

	// ListByOrder returns the order's entries oldest first.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]milestone.LogEntry, error)

	// ListByMilestone returns one milestone's entries oldest first.
	ListByMilestone(ctx context.Context, milestoneID kernel.UUID) ([]milestone.LogEntry, error)

	// Exists reports whether an entry with the given milestone, action and
	// note was already appended.
	Exists(ctx context.Context, milestoneID kernel.UUID, action milestone.Action, note string) (bool, error)
}
