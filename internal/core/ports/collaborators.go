package ports

import (
	"context"
	"time"

	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"
)

// EvidenceInventory lists the files attached to a milestone. Uploading is
// handled by the document service.
type EvidenceInventory interface {
	List(ctx context.Context, m *milestone.Milestone) ([]milestone.Attachment, error)
}

// AuthorizationPolicy resolves what an actor may do. It is consulted once
// per request.
type AuthorizationPolicy interface {
	Resolve(ctx context.Context, actor kernel.Actor) (kernel.Capability, error)
}

// OrderNumberAllocator issues unique human-readable order numbers of the
// form EX-YYYYMMDD-NNNN, numbered per creation day.
type OrderNumberAllocator interface {
	Next(ctx context.Context, createdAt time.Time) (string, error)
}

// EventPublisher delivers committed audit entries to interested systems.
type EventPublisher interface {
	Publish(ctx context.Context, entries []milestone.LogEntry) error
}

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function such as time.Now to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}
