package milestonelogrepo

import (
	"context"

	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"

	"gorm.io/gorm"
)

// GormMilestoneLogRepository implements MilestoneLogRepository using GORM.
// Appended entries are handed to the tracker, which publishes them once the
// unit of work commits.
type GormMilestoneLogRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormMilestoneLogRepository creates a new GORM audit log repository.
func NewGormMilestoneLogRepository(db *gorm.DB, tracker aggregateTracker) *GormMilestoneLogRepository {
	return &GormMilestoneLogRepository{
		db:      db,
		tracker: tracker,
	}
}

// Append inserts entries in one statement.
func (r *GormMilestoneLogRepository) Append(ctx context.Context, entries ...milestone.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	dtos := make([]LogEntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, fromDomain(e))
	}

	if err := r.db.WithContext(ctx).Create(&dtos).Error; err != nil {
		return err
	}

	for _, e := range entries {
		r.tracker.TrackAggregate(e.ID(), e)
	}
	return nil
}

// ListByOrder returns the order's entries oldest first.
func (r *GormMilestoneLogRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]milestone.LogEntry, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	return r.list(ctx, "order_id = ?", orderID.Bytes())
}

// ListByMilestone returns one milestone's entries oldest first.
func (r *GormMilestoneLogRepository) ListByMilestone(ctx context.Context, milestoneID kernel.UUID) ([]milestone.LogEntry, error) {
	if err := milestoneID.Validate(); err != nil {
		return nil, err
	}
	return r.list(ctx, "milestone_id = ?", milestoneID.Bytes())
}

// Exists reports whether an entry with the milestone, action and note exists.
func (r *GormMilestoneLogRepository) Exists(
	ctx context.Context,
	milestoneID kernel.UUID,
	action milestone.Action,
	note string,
) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&LogEntryDTO{}).
		Where("milestone_id = ? AND action = ? AND note = ?", milestoneID.Bytes(), string(action), note).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormMilestoneLogRepository) list(ctx context.Context, query string, arg any) ([]milestone.LogEntry, error) {
	var dtos []LogEntryDTO
	if err := r.db.WithContext(ctx).Order("at, id").Find(&dtos, query, arg).Error; err != nil {
		return nil, err
	}

	entries := make([]milestone.LogEntry, 0, len(dtos))
	for _, dto := range dtos {
		e, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
