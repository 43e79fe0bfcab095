package milestonerepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"exportflow/internal/adapters/out/postgres/pgerr"
	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"
	"exportflow/internal/pkg/errs"

	"gorm.io/gorm"
)

const listOrder = "due_at, planned_at, position"

// GormMilestoneRepository implements MilestoneRepository using GORM.
type GormMilestoneRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormMilestoneRepository creates a new GORM milestone repository.
func NewGormMilestoneRepository(db *gorm.DB, tracker aggregateTracker) *GormMilestoneRepository {
	return &GormMilestoneRepository{
		db:      db,
		tracker: tracker,
	}
}

// AddAll inserts a complete milestone set in one statement. A second set for
// the same order violates the (order_id, step) index and is reported as
// ValueIsInvalidError.
func (r *GormMilestoneRepository) AddAll(ctx context.Context, milestones []*milestone.Milestone) error {
	if len(milestones) == 0 {
		return nil
	}

	dtos := make([]MilestoneDTO, 0, len(milestones))
	for _, m := range milestones {
		if err := m.Validate(); err != nil {
			return err
		}
		dtos = append(dtos, fromDomain(m))
	}

	if err := r.db.WithContext(ctx).Create(&dtos).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return errs.NewValueIsInvalidErrorWithCause("milestone set",
				fmt.Errorf("order %s already has its milestones", milestones[0].OrderID()))
		}
		return err
	}

	for _, m := range milestones {
		r.tracker.TrackAggregate(m.ID(), m)
	}
	return nil
}

// Update stores the milestone when the stored version matches.
func (r *GormMilestoneRepository) Update(ctx context.Context, m *milestone.Milestone) error {
	if err := m.Validate(); err != nil {
		return err
	}

	dto := fromDomain(m)
	result := r.db.WithContext(ctx).Model(&MilestoneDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(dto.mutable())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return r.missOrConflict(ctx, m)
	}

	m.AdvanceVersion()
	r.tracker.TrackAggregate(m.ID(), m)
	return nil
}

// Get retrieves a milestone by ID.
func (r *GormMilestoneRepository) Get(ctx context.Context, id kernel.UUID) (*milestone.Milestone, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto MilestoneDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("milestone", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListByOrder returns the order's milestones by due date, planned date and position.
func (r *GormMilestoneRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*milestone.Milestone, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []MilestoneDTO
	if err := r.db.WithContext(ctx).Order(listOrder).Find(&dtos, "order_id = ?", orderID.Bytes()).Error; err != nil {
		return nil, err
	}
	return toDomainAll(dtos)
}

// ListOverdue returns milestones due before today that are not done.
func (r *GormMilestoneRepository) ListOverdue(ctx context.Context, today time.Time) ([]*milestone.Milestone, error) {
	var dtos []MilestoneDTO
	err := r.db.WithContext(ctx).
		Where("status <> ? AND due_at < ?", int(milestone.Done), kernel.DateOf(today)).
		Order(listOrder).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return toDomainAll(dtos)
}

func (r *GormMilestoneRepository) missOrConflict(ctx context.Context, m *milestone.Milestone) error {
	var stored MilestoneDTO
	err := r.db.WithContext(ctx).Select("version").First(&stored, "id = ?", m.ID().Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError("milestone", m.ID().String())
	}
	if err != nil {
		return err
	}

	return errs.NewVersionIsInvalidErrorWithCause("milestone version",
		fmt.Errorf("%s: expected %d, stored %d", m.Step(), m.Version(), stored.Version))
}

func toDomainAll(dtos []MilestoneDTO) ([]*milestone.Milestone, error) {
	out := make([]*milestone.Milestone, 0, len(dtos))
	for _, dto := range dtos {
		m, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
