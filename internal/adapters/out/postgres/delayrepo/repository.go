package delayrepo

import (
	"context"
	"errors"
	"fmt"

	"exportflow/internal/core/domain/model/delay"
	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDelayRequestRepository implements DelayRequestRepository using GORM.
type GormDelayRequestRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormDelayRequestRepository creates a new GORM delay request repository.
func NewGormDelayRequestRepository(db *gorm.DB, tracker aggregateTracker) *GormDelayRequestRepository {
	return &GormDelayRequestRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new pending request.
func (r *GormDelayRequestRepository) Add(ctx context.Context, request *delay.Request) error {
	if err := request.Validate(); err != nil {
		return err
	}

	dto := fromDomain(request)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(request.ID(), request)
	return nil
}

// Update stores the decision. Only a request that is still pending in the
// database can be decided; a concurrent decision is reported as
// VersionIsInvalidError.
func (r *GormDelayRequestRepository) Update(ctx context.Context, request *delay.Request) error {
	if err := request.Validate(); err != nil {
		return err
	}

	dto := fromDomain(request)
	result := r.db.WithContext(ctx).Model(&DelayRequestDTO{}).
		Where("id = ? AND status = ?", dto.ID, int(delay.Pending)).
		Updates(map[string]any{
			"status":                    dto.Status,
			"confirmation_evidence_ref": dto.ConfirmationEvidenceRef,
			"decided_by":                dto.DecidedBy,
			"decided_at":                dto.DecidedAt,
			"rejection_note":            dto.RejectionNote,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var stored DelayRequestDTO
		err := r.db.WithContext(ctx).Select("status").First(&stored, "id = ?", dto.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewObjectNotFoundError("delay request", request.ID().String())
		}
		if err != nil {
			return err
		}
		return errs.NewVersionIsInvalidErrorWithCause("delay request",
			fmt.Errorf("already %s", delay.ApprovalStatus(stored.Status)))
	}

	r.tracker.TrackAggregate(request.ID(), request)
	return nil
}

// Get retrieves a delay request by ID.
func (r *GormDelayRequestRepository) Get(ctx context.Context, id kernel.UUID) (*delay.Request, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DelayRequestDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("delay request", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListByOrder returns the order's requests, newest first.
func (r *GormDelayRequestRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*delay.Request, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []DelayRequestDTO
	if err := r.db.WithContext(ctx).Order("requested_at DESC").Find(&dtos, "order_id = ?", orderID.Bytes()).Error; err != nil {
		return nil, err
	}

	requests := make([]*delay.Request, 0, len(dtos))
	for _, dto := range dtos {
		req, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, nil
}
