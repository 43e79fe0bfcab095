// Package delayrepo persists delay requests.
package delayrepo

import (
	"time"

	"exportflow/internal/core/domain/model/delay"
	"exportflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DelayRequestDTO is the database shape of a delay request. The decision
// columns stay NULL while the request is pending.
type DelayRequestDTO struct {
	ID                           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID                      uuid.UUID  `gorm:"type:uuid;not null;index"`
	MilestoneID                  *uuid.UUID `gorm:"type:uuid;index"`
	Reason                       int        `gorm:"type:smallint;not null"`
	ReasonText                   string     `gorm:"type:text;not null"`
	ProposedAnchorDate           *time.Time `gorm:"type:date"`
	ProposedDueDate              *time.Time `gorm:"type:date"`
	RequiresExternalConfirmation bool       `gorm:"not null"`
	ConfirmationEvidenceRef      string     `gorm:"type:varchar(512);not null;default:''"`
	RequestedBy                  string     `gorm:"type:varchar(255);not null"`
	RequestedAt                  time.Time  `gorm:"not null;index"`
	Status                       int        `gorm:"type:smallint;not null;index"`
	DecidedBy                    *string    `gorm:"type:varchar(255)"`
	DecidedAt                    *time.Time
	RejectionNote                string `gorm:"type:text;not null;default:''"`
}

// TableName specifies the database table name for delay requests.
func (DelayRequestDTO) TableName() string {
	return "delay_requests"
}

func fromDomain(r *delay.Request) DelayRequestDTO {
	var milestoneID *uuid.UUID
	if id := r.MilestoneID(); id != nil {
		raw := id.Bytes()
		milestoneID = &raw
	}

	dto := DelayRequestDTO{
		ID:                           r.ID().Bytes(),
		OrderID:                      r.OrderID().Bytes(),
		MilestoneID:                  milestoneID,
		Reason:                       int(r.Reason()),
		ReasonText:                   r.ReasonText(),
		ProposedAnchorDate:           r.ProposedAnchorDate(),
		ProposedDueDate:              r.ProposedDueDate(),
		RequiresExternalConfirmation: r.RequiresExternalConfirmation(),
		ConfirmationEvidenceRef:      r.ConfirmationEvidenceRef(),
		RequestedBy:                  r.RequestedBy(),
		RequestedAt:                  r.RequestedAt().UTC(),
		Status:                       int(r.Status()),
	}

	if d := r.Decision(); d != nil {
		decidedBy := d.DecidedBy
		decidedAt := d.DecidedAt.UTC()
		dto.DecidedBy = &decidedBy
		dto.DecidedAt = &decidedAt
		dto.RejectionNote = d.RejectionNote
	}
	return dto
}

func toDomain(dto DelayRequestDTO) (*delay.Request, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	var milestoneID *kernel.UUID
	if dto.MilestoneID != nil {
		mID, idErr := kernel.UUIDFromBytes((*dto.MilestoneID)[:])
		if idErr != nil {
			return nil, idErr
		}
		milestoneID = &mID
	}

	s := delay.Submission{
		OrderID:                      orderID,
		MilestoneID:                  milestoneID,
		Reason:                       delay.ReasonCategory(dto.Reason),
		ReasonText:                   dto.ReasonText,
		ProposedAnchorDate:           dto.ProposedAnchorDate,
		ProposedDueDate:              dto.ProposedDueDate,
		RequiresExternalConfirmation: dto.RequiresExternalConfirmation,
		ConfirmationEvidenceRef:      dto.ConfirmationEvidenceRef,
		RequestedBy:                  dto.RequestedBy,
		RequestedAt:                  dto.RequestedAt.UTC(),
	}

	var decision *delay.Decision
	if dto.DecidedBy != nil && dto.DecidedAt != nil {
		decision = &delay.Decision{
			DecidedBy:     *dto.DecidedBy,
			DecidedAt:     dto.DecidedAt.UTC(),
			RejectionNote: dto.RejectionNote,
		}
	}

	return delay.RestoreRequest(id, s, delay.ApprovalStatus(dto.Status), decision)
}
