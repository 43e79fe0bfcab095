// Package evidencerepo lists milestone attachments recorded in PostgreSQL by
// the document service.
package evidencerepo

import (
	"context"
	"time"

	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttachmentDTO is one attachment record.
type AttachmentDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	MilestoneID  uuid.UUID `gorm:"type:uuid;not null;index"`
	DocumentType string    `gorm:"type:varchar(64);not null"`
	Name         string    `gorm:"type:varchar(255);not null"`
	UploadedAt   time.Time `gorm:"not null"`
}

// TableName specifies the database table name for attachments.
func (AttachmentDTO) TableName() string {
	return "milestone_attachments"
}

// GormEvidenceInventory implements EvidenceInventory over the attachments table.
type GormEvidenceInventory struct {
	db *gorm.DB
}

// NewGormEvidenceInventory creates an inventory backed by db.
func NewGormEvidenceInventory(db *gorm.DB) *GormEvidenceInventory {
	return &GormEvidenceInventory{db: db}
}

// Add records an attachment.
func (r *GormEvidenceInventory) Add(ctx context.Context, a milestone.Attachment) error {
	dto := AttachmentDTO{
		ID:           kernel.NewUUID().Bytes(),
		MilestoneID:  a.MilestoneID.Bytes(),
		DocumentType: a.DocumentType,
		Name:         a.Name,
		UploadedAt:   a.UploadedAt.UTC(),
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

// List returns the attachments of m, oldest first.
func (r *GormEvidenceInventory) List(ctx context.Context, m *milestone.Milestone) ([]milestone.Attachment, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	var dtos []AttachmentDTO
	err := r.db.WithContext(ctx).Order("uploaded_at").Find(&dtos, "milestone_id = ?", m.ID().Bytes()).Error
	if err != nil {
		return nil, err
	}

	out := make([]milestone.Attachment, 0, len(dtos))
	for _, dto := range dtos {
		a, attErr := milestone.NewAttachment(m.ID(), dto.DocumentType, dto.Name, dto.UploadedAt)
		if attErr != nil {
			return nil, attErr
		}
		out = append(out, a)
	}
	return out, nil
}
