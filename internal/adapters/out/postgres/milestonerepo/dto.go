// Package milestonerepo persists milestones. Template facts (name, role,
// flags, predecessors) are denormalized into each row so that a milestone
// keeps the rules it was created with.
package milestonerepo

import (
	"slices"
	"strings"
	"time"

	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// MilestoneDTO is the database shape of a milestone.
type MilestoneDTO struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey"`
	OrderID          uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_milestones_order_step,priority:1;index"`
	Step             string         `gorm:"type:varchar(64);not null;uniqueIndex:idx_milestones_order_step,priority:2"`
	Position         int            `gorm:"type:smallint;not null"`
	Name             string         `gorm:"type:varchar(255);not null"`
	Role             string         `gorm:"type:varchar(32);not null"`
	Required         bool           `gorm:"not null"`
	Critical         bool           `gorm:"not null"`
	EvidenceRequired bool           `gorm:"not null"`
	Predecessors     pq.StringArray `gorm:"type:text[]"`
	Assignee         *string        `gorm:"type:varchar(255)"`
	PlannedAt        time.Time      `gorm:"type:date;not null"`
	DueAt            time.Time      `gorm:"type:date;not null;index"`
	Status           int            `gorm:"type:smallint;not null;index"`
	Notes            string         `gorm:"type:text;not null;default:''"`
	Version          int            `gorm:"not null;default:0"`
}

// TableName specifies the database table name for milestones.
func (MilestoneDTO) TableName() string {
	return "milestones"
}

// position is the execution order of a step, used as the last sort key.
func position(step milestone.StepKey) int {
	if i := slices.Index(milestone.StepKeys(), step); i >= 0 {
		return i
	}
	return len(milestone.StepKeys())
}

func fromDomain(m *milestone.Milestone) MilestoneDTO {
	preds := m.Predecessors()
	predecessors := make(pq.StringArray, 0, len(preds))
	for _, p := range preds {
		predecessors = append(predecessors, string(p))
	}

	return MilestoneDTO{
		ID:               m.ID().Bytes(),
		OrderID:          m.OrderID().Bytes(),
		Step:             string(m.Step()),
		Position:         position(m.Step()),
		Name:             m.Name(),
		Role:             string(m.Role()),
		Required:         m.IsRequired(),
		Critical:         m.IsCritical(),
		EvidenceRequired: m.EvidenceRequired(),
		Predecessors:     predecessors,
		Assignee:         m.Assignee(),
		PlannedAt:        m.PlannedAt(),
		DueAt:            m.DueAt(),
		Status:           int(m.Status()),
		Notes:            m.Notes(),
		Version:          m.Version(),
	}
}

// mutable lists the columns a milestone update may change.
func (dto MilestoneDTO) mutable() map[string]any {
	return map[string]any{
		"assignee":   dto.Assignee,
		"planned_at": dto.PlannedAt,
		"due_at":     dto.DueAt,
		"status":     dto.Status,
		"notes":      dto.Notes,
		"version":    dto.Version + 1,
	}
}

func toDomain(dto MilestoneDTO) (*milestone.Milestone, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	predecessors := make([]milestone.StepKey, 0, len(dto.Predecessors))
	for _, p := range dto.Predecessors {
		predecessors = append(predecessors, milestone.StepKey(strings.TrimSpace(p)))
	}

	def := milestone.Definition{
		Step:             milestone.StepKey(dto.Step),
		Name:             dto.Name,
		Role:             kernel.Role(dto.Role),
		Required:         dto.Required,
		Critical:         dto.Critical,
		EvidenceRequired: dto.EvidenceRequired,
		Predecessors:     predecessors,
	}

	return milestone.RestoreMilestone(id, orderID, def, dto.Assignee,
		dto.PlannedAt, dto.DueAt, milestone.Status(dto.Status), dto.Notes, dto.Version)
}
