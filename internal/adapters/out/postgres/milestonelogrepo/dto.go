// Package milestonelogrepo stores the append-only audit log.
package milestonelogrepo

import (
	"time"

	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"

	"github.com/google/uuid"
)

// LogEntryDTO is one audit log row. Statuses are NULL for entries that do
// not change a status.
type LogEntryDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	MilestoneID *uuid.UUID `gorm:"type:uuid;index:idx_milestone_log_lookup,priority:1"`
	ActorID     string     `gorm:"type:varchar(255);not null"`
	Action      string     `gorm:"type:varchar(32);not null;index:idx_milestone_log_lookup,priority:2"`
	FromStatus  *int       `gorm:"type:smallint"`
	ToStatus    *int       `gorm:"type:smallint"`
	Note        string     `gorm:"type:text;not null;default:''"`
	At          time.Time  `gorm:"not null;index"`
}

// TableName specifies the database table name for audit entries.
func (LogEntryDTO) TableName() string {
	return "milestone_log"
}

func fromDomain(e milestone.LogEntry) LogEntryDTO {
	var milestoneID *uuid.UUID
	if id := e.MilestoneID(); id != nil {
		raw := id.Bytes()
		milestoneID = &raw
	}

	return LogEntryDTO{
		ID:          e.ID().Bytes(),
		OrderID:     e.OrderID().Bytes(),
		MilestoneID: milestoneID,
		ActorID:     e.ActorID(),
		Action:      string(e.Action()),
		FromStatus:  statusOrNil(e.FromStatus()),
		ToStatus:    statusOrNil(e.ToStatus()),
		Note:        e.Note(),
		At:          e.At().UTC(),
	}
}

func toDomain(dto LogEntryDTO) (milestone.LogEntry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return milestone.LogEntry{}, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return milestone.LogEntry{}, err
	}

	var milestoneID *kernel.UUID
	if dto.MilestoneID != nil {
		mID, idErr := kernel.UUIDFromBytes((*dto.MilestoneID)[:])
		if idErr != nil {
			return milestone.LogEntry{}, idErr
		}
		milestoneID = &mID
	}

	var from, to *milestone.Status
	if dto.FromStatus != nil {
		s := milestone.Status(*dto.FromStatus)
		from = &s
	}
	if dto.ToStatus != nil {
		s := milestone.Status(*dto.ToStatus)
		to = &s
	}

	return milestone.RestoreLogEntry(id, orderID, milestoneID, dto.ActorID,
		milestone.Action(dto.Action), from, to, dto.Note, dto.At.UTC())
}

func statusOrNil(s *milestone.Status) *int {
	if s == nil {
		return nil
	}
	v := int(*s)
	return &v
}
