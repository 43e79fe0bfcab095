package queries

import (
	"context"
	"database/sql"
	"time"

	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetMilestoneLogQueryHandler reads the audit log oldest first.
type GetMilestoneLogQueryHandler struct {
	db *gorm.DB
}

// NewGetMilestoneLogQueryHandler creates a handler for audit log queries.
func NewGetMilestoneLogQueryHandler(db *gorm.DB) GetMilestoneLogQueryHandler {
	return GetMilestoneLogQueryHandler{db: db}
}

// Handle returns an empty slice for an order without entries.
func (h GetMilestoneLogQueryHandler) Handle(ctx context.Context, query GetMilestoneLogQuery) ([]LogEntryView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sqlText := `
		SELECT
			l.id,
			l.milestone_id,
			COALESCE(m.step, ''),
			l.actor_id,
			l.action,
			l.from_status,
			l.to_status,
			l.note,
			l.at
		FROM milestone_log l
		LEFT JOIN milestones m ON m.id = l.milestone_id
		WHERE l.order_id = ?`
	args := []any{query.OrderID().Bytes()}
	if id := query.MilestoneID(); id != nil {
		sqlText += ` AND l.milestone_id = ?`
		args = append(args, id.Bytes())
	}
	sqlText += ` ORDER BY l.at, l.id`

	rows, err := h.db.WithContext(ctx).Raw(sqlText, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]LogEntryView, 0)
	for rows.Next() {
		var view LogEntryView
		var id uuid.UUID
		var milestoneID uuid.NullUUID
		var from, to sql.NullInt16
		var at time.Time

		err = rows.Scan(
			&id,
			&milestoneID,
			&view.Step,
			&view.ActorID,
			&view.Action,
			&from,
			&to,
			&view.Note,
			&at,
		)
		if err != nil {
			return nil, err
		}

		entryID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		view.ID = entryID
		if milestoneID.Valid {
			mID, mErr := kernel.UUIDFromBytes(milestoneID.UUID[:])
			if mErr != nil {
				return nil, mErr
			}
			view.MilestoneID = &mID
		}
		if from.Valid {
			view.FromStatus = milestone.Status(from.Int16).String()
		}
		if to.Valid {
			view.ToStatus = milestone.Status(to.Int16).String()
		}
		view.At = at.UTC()
		entries = append(entries, view)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
