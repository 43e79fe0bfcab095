package queries

import (
	"context"

	"exportflow/internal/core/domain/model/delay"
	"exportflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetDelayRequestsQueryHandler reads delay requests.
type GetDelayRequestsQueryHandler struct {
	db *gorm.DB
}

// NewGetDelayRequestsQueryHandler creates a handler for delay request listings.
func NewGetDelayRequestsQueryHandler(db *gorm.DB) GetDelayRequestsQueryHandler {
	return GetDelayRequestsQueryHandler{db: db}
}

// Handle returns the order's requests, newest first.
func (h GetDelayRequestsQueryHandler) Handle(ctx context.Context, query GetDelayRequestsQuery) ([]DelayRequestView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sqlText := `
		SELECT
			d.id,
			d.milestone_id,
			COALESCE(m.step, ''),
			d.reason,
			d.reason_text,
			d.proposed_anchor_date,
			d.proposed_due_date,
			d.requires_external_confirmation,
			d.confirmation_evidence_ref,
			d.requested_by,
			d.requested_at,
			d.status,
			d.decided_by,
			d.decided_at,
			d.rejection_note
		FROM delay_requests d
		LEFT JOIN milestones m ON m.id = d.milestone_id
		WHERE d.order_id = ?`
	args := []any{query.OrderID().Bytes()}
	if query.PendingOnly() {
		sqlText += ` AND d.status = ?`
		args = append(args, int(delay.Pending))
	}
	sqlText += ` ORDER BY d.requested_at DESC`

	rows, err := h.db.WithContext(ctx).Raw(sqlText, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]DelayRequestView, 0)
	for rows.Next() {
		var view DelayRequestView
		var id uuid.UUID
		var milestoneID uuid.NullUUID
		var reason, status int

		err = rows.Scan(
			&id,
			&milestoneID,
			&view.Step,
			&reason,
			&view.ReasonText,
			&view.ProposedAnchorDate,
			&view.ProposedDueDate,
			&view.RequiresExternalConfirmation,
			&view.ConfirmationEvidenceRef,
			&view.RequestedBy,
			&view.RequestedAt,
			&status,
			&view.DecidedBy,
			&view.DecidedAt,
			&view.RejectionNote,
		)
		if err != nil {
			return nil, err
		}

		requestID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		view.ID = requestID
		if milestoneID.Valid {
			mID, mErr := kernel.UUIDFromBytes(milestoneID.UUID[:])
			if mErr != nil {
				return nil, mErr
			}
			view.MilestoneID = &mID
		}
		view.Reason = delay.ReasonCategory(reason).String()
		view.Status = delay.ApprovalStatus(status).String()
		view.ProposedAnchorDate = utcOrNil(view.ProposedAnchorDate)
		view.ProposedDueDate = utcOrNil(view.ProposedDueDate)
		view.DecidedAt = utcOrNil(view.DecidedAt)
		view.RequestedAt = view.RequestedAt.UTC()
		requests = append(requests, view)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}
