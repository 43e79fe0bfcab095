package queries

import (
	"context"
	"time"

	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"
	"exportflow/internal/core/domain/model/order"
	"exportflow/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GetOrderMilestonesQueryHandler reads an order and its milestone set.
type GetOrderMilestonesQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderMilestonesQueryHandler creates a handler for milestone set queries.
func NewGetOrderMilestonesQueryHandler(db *gorm.DB) GetOrderMilestonesQueryHandler {
	return GetOrderMilestonesQueryHandler{db: db}
}

// Handle returns ObjectNotFoundError when the order does not exist. A draft
// order has an empty milestone list.
func (h GetOrderMilestonesQueryHandler) Handle(
	ctx context.Context,
	query GetOrderMilestonesQuery,
) (GetOrderMilestonesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderMilestonesQueryResponse{}, err
	}

	header, err := h.order(ctx, query.OrderID())
	if err != nil {
		return GetOrderMilestonesQueryResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			step,
			name,
			role,
			assignee,
			planned_at,
			due_at,
			status,
			notes,
			required,
			critical,
			evidence_required,
			predecessors,
			version
		FROM milestones
		WHERE order_id = ?
		ORDER BY due_at, planned_at, position
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return GetOrderMilestonesQueryResponse{}, err
	}
	defer rows.Close()

	milestones := make([]MilestoneView, 0)
	for rows.Next() {
		var view MilestoneView
		var id uuid.UUID
		var status int
		var predecessors pq.StringArray

		err = rows.Scan(
			&id,
			&view.Step,
			&view.Name,
			&view.Role,
			&view.Assignee,
			&view.PlannedAt,
			&view.DueAt,
			&status,
			&view.Notes,
			&view.Required,
			&view.Critical,
			&view.EvidenceRequired,
			&predecessors,
			&view.Version,
		)
		if err != nil {
			return GetOrderMilestonesQueryResponse{}, err
		}

		milestoneID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return GetOrderMilestonesQueryResponse{}, idErr
		}
		view.ID = milestoneID
		view.Status = milestone.Status(status).String()
		view.Predecessors = []string(predecessors)
		view.PlannedAt = view.PlannedAt.UTC()
		view.DueAt = view.DueAt.UTC()
		view.Overdue = milestone.Status(status) != milestone.Done && view.DueAt.Before(query.Today())
		milestones = append(milestones, view)
	}

	if err = rows.Err(); err != nil {
		return GetOrderMilestonesQueryResponse{}, err
	}

	return GetOrderMilestonesQueryResponse{Order: header, Milestones: milestones}, nil
}

type orderRow struct {
	Number           string
	CustomerRef      string
	TradeTerm        int
	Category         int
	Packaging        int
	RequiresPPSample bool
	Status           int
	CreatedAt        time.Time
	ShipDate         *time.Time
	WarehouseDate    *time.Time
	Version          int
}

func (h GetOrderMilestonesQueryHandler) order(ctx context.Context, orderID kernel.UUID) (OrderView, error) {
	var row orderRow
	result := h.db.WithContext(ctx).Raw(`
		SELECT
			number,
			customer_ref,
			trade_term,
			category,
			packaging,
			requires_pp_sample,
			status,
			created_at,
			ship_date,
			warehouse_date,
			version
		FROM orders
		WHERE id = ?
	`, orderID.Bytes()).Scan(&row)
	if result.Error != nil {
		return OrderView{}, result.Error
	}
	if result.RowsAffected == 0 {
		return OrderView{}, errs.NewObjectNotFoundError("order", orderID.String())
	}

	return OrderView{
		ID:               orderID,
		Number:           row.Number,
		CustomerRef:      row.CustomerRef,
		TradeTerm:        order.TradeTerm(row.TradeTerm).String(),
		Category:         order.Category(row.Category).String(),
		Packaging:        order.Packaging(row.Packaging).String(),
		RequiresPPSample: row.RequiresPPSample,
		Status:           order.Status(row.Status).String(),
		CreatedAt:        row.CreatedAt.UTC(),
		ShipDate:         utcOrNil(row.ShipDate),
		WarehouseDate:    utcOrNil(row.WarehouseDate),
		Version:          row.Version,
	}, nil
}

func utcOrNil(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
