package xlsx_test

import (
	"bytes"
	"testing"

	"exportflow/internal/adapters/out/xlsx"
	"exportflow/internal/core/application/usecases/queries"
	"exportflow/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteOrderSchedule(t *testing.T) {
	ship := kernel.NewDate(2024, 3, 1)
	assignee := "li.wei"
	resp := queries.GetOrderMilestonesQueryResponse{
		Order: queries.OrderView{
			ID:          kernel.NewUUID(),
			Number:      "EX-20240102-0001",
			CustomerRef: "ACME-77",
			TradeTerm:   "FOB",
			Status:      "Active",
			ShipDate:    &ship,
		},
		Milestones: []queries.MilestoneView{
			{
				Step: "po_confirmed", Name: "PO confirmed", Role: "merchandiser", Assignee: &assignee,
				PlannedAt: kernel.NewDate(2024, 1, 3), DueAt: kernel.NewDate(2024, 1, 3),
				Status: "done", Required: true, Critical: true,
			},
			{
				Step: "fabric_ordered", Name: "Fabric ordered", Role: "procurement",
				PlannedAt: kernel.NewDate(2024, 1, 12), DueAt: kernel.NewDate(2024, 1, 12),
				Status: "in_progress", Required: true, Overdue: true, Notes: "mill confirmed",
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, xlsx.WriteOrderSchedule(&buf, resp))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	t.Run("header block", func(t *testing.T) {
		v, err := f.GetCellValue(xlsx.ScheduleSheet, "B1")
		require.NoError(t, err)
		assert.Equal(t, "EX-20240102-0001", v)

		v, err = f.GetCellValue(xlsx.ScheduleSheet, "B5")
		require.NoError(t, err)
		assert.Equal(t, "2024-03-01", v)

		v, err = f.GetCellValue(xlsx.ScheduleSheet, "B6")
		require.NoError(t, err)
		assert.Empty(t, v)
	})

	t.Run("milestone rows follow the column header", func(t *testing.T) {
		rows, err := f.GetRows(xlsx.ScheduleSheet)
		require.NoError(t, err)
		require.Len(t, rows, 10)

		assert.Equal(t, "Step", rows[7][0])
		require.GreaterOrEqual(t, len(rows[8]), 10)
		assert.Equal(t, []string{"po_confirmed", "PO confirmed", "merchandiser", "li.wei", "2024-01-03", "2024-01-03", "done", "no", "yes", "yes"}, rows[8][:10])
		assert.Equal(t, "fabric_ordered", rows[9][0])
		assert.Equal(t, "yes", rows[9][7])
		assert.Equal(t, "mill confirmed", rows[9][10])
	})

	t.Run("overdue rows are highlighted", func(t *testing.T) {
		plain, err := f.GetCellStyle(xlsx.ScheduleSheet, "A9")
		require.NoError(t, err)
		highlighted, err := f.GetCellStyle(xlsx.ScheduleSheet, "A10")
		require.NoError(t, err)

		assert.NotEqual(t, plain, highlighted)
	})
}

func TestWritePreview(t *testing.T) {
	lines := []queries.ScheduleLine{
		{
			Step: "final_inspection", Name: "Final inspection", Role: "qc", Required: true, EvidenceRequired: true,
			Predecessors: []string{"production_complete"}, RequiredDocs: []string{"inspection_report", "packing_list"},
			PlannedAt: kernel.NewDate(2024, 2, 22), DueAt: kernel.NewDate(2024, 2, 23),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, xlsx.WritePreview(&buf, lines))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(xlsx.PreviewSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{
		"final_inspection", "Final inspection", "qc", "2024-02-22", "2024-02-23", "yes", "no",
		"production_complete", "inspection_report, packing_list",
	}, rows[1])
}
