// Package xlsx renders milestone schedules as Excel workbooks.
package xlsx

import (
	"fmt"
	"io"
	"strings"
	"time"

	"exportflow/internal/core/application/usecases/queries"
	"exportflow/internal/core/domain/model/kernel"

	"github.com/xuri/excelize/v2"
)

const (
	ScheduleSheet = "Schedule"
	PreviewSheet  = "Preview"

	// ContentType is the MIME type of the produced workbooks.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	scheduleHeaders = []string{"Step", "Milestone", "Role", "Assignee", "Planned", "Due", "Status", "Overdue", "Required", "Critical", "Notes"}
	scheduleWidths  = []float64{22, 30, 14, 18, 12, 12, 13, 9, 9, 9, 50}

	previewHeaders = []string{"Step", "Milestone", "Role", "Planned", "Due", "Required", "Critical", "Predecessors", "Documents"}
	previewWidths  = []float64{22, 30, 14, 12, 12, 9, 9, 40, 40}
)

// WriteOrderSchedule writes the order header and its milestone rows to w.
// Overdue rows are highlighted.
func WriteOrderSchedule(w io.Writer, resp queries.GetOrderMilestonesQueryResponse) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", ScheduleSheet); err != nil {
		return err
	}
	styles, err := newStyles(f)
	if err != nil {
		return err
	}

	o := resp.Order
	header := [][]any{
		{"Order", o.Number},
		{"Customer", o.CustomerRef},
		{"Trade term", o.TradeTerm},
		{"Status", o.Status},
		{"Ship date", dateOrEmpty(o.ShipDate)},
		{"Warehouse date", dateOrEmpty(o.WarehouseDate)},
	}
	for i, row := range header {
		if err := setRow(f, ScheduleSheet, i+1, row); err != nil {
			return err
		}
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetCellStyle(ScheduleSheet, cell, cell, styles.label); err != nil {
			return err
		}
	}

	first := len(header) + 2
	if err := writeHeader(f, ScheduleSheet, first, scheduleHeaders, styles.header); err != nil {
		return err
	}
	for i, m := range resp.Milestones {
		rowNum := first + 1 + i
		assignee := ""
		if m.Assignee != nil {
			assignee = *m.Assignee
		}
		row := []any{
			m.Step, m.Name, m.Role, assignee,
			kernel.FormatDate(m.PlannedAt), kernel.FormatDate(m.DueAt),
			m.Status, yesNo(m.Overdue), yesNo(m.Required), yesNo(m.Critical), m.Notes,
		}
		if err := setRow(f, ScheduleSheet, rowNum, row); err != nil {
			return err
		}
		if m.Overdue {
			last, _ := excelize.ColumnNumberToName(len(scheduleHeaders))
			if err := f.SetCellStyle(ScheduleSheet, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("%s%d", last, rowNum), styles.overdue); err != nil {
				return err
			}
		}
	}
	if err := setWidths(f, ScheduleSheet, scheduleWidths); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

// WritePreview writes a computed schedule that has not been persisted.
func WritePreview(w io.Writer, lines []queries.ScheduleLine) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", PreviewSheet); err != nil {
		return err
	}
	styles, err := newStyles(f)
	if err != nil {
		return err
	}

	if err := writeHeader(f, PreviewSheet, 1, previewHeaders, styles.header); err != nil {
		return err
	}
	for i, l := range lines {
		row := []any{
			l.Step, l.Name, l.Role,
			kernel.FormatDate(l.PlannedAt), kernel.FormatDate(l.DueAt),
			yesNo(l.Required), yesNo(l.Critical),
			strings.Join(l.Predecessors, ", "), strings.Join(l.RequiredDocs, ", "),
		}
		if err := setRow(f, PreviewSheet, i+2, row); err != nil {
			return err
		}
	}
	if err := setWidths(f, PreviewSheet, previewWidths); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

type styles struct {
	header  int
	label   int
	overdue int
}

func newStyles(f *excelize.File) (styles, error) {
	var s styles
	var err error
	s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return s, err
	}
	s.label, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return s, err
	}
	s.overdue, err = f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#F8CBAD"}},
	})
	return s, err
}

func writeHeader(f *excelize.File, sheet string, row int, headers []string, style int) error {
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := fmt.Sprintf("%s%d", col, row)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func setWidths(f *excelize.File, sheet string, widths []float64) error {
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}
	return nil
}

func dateOrEmpty(d *time.Time) string {
	if d == nil {
		return ""
	}
	return kernel.FormatDate(*d)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
