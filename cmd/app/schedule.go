package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"exportflow/cmd"
	"exportflow/internal/adapters/out/xlsx"
	"exportflow/internal/core/application/usecases/queries"
	"exportflow/internal/core/domain/catalog"
	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/order"

	"github.com/spf13/cobra"
)

type scheduleOptions struct {
	tradeTerm     string
	category      string
	packaging     string
	ppSample      bool
	created       string
	shipDate      string
	warehouseDate string
	out           string
}

func newScheduleCmd() *cobra.Command {
	var opts scheduleOptions

	c := &cobra.Command{
		Use:   "schedule",
		Short: "Preview the milestone dates of an order",
		Long: `Computes the milestones an order with the given attributes would get on
activation. Nothing is stored. With --out the preview is saved as a workbook.`,
		Example: `  exportflow schedule --trade-term FOB --ship-date 2024-03-01
  exportflow schedule --trade-term DDP --warehouse-date 2024-04-15 --packaging custom --out preview.xlsx`,
		RunE: func(c *cobra.Command, _ []string) error {
			attrs, err := opts.attributes(time.Now())
			if err != nil {
				return err
			}
			query, err := queries.NewPreviewScheduleQuery(attrs)
			if err != nil {
				return err
			}
			handler := cmd.NewPreviewScheduleQueryHandler(catalog.Default())
			lines, err := handler.Handle(query)
			if err != nil {
				return err
			}

			if opts.out == "" {
				return printSchedule(c.OutOrStdout(), lines)
			}
			if err := saveSchedule(opts.out, lines); err != nil {
				return err
			}
			c.Printf("%d milestones written to %s\n", len(lines), opts.out)
			return nil
		},
	}

	f := c.Flags()
	f.StringVar(&opts.tradeTerm, "trade-term", "FOB", "trade term: FOB or DDP")
	f.StringVar(&opts.category, "category", "bulk", "order category: bulk or sample")
	f.StringVar(&opts.packaging, "packaging", "standard", "packaging: standard or custom")
	f.BoolVar(&opts.ppSample, "pp-sample", false, "the order requires a pre-production sample")
	f.StringVar(&opts.created, "created", "", "creation date, YYYY-MM-DD (default today)")
	f.StringVar(&opts.shipDate, "ship-date", "", "ship date, YYYY-MM-DD (FOB anchor)")
	f.StringVar(&opts.warehouseDate, "warehouse-date", "", "warehouse arrival date, YYYY-MM-DD (DDP anchor)")
	f.StringVar(&opts.out, "out", "", "write the preview to this .xlsx file")
	return c
}

func (o scheduleOptions) attributes(now time.Time) (order.Attributes, error) {
	tradeTerm, termErr := order.ParseTradeTerm(o.tradeTerm)
	category, categoryErr := order.ParseCategory(o.category)
	packaging, packagingErr := order.ParsePackaging(o.packaging)

	createdAt := now.UTC()
	var createdErr error
	if o.created != "" {
		createdAt, createdErr = kernel.ParseDate(o.created)
	}
	shipDate, shipErr := optionalDate(o.shipDate)
	warehouseDate, warehouseErr := optionalDate(o.warehouseDate)

	if err := errors.Join(termErr, categoryErr, packagingErr, createdErr, shipErr, warehouseErr); err != nil {
		return order.Attributes{}, err
	}
	return order.Attributes{
		TradeTerm:        tradeTerm,
		Category:         category,
		Packaging:        packaging,
		RequiresPPSample: o.ppSample,
		CreatedAt:        createdAt,
		ShipDate:         shipDate,
		WarehouseDate:    warehouseDate,
	}, nil
}

func optionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := kernel.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func printSchedule(w io.Writer, lines []queries.ScheduleLine) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STEP\tMILESTONE\tROLE\tPLANNED\tDUE\tREQUIRED\tCRITICAL")
	for _, l := range lines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			l.Step, l.Name, l.Role,
			kernel.FormatDate(l.PlannedAt), kernel.FormatDate(l.DueAt),
			yesNo(l.Required), yesNo(l.Critical))
	}
	return tw.Flush()
}

func saveSchedule(path string, lines []queries.ScheduleLine) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return xlsx.WritePreview(f, lines)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
