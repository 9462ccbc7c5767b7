package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/warp/artisan-engine/generic"
	"github.com/warp/artisan-engine/printer"
	"github.com/warp/artisan-engine/reports"
)

var (
	reportPeriod string
	reportXLSX   string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize production over a period",
	Long: `Aggregate batches and consumption for the last week, the current month
or the last quarter.

Examples:
  artisan report
  artisan report --period week
  artisan report --period quarter --xlsx q.xlsx`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportPeriod, "period", "p", "month", "week, month or quarter")
	reportCmd.Flags().StringVar(&reportXLSX, "xlsx", "", "Also write the report to this XLSX file")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	window := generic.ParseWindow(reportPeriod)
	if string(window) != reportPeriod {
		return printer.Error("Unknown period", fmt.Sprintf("%q is not a report period.", reportPeriod),
			[]string{"Use --period week, month or quarter"})
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	r := reports.Build(a.svc.Snapshot(cmd.Context()), window, a.svc.Clock().Now())

	printer.Info("%s: %s\n", r.Window, generic.Period{Start: r.Start, End: r.End})
	printer.Info("Batches %d, completed %d, input cost %s\n\n",
		r.Summary.Batches, r.Summary.CompletedBatches, r.Summary.TotalCost.StringFixed(2))

	if len(r.ProductionByProduct) > 0 {
		rows := make([][]string, len(r.ProductionByProduct))
		for i, p := range r.ProductionByProduct {
			rows[i] = []string{p.Name, p.Quantity.String(), p.Unit, strconv.Itoa(p.Batches)}
		}
		printer.Step("Production by product\n")
		if err := printer.Table([]string{"Product", "Quantity", "Unit", "Batches"}, rows); err != nil {
			return err
		}
	}

	if len(r.ConsumptionByInput) > 0 {
		rows := make([][]string, len(r.ConsumptionByInput))
		for i, c := range r.ConsumptionByInput {
			rows[i] = []string{c.Name, c.Quantity.String(), c.Unit}
		}
		printer.Step("Consumption by input\n")
		if err := printer.Table([]string{"Input", "Quantity", "Unit"}, rows); err != nil {
			return err
		}
	}

	if reportXLSX == "" {
		return nil
	}
	f, err := os.Create(reportXLSX)
	if err != nil {
		return printer.Error("Cannot write report", err.Error(), nil)
	}
	defer f.Close()
	if err := reports.WriteXLSX(f, r); err != nil {
		return printer.Error("Cannot write report", err.Error(), nil)
	}
	printer.Success("Wrote %s\n", reportXLSX)
	return nil
}
