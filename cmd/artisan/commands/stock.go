package commands

import (
	"github.com/spf13/cobra"
	"github.com/warp/artisan-engine/printer"
)

var stockLowOnly bool

var stockCmd = &cobra.Command{
	Use:   "stock",
	Short: "Show input and product stock",
	Long: `Print every input and product with its stock, minimum and unit cost.

Examples:
  artisan stock
  artisan stock --low`,
	Args: cobra.NoArgs,
	RunE: runStock,
}

func init() {
	stockCmd.Flags().BoolVar(&stockLowOnly, "low", false, "Only show lines at or below their minimum")
	rootCmd.AddCommand(stockCmd)
}

func runStock(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmd.Context()

	header := []string{"Name", "Stock", "Min", "Unit", "Cost/unit", ""}

	var inputRows [][]string
	for _, in := range a.svc.Inputs.List(ctx) {
		if stockLowOnly && !in.IsLowStock() {
			continue
		}
		inputRows = append(inputRows, []string{
			in.Name, in.Stock.String(), in.MinStock.String(), in.Unit, in.CostPerUnit.StringFixed(2), lowMark(in.IsLowStock()),
		})
	}

	var productRows [][]string
	for _, p := range a.svc.Products.List(ctx) {
		if stockLowOnly && !p.IsLowStock() {
			continue
		}
		productRows = append(productRows, []string{
			p.Name, p.Stock.String(), p.MinStock.String(), p.Unit, p.CostPerUnit.StringFixed(2), lowMark(p.IsLowStock()),
		})
	}

	if len(inputRows) == 0 && len(productRows) == 0 {
		if stockLowOnly {
			printer.Success("Nothing is low on stock\n")
		} else {
			printer.Info("No stock yet. Run \"artisan seed\" for sample data.\n")
		}
		return nil
	}

	printer.Step("Inputs\n")
	if err := printer.Table(header, inputRows); err != nil {
		return err
	}
	printer.Step("Products\n")
	return printer.Table(header, productRows)
}

func lowMark(low bool) string {
	if low {
		return "LOW"
	}
	return ""
}
