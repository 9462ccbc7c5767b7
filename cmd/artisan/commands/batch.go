package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/warp/artisan-engine/generic"
	"github.com/warp/artisan-engine/printer"
	"github.com/warp/artisan-engine/production"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "List and settle production batches",
}

var batchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List batches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		recipes := a.svc.Snapshot(cmd.Context()).RecipeIndex()
		var rows [][]string
		for _, b := range a.svc.Batches.List(cmd.Context()) {
			name := "(deleted recipe)"
			if r, ok := recipes[b.RecipeID]; ok {
				name = r.Name
			}
			rows = append(rows, []string{string(b.ID), b.BatchNumber, name, fmt.Sprint(b.Quantity), string(b.Status)})
		}
		if len(rows) == 0 {
			printer.Info("No batches\n")
			return nil
		}
		return printer.Table([]string{"ID", "Number", "Recipe", "Qty", "Status"}, rows)
	},
}

// newCompleteCmd is registered both as "artisan complete" and
// "artisan batch complete".
func newCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete BATCH_ID",
		Short: "Complete a batch: consume inputs and add product stock",
		Args:  cobra.ExactArgs(1),
		RunE:  runComplete,
	}
}

func runComplete(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.svc.CompleteBatch(cmd.Context(), production.BatchID(args[0]))
	if err != nil {
		return explainSettlement(err)
	}

	printer.Success("%s\n", result.Message)
	for _, tx := range result.Transactions {
		printer.Info("  %-20s %s\n", tx.Type, tx.Quantity.String())
	}
	return nil
}

func explainSettlement(err error) error {
	var short *generic.InsufficientStockError
	switch {
	case errors.As(err, &short):
		suggestions := make([]string, 0, len(short.Shortfalls)+1)
		for _, s := range short.Shortfalls {
			suggestions = append(suggestions, fmt.Sprintf("Buy %s%s more %s", s.Missing(), s.Unit, s.Name))
		}
		suggestions = append(suggestions, "Reduce the batch quantity")
		return printer.Error("Not enough stock", err.Error(), suggestions)
	case errors.Is(err, generic.ErrInvalidTransition):
		return printer.Error("Batch cannot be completed", err.Error(), nil)
	case generic.IsNotFound(err):
		return printer.Error("Not found", err.Error(), []string{"Run \"artisan batch list\" for batch IDs"})
	default:
		return printer.Error("Settlement failed", err.Error(), nil)
	}
}

func init() {
	batchCmd.AddCommand(batchListCmd, newCompleteCmd())
	rootCmd.AddCommand(batchCmd, newCompleteCmd())
}
