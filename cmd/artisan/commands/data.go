package commands

import (
	"github.com/spf13/cobra"
	"github.com/warp/artisan-engine/printer"
)

var resetConfirm bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample bakery into an empty store",
	Long: `Load five inputs, three products and three recipes of a small bakery.

Nothing is written when the store already holds inputs, products or
recipes. Batches and the stock ledger are never modified.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		seeded, err := a.svc.Seed(cmd.Context())
		if err != nil {
			return printer.Error("Seed failed", err.Error(), nil)
		}
		if !seeded {
			printer.Warning("Store already has inputs, products or recipes, nothing seeded\n")
			return nil
		}
		printer.Success("Sample bakery loaded\n")
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every input, product, recipe, batch and transaction",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetConfirm {
			return printer.Error("Refusing to reset",
				"This deletes all data in the configured store.",
				[]string{"Re-run with --yes to confirm"})
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.svc.Reset(cmd.Context()); err != nil {
			return printer.Error("Reset failed", err.Error(), nil)
		}
		printer.Success("Store cleared\n")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetConfirm, "yes", false, "Confirm deletion")
	rootCmd.AddCommand(seedCmd, resetCmd)
}
