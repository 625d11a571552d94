package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"worldtour/internal/config"
	"worldtour/internal/world"
)

var (
	cfg *config.Config

	citiesFile string
	originID   int64
	budgetDays int
	jsonOut    bool
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "worldtour",
		Short:        "Greedy eastward round-the-world simulation over a city dataset",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("cities") {
				c.CitiesFile = citiesFile
			}
			if flags.Changed("origin") && originID != c.Origin.ID {
				// the rest of the record has to come from the dataset
				c.Origin = world.City{ID: originID}
			}
			if flags.Changed("budget-days") {
				if budgetDays <= 0 {
					return fmt.Errorf("--budget-days must be positive, got %d", budgetDays)
				}
				c.BudgetDays = budgetDays
			}
			cfg = c
			return nil
		},
	}

	root.PersistentFlags().StringVar(&citiesFile, "cities", "", "CSV or XLSX city file (overrides CITIES_FILE)")
	root.PersistentFlags().Int64Var(&originID, "origin", 0, "origin city id (overrides ORIGIN_ID)")
	root.PersistentFlags().IntVar(&budgetDays, "budget-days", 80, "feasibility budget in days (overrides BUDGET_DAYS)")
	root.PersistentFlags().BoolVar(&jsonOut, "json", false, "print JSON instead of text")

	root.AddCommand(runCmd(), candidatesCmd(), batchCmd(), serveCmd())
	return root
}
