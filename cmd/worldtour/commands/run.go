package commands

import (
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"worldtour/internal/report"
	"worldtour/internal/sim"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Travel east from the origin and report whether the circuit fits the budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			raw, err := loadCities(ctx, cfg)
			if err != nil {
				return err
			}
			origin, err := resolveOrigin(raw, cfg)
			if err != nil {
				return err
			}

			mcol, stopMetrics := startMetrics(cfg, len(raw))
			defer stopMetrics()
			pub, closePub, err := connectPublisher(cfg, mcol)
			if err != nil {
				return err
			}
			defer closePub()

			runner := sim.NewRunner(raw, cfg.BudgetHours(), 1, cfg.LogHops, mcol, pub)
			res, err := runner.Run(ctx, origin)
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), report.Build(res))
		},
	}
}

func printReport(w io.Writer, rep report.Report) error {
	if jsonOut {
		return report.WriteJSON(w, rep)
	}
	return report.WriteText(w, rep)
}
