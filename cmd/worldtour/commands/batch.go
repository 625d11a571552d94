package commands

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"worldtour/internal/report"
	"worldtour/internal/sim"
)

func batchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch <city-id>...",
		Short: "Run trips from several origins concurrently and summarise them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, len(args))
			for i, a := range args {
				id, err := strconv.ParseInt(a, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid city id %q", a)
				}
				ids[i] = id
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			raw, err := loadCities(ctx, cfg)
			if err != nil {
				return err
			}
			origins, err := originsByID(raw, ids)
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

			runner := sim.NewRunner(raw, cfg.BudgetHours(), cfg.Parallelism, cfg.LogHops, mcol, pub)
			results, err := runner.RunAll(ctx, origins)
			if err != nil {
				return err
			}

			reps := make([]report.Report, len(results))
			for i, r := range results {
				reps[i] = report.Build(r)
			}
			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(reps)
			}
			for _, r := range reps {
				verdict := "feasible"
				if !r.Feasible {
					verdict = "not feasible"
				}
				fmt.Fprintf(out, "%s: %d hops, %s days, %s (%s)\n", r.Origin.Name, r.Hops, r.Days, verdict, r.State)
			}
			return nil
		},
	}
}
