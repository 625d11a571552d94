package commands

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"worldtour/internal/cost"
	"worldtour/internal/dataset"
)

// candidates: show the three hops the engine would weigh from a city.
func candidatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "candidates <city-id>",
		Short: "List the closest eastward cities of a city on the origin's scale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid city id %q", args[0])
			}
			raw, err := loadCities(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			origin, err := resolveOrigin(raw, cfg)
			if err != nil {
				return err
			}
			cat, _ := dataset.Prepare(raw, origin)
			from, ok := cat.Lookup(id)
			if !ok {
				return fmt.Errorf("%w: id %d", dataset.ErrCityNotFound, id)
			}
			cands := cat.EastwardCandidates(from)

			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(cands)
			}
			fmt.Fprintf(out, "from %s\n", from)
			if len(cands) == 0 {
				fmt.Fprintln(out, "no city further east")
				return nil
			}
			for _, c := range cands {
				fmt.Fprintf(out, "%d. %s (%s) %.1f km, %dh\n", c.Rank, c.City.Name, c.City.ISO3, c.DistanceKm, cost.HopCost(from, c.City, c.Rank))
			}
			return nil
		},
	}
}
