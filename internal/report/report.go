package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"worldtour/internal/sim"
	"worldtour/internal/world"
)

// Report is the printable outcome of one trip.
type Report struct {
	Origin      world.City   `json:"origin"`
	Path        []world.City `json:"path"`
	Hops        int          `json:"hops"`
	State       string       `json:"state"`
	TotalHours  int          `json:"totalHours"`
	Days        string       `json:"days"`
	BudgetHours int          `json:"budgetHours"`
	Feasible    bool         `json:"feasible"`
}

func Build(r sim.Result) Report {
	return Report{
		Origin:      r.Origin,
		Path:        r.Path,
		Hops:        len(r.Hops),
		State:       r.State.String(),
		TotalHours:  r.TotalHours,
		Days:        FormatDays(r.TotalHours),
		BudgetHours: r.BudgetHours,
		Feasible:    r.Feasible(),
	}
}

// FormatDays renders hours as days with two decimals.
func FormatDays(hours int) string {
	return strconv.FormatFloat(float64(hours)/24, 'f', 2, 64)
}

// FormatBudget renders a budget in whole days when it divides evenly and
// falls back to FormatDays otherwise.
func FormatBudget(hours int) string {
	if hours%24 == 0 {
		return strconv.Itoa(hours / 24)
	}
	return FormatDays(hours)
}

func WriteText(w io.Writer, r Report) error {
	for _, c := range r.Path {
		if _, err := fmt.Fprintln(w, c.String()); err != nil {
			return err
		}
	}
	budgetDays := FormatBudget(r.BudgetHours)
	verdict := fmt.Sprintf("It is possible to travel around the world in %s days starting from %s.", budgetDays, r.Origin.Name)
	if !r.Feasible {
		verdict = fmt.Sprintf("It is not possible to travel around the world in %s days starting from %s.", budgetDays, r.Origin.Name)
	}
	_, err := fmt.Fprintf(w, "%s\nTotal travel time: %s days\n", verdict, r.Days)
	return err
}

func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
