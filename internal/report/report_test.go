package report_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worldtour/internal/report"
	"worldtour/internal/sim"
	"worldtour/internal/world"
)

func TestFormatDays(t *testing.T) {
	assert.Equal(t, "0.00", report.FormatDays(0))
	assert.Equal(t, "0.33", report.FormatDays(8))
	assert.Equal(t, "80.00", report.FormatDays(1920))
	assert.Equal(t, "80.25", report.FormatDays(1926))
	assert.Equal(t, "80.29", report.FormatDays(1927)) // 80.2916…
	assert.Equal(t, "0.42", report.FormatDays(10))   // 0.41666…
}

func TestFormatBudget(t *testing.T) {
	assert.Equal(t, "80", report.FormatBudget(1920))
	assert.Equal(t, "1", report.FormatBudget(24))
	assert.Equal(t, "1.25", report.FormatBudget(30))
}

func result(hours int) sim.Result {
	london := world.City{ID: 1, Name: "London", Lat: 51.5072, ISO3: "GBR", Population: 10979000}
	paris := world.City{ID: 2, Name: "Paris", Lat: 48.8566, Lng: 2.4797, ISO3: "FRA", Population: 11060000}
	return sim.Result{
		Origin:      london,
		Path:        []world.City{london, paris},
		Hops:        []sim.Hop{{Step: 1, From: london, To: paris, Rank: 1, Hours: hours, TotalHours: hours}},
		TotalHours:  hours,
		BudgetHours: sim.DefaultBudgetHours,
		State:       sim.StateNoCandidates,
	}
}

func TestWriteText_Feasible(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteText(&buf, report.Build(result(6))))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "id 1, London, GBR, lat 51.5072, lng 0, pop 10979000", lines[0])
	assert.Contains(t, lines[1], "Paris")
	assert.Equal(t, "It is possible to travel around the world in 80 days starting from London.", lines[2])
	assert.Equal(t, "Total travel time: 0.25 days", lines[3])
}

func TestWriteText_Infeasible(t *testing.T) {
	var buf bytes.Buffer
	rep := report.Build(result(1926))
	require.False(t, rep.Feasible)
	require.NoError(t, report.WriteText(&buf, rep))
	assert.Contains(t, buf.String(), "It is not possible to travel around the world in 80 days starting from London.")
	assert.Contains(t, buf.String(), "Total travel time: 80.25 days")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf, report.Build(result(6))))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "0.25", got["days"])
	assert.Equal(t, true, got["feasible"])
	assert.Equal(t, "no_candidates", got["state"])
	assert.EqualValues(t, 1, got["hops"])
	assert.Len(t, got["path"], 2)
}
