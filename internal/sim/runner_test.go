package sim_test

import (
	"context"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worldtour/internal/metrics"
	"worldtour/internal/publisher"
	"worldtour/internal/sim"
	"worldtour/internal/world"
)

type fakePublisher struct {
	mu        sync.Mutex
	hops      []publisher.HopMessage
	summaries []publisher.SummaryMessage
}

func (f *fakePublisher) PublishHop(_ int64, msg publisher.HopMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hops = append(f.hops, msg)
	return nil
}

func (f *fakePublisher) PublishSummary(_ int64, msg publisher.SummaryMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaries = append(f.summaries, msg)
	return nil
}

// rawWorld is given in raw longitudes, London slightly west of Greenwich.
var rawWorld = []world.City{
	{ID: 1, Name: "London", Lat: 51.5072, Lng: -0.1275, ISO3: "GBR", Population: 10979000},
	{ID: 2, Name: "Paris", Lat: 48.8566, Lng: 2.3522, ISO3: "FRA", Population: 11060000},
	{ID: 3, Name: "Berlin", Lat: 52.52, Lng: 13.405, ISO3: "DEU", Population: 3644826},
	{ID: 4, Name: "Moscow", Lat: 55.7558, Lng: 37.6173, ISO3: "RUS", Population: 17332000},
	{ID: 5, Name: "New York", Lat: 40.6943, Lng: -73.9249, ISO3: "USA", Population: 18972871},
}

func TestRunner_Run(t *testing.T) {
	pub := &fakePublisher{}
	col := metrics.NewCollector(sim.DefaultBudgetHours, len(rawWorld))
	r := sim.NewRunner(rawWorld, 0, 2, false, col, pub)

	res, err := r.Run(context.Background(), rawWorld[0])
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, pathIDs(res.Path))
	assert.InDelta(t, 0, res.Path[0].Lng, 1e-12)
	assert.Equal(t, sim.StateNoCandidates, res.State)
	// every hop crosses a border into a big city: 4 * 6
	assert.Equal(t, 24, res.TotalHours)
	assert.Equal(t, sim.DefaultBudgetHours, res.BudgetHours)

	require.Len(t, pub.hops, 4)
	assert.Equal(t, "Paris", pub.hops[0].ToName)
	assert.EqualValues(t, 1, pub.hops[0].OriginID)
	require.Len(t, pub.summaries, 1)
	assert.True(t, pub.summaries[0].Feasible)
	assert.Equal(t, "no_candidates", pub.summaries[0].State)
	assert.InDelta(t, 1.0, pub.summaries[0].Days, 1e-9)

	assert.Equal(t, 4.0, testutil.ToFloat64(col.HopsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(col.TripsFinished.WithLabelValues("no_candidates")))
	assert.Equal(t, 1.0, testutil.ToFloat64(col.TripVerdicts.WithLabelValues("feasible")))
	assert.Equal(t, 24.0, testutil.ToFloat64(col.LastTripHours))
	assert.Zero(t, testutil.ToFloat64(col.TripsInFlight))
}

func TestRunner_RunAllKeepsOrder(t *testing.T) {
	r := sim.NewRunner(rawWorld, 0, 3, false, nil, nil)
	origins := []world.City{rawWorld[3], rawWorld[0], rawWorld[4]}
	results, err := r.RunAll(context.Background(), origins)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, res := range results {
		assert.Equal(t, origins[i].ID, res.Origin.ID)
		assert.Equal(t, origins[i].ID, res.Path[0].ID)
	}
	// From Moscow every other city wraps round to the far end of the scale.
	// Berlin is nearest on the sphere and also the easternmost, so the trip ends there.
	assert.Equal(t, []int64{4, 3}, pathIDs(results[0].Path))
}

func TestRunner_RunAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := sim.NewRunner(rawWorld, 0, 1, false, nil, nil)
	_, err := r.RunAll(ctx, rawWorld[:2])
	require.ErrorIs(t, err, context.Canceled)
}
