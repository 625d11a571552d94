package sim

import (
	"context"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"worldtour/internal/dataset"
	mmetrics "worldtour/internal/metrics"
	"worldtour/internal/world"
)

// Runner simulates trips from several origins over one raw dataset. Every
// trip gets its own catalog normalised to its origin's meridian.
type Runner struct {
	raw         []world.City
	budgetHours int
	parallelism int
	logHops     bool
	metrics     *mmetrics.Collector
	pub         HopPublisher

	mu       sync.Mutex
	inFlight int
}

func NewRunner(raw []world.City, budgetHours, parallelism int, logHops bool, metrics *mmetrics.Collector, pub HopPublisher) *Runner {
	if parallelism <= 0 {
		parallelism = 1
	}
	if budgetHours <= 0 {
		budgetHours = DefaultBudgetHours
	}
	return &Runner{
		raw:         raw,
		budgetHours: budgetHours,
		parallelism: parallelism,
		logHops:     logHops,
		metrics:     metrics,
		pub:         pub,
	}
}

// Run simulates a single trip from origin, given in raw coordinates.
func (r *Runner) Run(ctx context.Context, origin world.City) (Result, error) {
	cat, start := dataset.Prepare(r.raw, origin)

	r.mu.Lock()
	r.inFlight++
	if r.metrics != nil {
		r.metrics.TripsInFlight.Set(float64(r.inFlight))
	}
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.inFlight--
		if r.metrics != nil {
			r.metrics.TripsInFlight.Set(float64(r.inFlight))
		}
		r.mu.Unlock()
	}()

	log.Printf("starting trip from %s (id %d) over %d cities", origin.Name, origin.ID, cat.Len())
	trip := NewTrip(start, cat,
		WithBudgetHours(r.budgetHours),
		WithHopLogging(r.logHops),
		WithMetrics(r.metrics),
		WithPublisher(r.pub),
	)
	res, err := trip.Run(ctx)
	if err != nil {
		return res, err
	}
	log.Printf("finished trip from %s: %s after %d hops, %d hours", origin.Name, res.State, len(res.Hops), res.TotalHours)
	return res, nil
}

// RunAll simulates one trip per origin concurrently and returns the results
// in the order of origins. The first error cancels the remaining trips.
func (r *Runner) RunAll(ctx context.Context, origins []world.City) ([]Result, error) {
	results := make([]Result, len(origins))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism)
	for i, o := range origins {
		g.Go(func() error {
			res, err := r.Run(gctx, o)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
