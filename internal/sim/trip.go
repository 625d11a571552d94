package sim

import (
	"context"
	"log"
	"time"

	"worldtour/internal/catalog"
	"worldtour/internal/cost"
	"worldtour/internal/world"
)

// DefaultBudgetHours is eighty days.
const DefaultBudgetHours = 80 * 24

// State is where a trip stands; every state but StateRunning is final.
type State int

const (
	StateRunning State = iota
	StateNoCandidates
	StateReturnedToOrigin
	StateStepLimit
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateNoCandidates:
		return "no_candidates"
	case StateReturnedToOrigin:
		return "returned_to_origin"
	case StateStepLimit:
		return "step_limit"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further step can change the trip.
func (s State) Terminal() bool { return s != StateRunning }

// Hop is one accepted move of a trip.
type Hop struct {
	Step         int
	From         world.City
	To           world.City
	Rank         int
	DistanceKm   float64
	Hours        int
	TotalHours   int
	Alternatives []world.Candidate // the full candidate list the hop was chosen from
	Elapsed      time.Duration     // time spent scanning the catalog
}

// Observer is notified as a trip advances.
type Observer interface {
	HopTaken(origin world.City, h Hop)
	TripFinished(r Result)
}

// Trip is the mutable state of one greedy eastward traversal. A Trip is not
// safe for concurrent use; create one per run.
type Trip struct {
	origin  world.City
	catalog *catalog.Catalog

	current    world.City
	path       []world.City
	hops       []Hop
	totalHours int
	state      State

	budgetHours int
	stepLimit   int
	logHops     bool
	observers   []Observer
}

type Option func(*Trip)

// WithBudgetHours overrides the feasibility budget.
func WithBudgetHours(h int) Option { return func(t *Trip) { t.budgetHours = h } }

// WithStepLimit caps the number of hops. Zero keeps the default of the catalog size.
func WithStepLimit(n int) Option { return func(t *Trip) { t.stepLimit = n } }

func WithHopLogging(on bool) Option { return func(t *Trip) { t.logHops = on } }

func WithObserver(o Observer) Option {
	return func(t *Trip) {
		if o != nil {
			t.observers = append(t.observers, o)
		}
	}
}

// NewTrip prepares a trip starting at origin. origin's longitude must be on
// the same normalised scale as the catalog.
func NewTrip(origin world.City, cat *catalog.Catalog, opts ...Option) *Trip {
	t := &Trip{
		origin:      origin,
		catalog:     cat,
		current:     origin,
		path:        []world.City{origin},
		state:       StateRunning,
		budgetHours: DefaultBudgetHours,
	}
	for _, o := range opts {
		o(t)
	}
	if t.stepLimit <= 0 {
		t.stepLimit = cat.Len()
	}
	return t
}

func (t *Trip) State() State { return t.state }

// Step performs one transition and returns the resulting state.
func (t *Trip) Step() State {
	if t.state.Terminal() {
		return t.state
	}
	scanStart := time.Now()
	candidates := t.catalog.EastwardCandidates(t.current)
	elapsed := time.Since(scanStart)
	if len(candidates) == 0 {
		t.state = StateNoCandidates
		return t.state
	}
	if len(t.hops) >= t.stepLimit {
		log.Printf("trip %d hit step limit %d at %s", t.origin.ID, t.stepLimit, t.current.Name)
		t.state = StateStepLimit
		return t.state
	}

	// Only the nearest candidate is ever taken.
	next := candidates[0]
	hours := cost.HopCost(t.current, next.City, next.Rank)
	t.totalHours += hours
	h := Hop{
		Step:         len(t.hops) + 1,
		From:         t.current,
		To:           next.City,
		Rank:         next.Rank,
		DistanceKm:   next.DistanceKm,
		Hours:        hours,
		TotalHours:   t.totalHours,
		Alternatives: candidates,
		Elapsed:      elapsed,
	}
	t.hops = append(t.hops, h)
	t.path = append(t.path, next.City)
	t.current = next.City

	if t.logHops {
		log.Printf("trip %d hop %d: %s -> %s (%.1f km, %dh, total %dh)", t.origin.ID, h.Step, h.From.Name, h.To.Name, h.DistanceKm, h.Hours, h.TotalHours)
	}
	for _, o := range t.observers {
		o.HopTaken(t.origin, h)
	}

	if t.current.ID == t.origin.ID {
		t.state = StateReturnedToOrigin
	}
	return t.state
}

// Run steps the trip until it reaches a terminal state. The context is
// checked between steps; on cancellation the partial trip is kept and
// ctx.Err() returned.
func (t *Trip) Run(ctx context.Context) (Result, error) {
	for !t.state.Terminal() {
		if err := ctx.Err(); err != nil {
			return t.Result(), err
		}
		t.Step()
	}
	r := t.Result()
	for _, o := range t.observers {
		o.TripFinished(r)
	}
	return r, nil
}

// Feasible reports whether the hours accumulated so far fit the budget.
func (t *Trip) Feasible() bool { return t.totalHours <= t.budgetHours }

// Result snapshots the trip. The returned slices are not shared with the trip.
func (t *Trip) Result() Result {
	path := make([]world.City, len(t.path))
	copy(path, t.path)
	hops := make([]Hop, len(t.hops))
	copy(hops, t.hops)
	return Result{
		Origin:      t.origin,
		Path:        path,
		Hops:        hops,
		TotalHours:  t.totalHours,
		BudgetHours: t.budgetHours,
		State:       t.state,
	}
}

// Result is the outcome of a trip.
type Result struct {
	Origin      world.City
	Path        []world.City
	Hops        []Hop
	TotalHours  int
	BudgetHours int
	State       State
}

func (r Result) Feasible() bool { return r.TotalHours <= r.BudgetHours }

func (r Result) Days() float64 { return float64(r.TotalHours) / 24 }
