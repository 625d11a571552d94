package sim

import (
	"log"
	"time"

	"worldtour/internal/geo"
	mmetrics "worldtour/internal/metrics"
	"worldtour/internal/publisher"
	"worldtour/internal/world"
)

// HopPublisher is satisfied by *publisher.NATSPublisher.
type HopPublisher interface {
	PublishHop(originID int64, msg publisher.HopMessage) error
	PublishSummary(originID int64, msg publisher.SummaryMessage) error
}

// WithMetrics records hops and outcomes on c. A nil collector is ignored.
func WithMetrics(c *mmetrics.Collector) Option {
	if c == nil {
		return func(*Trip) {}
	}
	return WithObserver(metricsObserver{c: c})
}

// WithPublisher streams hops and the final summary to p. A nil publisher is ignored.
func WithPublisher(p HopPublisher) Option {
	if p == nil {
		return func(*Trip) {}
	}
	return WithObserver(publishObserver{pub: p})
}

type metricsObserver struct{ c *mmetrics.Collector }

func (m metricsObserver) HopTaken(_ world.City, h Hop) {
	m.c.HopsTotal.Inc()
	m.c.HopHours.Observe(float64(h.Hours))
	m.c.HopDistanceKm.Observe(h.DistanceKm)
	m.c.CandidateScan.Observe(h.Elapsed.Seconds())
}

func (m metricsObserver) TripFinished(r Result) {
	m.c.TripsFinished.WithLabelValues(r.State.String()).Inc()
	verdict := "infeasible"
	if r.Feasible() {
		verdict = "feasible"
	}
	m.c.TripVerdicts.WithLabelValues(verdict).Inc()
	m.c.LastTripHours.Set(float64(r.TotalHours))
	m.c.LastTripHops.Set(float64(len(r.Hops)))
}

type publishObserver struct{ pub HopPublisher }

func (p publishObserver) HopTaken(origin world.City, h Hop) {
	msg := publisher.HopMessage{
		OriginID:   origin.ID,
		Step:       h.Step,
		FromID:     h.From.ID,
		ToID:       h.To.ID,
		ToName:     h.To.Name,
		Rank:       h.Rank,
		DistanceKm: h.DistanceKm,
		Bearing:    geo.Bearing(h.From.Lat, h.From.Lng, h.To.Lat, h.To.Lng),
		Hours:      h.Hours,
		TotalHours: h.TotalHours,
		Timestamp:  time.Now(),
	}
	if err := p.pub.PublishHop(origin.ID, msg); err != nil {
		log.Printf("publish hop error for trip %d: %v", origin.ID, err)
	}
}

func (p publishObserver) TripFinished(r Result) {
	msg := publisher.SummaryMessage{
		OriginID:   r.Origin.ID,
		State:      r.State.String(),
		Hops:       len(r.Hops),
		TotalHours: r.TotalHours,
		Days:       r.Days(),
		Feasible:   r.Feasible(),
		Timestamp:  time.Now(),
	}
	if err := p.pub.PublishSummary(r.Origin.ID, msg); err != nil {
		log.Printf("publish summary error for trip %d: %v", r.Origin.ID, err)
	}
}
