package metrics

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	TripsInFlight prometheus.Gauge

	TripsFinished *prometheus.CounterVec // state label: no_candidates|returned_to_origin|step_limit
	TripVerdicts  *prometheus.CounterVec // verdict label: feasible|infeasible
	HopsTotal     prometheus.Counter

	HopHours      prometheus.Histogram
	HopDistanceKm prometheus.Histogram
	CandidateScan prometheus.Histogram
	LastTripHours prometheus.Gauge
	LastTripHops  prometheus.Gauge

	NATSPublished   prometheus.Counter
	NATSPublishErrs prometheus.Counter
	NATSConnected   prometheus.Gauge
	PublishDuration prometheus.Histogram

	CacheLookups *prometheus.CounterVec // result label: hit|miss

	CatalogSize prometheus.Gauge
	BudgetHours prometheus.Gauge
}

func NewCollector(budgetHours int, catalogSize int) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		TripsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "worldtour_trips_in_flight",
			Help: "Number of trips currently being simulated.",
		}),
		TripsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worldtour_trips_finished_total",
			Help: "Trips finished, by terminal state.",
		}, []string{"state"}),
		TripVerdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worldtour_trip_verdicts_total",
			Help: "Trips finished, by feasibility verdict.",
		}, []string{"verdict"}),
		HopsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "worldtour_hops_total",
			Help: "Total hops taken across all trips.",
		}),
		HopHours: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "worldtour_hop_hours",
			Help:    "Travel hours charged per hop.",
			Buckets: prometheus.LinearBuckets(2, 2, 6),
		}),
		HopDistanceKm: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "worldtour_hop_distance_km",
			Help:    "Great-circle length of each hop.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 16),
		}),
		CandidateScan: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "worldtour_candidate_scan_seconds",
			Help:    "Duration of an eastward candidate scan over the catalog.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 2, 15),
		}),
		LastTripHours: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "worldtour_last_trip_hours",
			Help: "Total hours of the most recently finished trip.",
		}),
		LastTripHops: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "worldtour_last_trip_hops",
			Help: "Hops of the most recently finished trip.",
		}),
		NATSPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "worldtour_nats_published_total",
			Help: "Total NATS messages published.",
		}),
		NATSPublishErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "worldtour_nats_publish_errors_total",
			Help: "Total NATS publish errors.",
		}),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "worldtour_nats_connected",
			Help: "1 if NATS connection is established, 0 otherwise.",
		}),
		PublishDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "worldtour_publish_duration_seconds",
			Help:    "Duration to marshal and publish a NATS message.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 15),
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worldtour_trip_cache_lookups_total",
			Help: "Trip result cache lookups, by result.",
		}, []string{"result"}),
		CatalogSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "worldtour_catalog_cities",
			Help: "Number of cities in the loaded dataset.",
		}),
		BudgetHours: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "worldtour_budget_hours",
			Help: "Feasibility budget in hours.",
		}),
	}

	reg.MustRegister(
		c.TripsInFlight, c.TripsFinished, c.TripVerdicts, c.HopsTotal,
		c.HopHours, c.HopDistanceKm, c.CandidateScan, c.LastTripHours, c.LastTripHops,
		c.NATSPublished, c.NATSPublishErrs, c.NATSConnected, c.PublishDuration,
		c.CacheLookups, c.CatalogSize, c.BudgetHours,
	)

	c.BudgetHours.Set(float64(budgetHours))
	c.CatalogSize.Set(float64(catalogSize))

	return c
}

// Registry exposes the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry { return c.reg }

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// Serve starts an HTTP server exposing /metrics on the given address.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()
	log.Printf("metrics listening on %s", addr)
	return srv
}
