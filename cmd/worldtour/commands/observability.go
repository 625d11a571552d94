package commands

import (
	"context"
	"time"

	"worldtour/internal/config"
	"worldtour/internal/metrics"
	"worldtour/internal/publisher"
	"worldtour/internal/sim"
)

// startMetrics serves /metrics when METRICS_ADDR is set. The returned stop
// function shuts the listener down; both are no-ops when metrics are off.
func startMetrics(cfg *config.Config, catalogSize int) (*metrics.Collector, func()) {
	if cfg.MetricsAddr == "" {
		return nil, func() {}
	}
	mcol := metrics.NewCollector(cfg.BudgetHours(), catalogSize)
	srv := mcol.Serve(cfg.MetricsAddr)
	return mcol, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}

// connectPublisher dials NATS when NATS_URL is set. The publisher is a nil
// interface when publishing is off.
func connectPublisher(cfg *config.Config, mcol *metrics.Collector) (sim.HopPublisher, func(), error) {
	if cfg.NATSURL == "" {
		return nil, func() {}, nil
	}
	pub, err := publisher.NewNATSPublisher(cfg.NATSURL, cfg.NATSPrefix, cfg.LogNATSSubjects, wrapPublisherMetrics(mcol))
	if err != nil {
		return nil, nil, err
	}
	return pub, pub.Close, nil
}

// wrapPublisherMetrics adapts our Collector to the PublisherMetrics interface.
func wrapPublisherMetrics(c *metrics.Collector) publisher.PublisherMetrics {
	if c == nil {
		return nil
	}
	return &pubMetrics{c: c}
}

type pubMetrics struct{ c *metrics.Collector }

func (p *pubMetrics) NATSPublishedInc()              { p.c.NATSPublished.Inc() }
func (p *pubMetrics) NATSPublishErrInc()             { p.c.NATSPublishErrs.Inc() }
func (p *pubMetrics) PublishObserve(d time.Duration) { p.c.PublishDuration.Observe(d.Seconds()) }
func (p *pubMetrics) NATSSetConnected(b bool) {
	if b {
		p.c.NATSConnected.Set(1)
	} else {
		p.c.NATSConnected.Set(0)
	}
}
