package monitor

import (
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the prometheus instruments published by the bike monitor
type Metrics struct {
	reg *prometheus.Registry

	Polls             prometheus.Counter
	PollErrs          prometheus.Counter
	DuplicatePayloads prometheus.Counter
	TripsDetected     prometheus.Counter

	NatsPublished   prometheus.Counter
	NatsPublishErrs prometheus.Counter
	NatsConnected   prometheus.Gauge

	TrackedBikes      prometheus.Gauge
	ReconcileDuration prometheus.Histogram
}

// NewMetrics creates a Metrics with all instruments registered on a private registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		reg: reg,
		Polls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bikewatch_polls_total",
			Help: "Total free bike status payloads reconciled.",
		}),
		PollErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bikewatch_poll_errors_total",
			Help: "Total failed free bike status fetches.",
		}),
		DuplicatePayloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bikewatch_duplicate_payloads_total",
			Help: "Total payloads skipped because last_updated did not advance.",
		}),
		TripsDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bikewatch_trips_detected_total",
			Help: "Total trips inferred from consecutive bike positions.",
		}),
		NatsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bikewatch_nats_published_total",
			Help: "Total trip messages published over NATS.",
		}),
		NatsPublishErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bikewatch_nats_publish_errors_total",
			Help: "Total NATS publish errors.",
		}),
		NatsConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bikewatch_nats_connected",
			Help: "1 if NATS connection is established, 0 otherwise.",
		}),
		TrackedBikes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bikewatch_tracked_bikes",
			Help: "Number of bikes currently tracked by the registry.",
		}),
		ReconcileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bikewatch_reconcile_duration_seconds",
			Help:    "Duration of one payload reconciliation pass.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 15),
		}),
	}

	reg.MustRegister(
		m.Polls, m.PollErrs, m.DuplicatePayloads, m.TripsDetected,
		m.NatsPublished, m.NatsPublishErrs, m.NatsConnected,
		m.TrackedBikes, m.ReconcileDuration,
	)

	return m
}

// Handler returns an http.Handler serving the registered instruments
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Serve starts an HTTP server exposing /metrics on addr
func (m *Metrics) Serve(log *log.Logger, addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()
	log.Printf("metrics listening on %s", addr)
	return srv
}

//observeReconcile records a reconciliation pass duration
func (m *Metrics) observeReconcile(d time.Duration) {
	if m == nil {
		return
	}
	m.ReconcileDuration.Observe(d.Seconds())
}
