// Package metrics exposes the engine's Prometheus surface: fills,
// per-symbol book depth, and per-symbol queue depth.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/novaex/lob/pkg/obslog"
)

// Metrics is the registry of everything this module instruments.
type Metrics struct {
	registry *prometheus.Registry
	logger   obslog.Logger

	ordersAccepted  prometheus.Counter
	ordersRejected  prometheus.Counter
	fillsTotal      prometheus.Counter
	fillVolume      *prometheus.CounterVec
	bookDepth       *prometheus.GaugeVec
	queueDepth      *prometheus.GaugeVec
	matchLatencySec prometheus.Histogram
}

const namespace = "lob"

// New builds and registers every metric. It does not start an HTTP
// server — call Serve for that.
func New(logger obslog.Logger) *Metrics {
	if logger == nil {
		logger = obslog.Nop()
	}
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		logger:   logger,

		ordersAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_accepted_total",
			Help:      "Total orders accepted by the engine.",
		}),
		ordersRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_rejected_total",
			Help:      "Total orders rejected at accept time.",
		}),
		fillsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fills_total",
			Help:      "Total fills produced across all symbols.",
		}),
		fillVolume: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fill_volume_total",
			Help:      "Cumulative filled quantity per symbol.",
		}, []string{"symbol"}),
		bookDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "book_depth",
			Help:      "Resting quantity at top of book per symbol and side.",
		}, []string{"symbol", "side"}),
		queueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "symbol_queue_depth",
			Help:      "Pending actions in a symbol worker's inbox.",
		}, []string{"symbol"}),
		matchLatencySec: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_latency_seconds",
			Help:      "Time spent in the match loop per Add call.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	registry.MustRegister(
		m.ordersAccepted,
		m.ordersRejected,
		m.fillsTotal,
		m.fillVolume,
		m.bookDepth,
		m.queueDepth,
		m.matchLatencySec,
	)

	return m
}

// Serve starts the /metrics HTTP endpoint on addr. It returns once the
// listener is closed or fails; callers typically run it in a goroutine.
func (m *Metrics) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	m.logger.Info("metrics server listening", "addr", addr)
	return http.ListenAndServe(addr, mux)
}

// Every recorder below is nil-safe: a nil *Metrics (the zero value
// callers get when they don't wire a metrics server) is a no-op rather
// than a required nil check at every call site.

func (m *Metrics) RecordAccepted() {
	if m == nil {
		return
	}
	m.ordersAccepted.Inc()
}

func (m *Metrics) RecordRejected() {
	if m == nil {
		return
	}
	m.ordersRejected.Inc()
}

func (m *Metrics) RecordFill(symbol string, qty float64) {
	if m == nil {
		return
	}
	m.fillsTotal.Inc()
	m.fillVolume.WithLabelValues(symbol).Add(qty)
}

func (m *Metrics) SetBookDepth(symbol, side string, qty float64) {
	if m == nil {
		return
	}
	m.bookDepth.WithLabelValues(symbol, side).Set(qty)
}

func (m *Metrics) SetQueueDepth(symbol string, n float64) {
	if m == nil {
		return
	}
	m.queueDepth.WithLabelValues(symbol).Set(n)
}

func (m *Metrics) ObserveMatchLatency(seconds float64) {
	if m == nil {
		return
	}
	m.matchLatencySec.Observe(seconds)
}
