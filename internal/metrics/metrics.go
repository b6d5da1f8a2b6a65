package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application counters on its own registry. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	extractions   prometheus.Counter
	segments      prometheus.Counter
	nerFailures   prometheus.Counter
	storeOps      *prometheus.CounterVec
	storeFailures *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}
	m.extractions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nadcal",
		Name:      "extractions_total",
		Help:      "Number of utterances run through multi-event extraction",
	})
	m.segments = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nadcal",
		Name:      "segments_total",
		Help:      "Number of segments that produced a slot record",
	})
	m.nerFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nadcal",
		Name:      "ner_failures_total",
		Help:      "Number of recognizer calls that failed and were skipped",
	})
	m.storeOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nadcal",
		Name:      "store_operations_total",
		Help:      "Event store operations by kind and backend",
	}, []string{"op", "backend"})
	m.storeFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nadcal",
		Name:      "store_failures_total",
		Help:      "Failed event store operations by kind and backend",
	}, []string{"op", "backend"})

	m.registry.MustRegister(m.extractions, m.segments, m.nerFailures, m.storeOps, m.storeFailures)
	return m
}

func (m *Metrics) Extraction(segments int) {
	if m == nil {
		return
	}
	m.extractions.Inc()
	m.segments.Add(float64(segments))
}

func (m *Metrics) NERFailure() {
	if m == nil {
		return
	}
	m.nerFailures.Inc()
}

func (m *Metrics) StoreOp(op, backend string, err error) {
	if m == nil {
		return
	}
	m.storeOps.WithLabelValues(op, backend).Inc()
	if err != nil {
		m.storeFailures.WithLabelValues(op, backend).Inc()
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
