package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	conflicts       *prometheus.CounterVec
	lateness        *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_conflicts_total",
		Help: "Manual attendance conflicts by kind and outcome",
	}, []string{"kind", "outcome"})

	lateness := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_lateness_total",
		Help: "Lateness evaluations by result",
	}, []string{"result"})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_lookups_total",
		Help: "Cache lookups by query key and result",
	}, []string{"key", "result"})

	registry.MustRegister(
		requestDuration,
		conflicts,
		lateness,
		cacheLookups,
		prometheus.NewGoCollector(),
	)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		conflicts:       conflicts,
		lateness:        lateness,
		cacheLookups:    cacheLookups,
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

// RecordConflict counts a detected conflict. outcome is "blocked" or "overridden".
func (m *Metrics) RecordConflict(kind, outcome string) {
	if m == nil {
		return
	}
	m.conflicts.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) RecordLateness(late bool) {
	if m == nil {
		return
	}
	result := "on_time"
	if late {
		result = "late"
	}
	m.lateness.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordCacheLookup(key string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(key, result).Inc()
}
