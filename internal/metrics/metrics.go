// Package metrics instruments collaborator calls and the event store.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pearcec/clubportal/internal/portal"
)

// Metrics owns a private registry so tests and multiple CLI runs never
// collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	storeEvents   prometheus.Gauge
	changes       *prometheus.CounterVec
	announcements prometheus.Counter
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "clubportal_collab_requests_total",
		Help: "Requests to the event collaborator by operation and outcome.",
	}, []string{"op", "outcome"})
	m.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "clubportal_collab_request_duration_seconds",
		Help:    "Latency of requests to the event collaborator.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	m.storeEvents = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "clubportal_store_events",
		Help: "Events currently held by the local store.",
	})
	m.changes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "clubportal_store_changes_total",
		Help: "Confirmed store mutations by type.",
	}, []string{"type"})
	m.announcements = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "clubportal_announcements_total",
		Help: "Announcements posted this session.",
	})

	m.registry.MustRegister(m.requests, m.duration, m.storeEvents, m.changes, m.announcements)
	return m
}

// ObserveRequest records one collaborator round-trip. outcome is "ok",
// "error" (non-success reply) or "transport".
func (m *Metrics) ObserveRequest(op, outcome string, d time.Duration) {
	m.requests.WithLabelValues(op, outcome).Inc()
	m.duration.WithLabelValues(op).Observe(d.Seconds())
}

// OnChange is a store change subscriber.
func (m *Metrics) OnChange(c portal.Change) error {
	m.storeEvents.Set(float64(c.Count))
	m.changes.WithLabelValues(string(c.Type)).Inc()
	return nil
}

// OnAnnouncement counts a posted announcement.
func (m *Metrics) OnAnnouncement(portal.Announcement) {
	m.announcements.Inc()
}

// WriteTextfile writes all metrics in the node-exporter textfile format.
// An empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
