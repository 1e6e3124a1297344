// Package metrics declares the Prometheus collectors exported on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "activities"

// Result label values for signup/unregister counters.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultConflict = "conflict"
	ResultError    = "error"
)

var (
	Signups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signups_total",
			Help:      "Signup attempts by activity and outcome.",
		},
		[]string{"activity", "result"},
	)

	Unregistrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unregistrations_total",
			Help:      "Unregister attempts by activity and outcome.",
		},
		[]string{"activity", "result"},
	)

	Participants = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "participants",
			Help:      "Current number of students signed up per activity.",
		},
		[]string{"activity"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route template, and status code.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route template.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	StreamClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "clients",
			Help:      "Roster stream subscribers currently connected.",
		},
	)
)

// SetParticipants records the roster size for an activity.
func SetParticipants(activity string, n int) {
	Participants.WithLabelValues(activity).Set(float64(n))
}
