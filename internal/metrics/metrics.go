// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Approvals counts workflow transitions by outcome
	// (approved, promoted, rejected, cancelled).
	Approvals = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_approvals_total",
		Help: "Approval workflow transitions by outcome.",
	}, []string{"outcome"})

	// AttendanceUpserts counts stored attendance facts.
	AttendanceUpserts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attendance_upserts_total",
		Help: "Attendance records written (inserts and overwrites).",
	})

	// DegradedResolutions counts identity lookups that fell back to the
	// least-privilege degraded state.
	DegradedResolutions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attendance_degraded_resolutions_total",
		Help: "Identity resolutions served in the degraded state.",
	})

	// RelayEvents counts outbox events handled by the relay, by result.
	RelayEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_relay_events_total",
		Help: "Outbox events processed by the relay, by result.",
	}, []string{"result"})
)

// Handler serves the default registry for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}
