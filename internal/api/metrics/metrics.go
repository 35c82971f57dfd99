// Package metrics defines and registers all custom Prometheus metrics for the
// workflow API. It is the single source of truth for metric names, labels, and
// help strings. Metrics register themselves with the default registry at init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "workflow"

// RegistrationsTotal counts successful account registrations.
// Label:
//   - role: "admin" or "user"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts registered, by role.",
	},
	[]string{"role"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AssignmentsSubmittedTotal counts assignments created by users.
var AssignmentsSubmittedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assignments_submitted_total",
		Help:      "Total number of assignments submitted.",
	},
)

// AssignmentDecisionsTotal counts terminal transitions applied to assignments.
// Label:
//   - outcome: "accepted" or "rejected"
var AssignmentDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assignment_decisions_total",
		Help:      "Total number of assignment decisions, by outcome.",
	},
	[]string{"outcome"},
)

// ShopsRegisteredTotal counts shops added to the locator.
var ShopsRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shops_registered_total",
		Help:      "Total number of shops registered.",
	},
)

// ShopSearchDuration measures how long a nearest-shop search takes end-to-end.
var ShopSearchDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "shop_search_duration_seconds",
		Help:      "Duration of shop searches, from query parse to ranked response.",
		Buckets:   prometheus.DefBuckets,
	},
)
