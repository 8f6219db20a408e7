// Package metrics defines the custom Prometheus metrics for both library
// services. It is the single source of truth for metric names, labels, and
// help strings; registration happens at import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "library"

// LoginsTotal counts login attempts.
// Label:
//   - outcome: "success", "failure" (bad credentials), or "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// RefreshesTotal counts refresh-token exchanges.
// Label:
//   - outcome: "success" or "failure"
var RefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Total number of refresh-token exchanges, by outcome.",
	},
	[]string{"outcome"},
)

// TokenValidationsTotal counts access-token checks in the auth middleware.
// Label:
//   - result: "ok", "missing", "malformed", "expired", "invalid",
//     "wrong_kind", or "stale"
var TokenValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_validations_total",
		Help:      "Total number of bearer-token validations, by result.",
	},
	[]string{"result"},
)

// RentalsTotal counts rental attempts.
// Label:
//   - outcome: "success", "unavailable", or "not_found"
var RentalsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rentals_total",
		Help:      "Total number of book rental attempts, by outcome.",
	},
	[]string{"outcome"},
)

// AuditEventsDropped counts audit events discarded because the dispatcher
// buffer was full.
var AuditEventsDropped = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of audit events dropped due to a full buffer.",
	},
)
