// Package metrics defines and registers all custom Prometheus metrics for
// the E2Recycle platform API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time and
// are exposed through the /metrics endpoint wired in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "e2recycle"

// ── Request lifecycle metrics ────────────────────────────────────────────────

// RequestsSubmittedTotal counts newly submitted recycling requests.
// Label:
//   - product_type: the submitted product category (e.g. "phone")
var RequestsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_submitted_total",
		Help:      "Total number of recycling requests submitted, by product type.",
	},
	[]string{"product_type"},
)

// RequestTransitionsTotal counts successful request status transitions.
// Label:
//   - to: the status the request transitioned into
var RequestTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "request_transitions_total",
		Help:      "Total number of successful request status transitions, by target status.",
	},
	[]string{"to"},
)

// AcceptsGatedTotal counts accept attempts rejected by the outstanding-
// commission gating rule.
var AcceptsGatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accepts_gated_total",
		Help:      "Total number of accept attempts blocked by outstanding commission debt.",
	},
)

// ── Commission metrics ───────────────────────────────────────────────────────

// TransactionTransitionsTotal counts successful transaction status transitions.
// Label:
//   - to: the status the transaction transitioned into
var TransactionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transaction_transitions_total",
		Help:      "Total number of successful commission transaction transitions, by target status.",
	},
	[]string{"to"},
)

// CommissionAmount observes the commission amount of each transaction at the
// moment it is created.
var CommissionAmount = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "commission_amount",
		Help:      "Commission amounts computed at transaction creation, in currency units.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	},
)
