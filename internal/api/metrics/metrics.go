// Package metrics defines and registers all custom Prometheus metrics for the
// FishChain marketplace API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics are registered with the default Prometheus registry through
// promauto when the package is first imported.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fishchain"

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsCreatedTotal counts persisted notifications.
// Label:
//   - type: the notification type (e.g. "RESERVATION_CREATED")
var NotificationsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_created_total",
		Help:      "Total number of notifications persisted, by type.",
	},
	[]string{"type"},
)

// DeliveriesTotal counts live delivery attempts.
// Label:
//   - result: "delivered", "offline" (no live connection) or "dropped" (queue full)
var DeliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_deliveries_total",
		Help:      "Total number of live notification pushes, by result.",
	},
	[]string{"result"},
)

// DeliveryQueueDepth tracks pushes waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var DeliveryQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of pushes pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// LiveConnections is the number of registered real-time connections.
var LiveConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "live_connections",
		Help:      "Current number of registered real-time connections.",
	},
)

// ── Marketplace metrics ───────────────────────────────────────────────────────

// ReservationsCreatedTotal counts reservations accepted by the API.
var ReservationsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservations_created_total",
		Help:      "Total number of reservations created.",
	},
)

// AuthFailuresTotal counts rejected requests at the Auth Guard and Role Gate.
// Label:
//   - reason: "missing_token", "invalid_token" or "permission_denied"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected by authentication or role checks.",
	},
	[]string{"reason"},
)

// ── AI metrics ────────────────────────────────────────────────────────────────

// AIRequestsTotal counts calls to the AI provider.
// Labels:
//   - operation: "generate" (raw provider call) or a cache lookup ("cache")
//   - result: "ok", "error", "hit" or "miss"
var AIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ai_requests_total",
		Help:      "Total number of AI provider calls and cache lookups, by result.",
	},
	[]string{"operation", "result"},
)

// AIRequestDuration measures AI provider latency.
// Label:
//   - result: "ok" or "error"
var AIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ai_request_duration_seconds",
		Help:      "Duration of calls to the AI provider.",
		Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
	},
	[]string{"result"},
)
