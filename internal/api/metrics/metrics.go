// Package metrics defines all custom Prometheus metrics for the civic
// backend. It is the single source of truth for metric names, labels, and
// help strings; promauto registers everything with the default registry at
// package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "civic"

// ── Access control ────────────────────────────────────────────────────────────

// AuthzDecisionsTotal counts access-control decisions.
// Labels:
//   - result: "allow", "deny" or "bypass"
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of access-control decisions, by result.",
	},
	[]string{"result"},
)

// SessionResolutionsTotal counts identity resolutions.
// Labels:
//   - result: "ok", "guest" or "error"
var SessionResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_resolutions_total",
		Help:      "Total number of identity resolutions, by result.",
	},
	[]string{"result"},
)

// SessionResolveDuration measures identity resolution time, dominated by the
// provider round trip on cache misses.
var SessionResolveDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "session_resolve_duration_seconds",
		Help:      "Duration of identity resolution including provider calls.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Engagement ────────────────────────────────────────────────────────────────

// LikesToggledTotal counts like toggles.
// Labels:
//   - collection: target collection
//   - action: "like" or "unlike"
var LikesToggledTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "likes_toggled_total",
		Help:      "Total number of like toggles, by collection and action.",
	},
	[]string{"collection", "action"},
)

// CommentsTotal counts comment mutations.
// Labels:
//   - collection: target collection
//   - action: "add" or "remove"
var CommentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comments_total",
		Help:      "Total number of comment mutations, by collection and action.",
	},
	[]string{"collection", "action"},
)

// ── Notifications ─────────────────────────────────────────────────────────────

// NotificationsSentTotal counts notification email dispatches.
// Labels:
//   - result: "ok" or "error"
var NotificationsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_sent_total",
		Help:      "Total number of notification emails dispatched, by result.",
	},
	[]string{"result"},
)
