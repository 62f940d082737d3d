// Package metrics defines and registers the Prometheus metrics of the
// dashboard client and its privileged proxy. It is the single source of truth
// for metric names, labels, and help strings.
//
// Metrics are registered with the default registry on import; the proxy
// exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "volunteer"

// ── Transport metrics ─────────────────────────────────────────────────────────

// TransportCallsTotal counts calls dispatched by the transport router.
// Labels:
//   - path: "direct" or "proxied"
//   - outcome: "ok" or "error"
var TransportCallsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transport_calls_total",
		Help:      "Total number of outbound calls, by transport path and outcome.",
	},
	[]string{"path", "outcome"},
)

// TransportCallDuration measures round-trip time of an outbound call.
// Label:
//   - path: "direct" or "proxied"
var TransportCallDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "transport_call_duration_seconds",
		Help:      "Duration of outbound calls from dispatch to decoded response.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"path"},
)

// ── Proxy metrics ─────────────────────────────────────────────────────────────

// ProxyForwardedTotal counts requests forwarded by the privileged proxy.
// Labels:
//   - method: lower-case request method
//   - result: upstream status class ("2xx", "4xx", ...) or "network_error"
var ProxyForwardedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "proxy_forwarded_total",
		Help:      "Total number of requests forwarded by the proxy, by method and result.",
	},
	[]string{"method", "result"},
)

// ── Guard metrics ─────────────────────────────────────────────────────────────

// GuardDecisionsTotal counts navigation guard outcomes.
// Labels:
//   - decision: "allow", "redirect" or "block"
//   - reason: short description (e.g. "token_invalid", "not_elevated")
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of navigation guard decisions, by decision and reason.",
	},
	[]string{"decision", "reason"},
)

// GuardVerificationsTotal counts token verification calls issued by the guard.
// Label:
//   - result: "pass", "fail" or "error"
var GuardVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_verifications_total",
		Help:      "Total number of token verification calls, by result.",
	},
	[]string{"result"},
)

// StatusClass maps an HTTP status to its "Nxx" class label.
func StatusClass(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return string(rune('0'+status/100)) + "xx"
}
