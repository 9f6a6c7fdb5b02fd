package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the Atelier backend.
// Pass to components that need to record metrics.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	PolicyDecisions *prometheus.CounterVec
	TokenRejections *prometheus.CounterVec
	UsersRegistered prometheus.Counter
	LoginsTotal     *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics with the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		RequestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "atelier",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests processed",
			},
			[]string{"method", "status"},
		),
		RequestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "atelier",
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   prometheus.DefBuckets, // 5ms to 10s
			},
			[]string{"method"},
		),
		PolicyDecisions: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "atelier",
				Name:      "policy_decisions_total",
				Help:      "Total access policy decisions",
			},
			[]string{"decision"}, // decision=permit/unauthorized/forbidden
		),
		TokenRejections: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "atelier",
				Name:      "token_rejections_total",
				Help:      "Total bearer tokens rejected during validation",
			},
			[]string{"reason"}, // reason=expired/signature/malformed
		),
		UsersRegistered: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: "atelier",
				Name:      "users_registered_total",
				Help:      "Total accounts created via registration",
			},
		),
		LoginsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "atelier",
				Name:      "logins_total",
				Help:      "Total login attempts",
			},
			[]string{"outcome"}, // outcome=success/failure
		),
	}
}
