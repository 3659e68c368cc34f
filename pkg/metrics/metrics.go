package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all console metrics
type Metrics struct {
	// Registry refresh metrics
	RefreshTotal    prometheus.Counter
	RefreshFailures prometheus.Counter
	RefreshStale    prometheus.Counter
	RefreshLatency  prometheus.Histogram

	// Action dispatch metrics
	DispatchTotal    *prometheus.CounterVec
	DispatchFailures *prometheus.CounterVec
	DispatchRejected prometheus.Counter

	// Push channel metrics
	SignalsReceived prometheus.Counter
}

// NewMetrics creates and registers all console metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		RefreshTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_refresh_total",
			Help:      "Total number of snapshot refreshes applied",
		}),
		RefreshFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_refresh_failures_total",
			Help:      "Total number of refreshes that failed and kept the stale snapshot",
		}),
		RefreshStale: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_refresh_discarded_total",
			Help:      "Total number of refresh responses discarded because a newer refresh was issued",
		}),
		RefreshLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "registry_refresh_duration_seconds",
			Help:      "Time spent fetching both work queues",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}),
		DispatchTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_dispatched_total",
			Help:      "Total number of status updates sent to the platform",
		}, []string{"item_type", "new_status"}),
		DispatchFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_failed_total",
			Help:      "Total number of status updates rejected by the platform or transport",
		}, []string{"item_type"}),
		DispatchRejected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_blocked_total",
			Help:      "Total number of actions blocked by local validation before any call",
		}),
		SignalsReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "push_signals_received_total",
			Help:      "Total number of new-appointment signals received on the push channel",
		}),
	}
}

// New creates the same metric set without registering it, for embedders
// that bring their own registry and for tests.
func New(namespace string) *Metrics {
	return &Metrics{
		RefreshTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_refresh_total",
			Help:      "Total number of snapshot refreshes applied",
		}),
		RefreshFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_refresh_failures_total",
			Help:      "Total number of refreshes that failed and kept the stale snapshot",
		}),
		RefreshStale: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_refresh_discarded_total",
			Help:      "Total number of refresh responses discarded because a newer refresh was issued",
		}),
		RefreshLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "registry_refresh_duration_seconds",
			Help:      "Time spent fetching both work queues",
		}),
		DispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_dispatched_total",
			Help:      "Total number of status updates sent to the platform",
		}, []string{"item_type", "new_status"}),
		DispatchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_failed_total",
			Help:      "Total number of status updates rejected by the platform or transport",
		}, []string{"item_type"}),
		DispatchRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_blocked_total",
			Help:      "Total number of actions blocked by local validation before any call",
		}),
		SignalsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "push_signals_received_total",
			Help:      "Total number of new-appointment signals received on the push channel",
		}),
	}
}
