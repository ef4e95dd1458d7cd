package app

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AppMetrics holds the environment's Prometheus metrics
type AppMetrics struct {
	Transactions  *prometheus.CounterVec
	Messages      *prometheus.CounterVec
	Queries       *prometheus.CounterVec
	Failures      *prometheus.CounterVec
	DispatchDepth prometheus.Histogram
	Instances     prometheus.Gauge
}

var (
	appMetricsOnce sync.Once
	appMetrics     *AppMetrics
)

// NewAppMetrics creates and registers environment metrics (singleton pattern)
func NewAppMetrics() *AppMetrics {
	appMetricsOnce.Do(func() {
		appMetrics = &AppMetrics{
			Transactions: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pawswap",
					Subsystem: "app",
					Name:      "transactions_total",
					Help:      "Transactions by entry point and outcome",
				},
				[]string{"entry", "status"},
			),
			Messages: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pawswap",
					Subsystem: "app",
					Name:      "messages_dispatched_total",
					Help:      "Emitted messages dispatched, by kind",
				},
				[]string{"kind"},
			),
			Queries: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pawswap",
					Subsystem: "app",
					Name:      "queries_total",
					Help:      "Smart queries answered, by outcome",
				},
				[]string{"status"},
			),
			Failures: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pawswap",
					Subsystem: "app",
					Name:      "failures_total",
					Help:      "Failures handled by the environment",
				},
				[]string{"operation", "severity"},
			),
			DispatchDepth: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: "pawswap",
					Subsystem: "app",
					Name:      "dispatch_depth",
					Help:      "Nesting depth of dispatched messages",
					Buckets:   prometheus.LinearBuckets(0, 1, 10),
				},
			),
			Instances: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "pawswap",
					Subsystem: "app",
					Name:      "contract_instances",
					Help:      "Number of contract instances",
				},
			),
		}
	})
	return appMetrics
}
