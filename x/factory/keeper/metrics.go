package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// FactoryMetrics holds the pair registry metrics
type FactoryMetrics struct {
	PairsCreated prometheus.Counter
}

var (
	factoryMetricsOnce sync.Once
	factoryMetrics     *FactoryMetrics
)

// NewFactoryMetrics creates and registers factory metrics (singleton pattern)
func NewFactoryMetrics() *FactoryMetrics {
	factoryMetricsOnce.Do(func() {
		factoryMetrics = &FactoryMetrics{
			PairsCreated: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "pawswap",
					Subsystem: "factory",
					Name:      "pairs_registered_total",
					Help:      "Total number of pairs registered",
				},
			),
		}
	})
	return factoryMetrics
}
