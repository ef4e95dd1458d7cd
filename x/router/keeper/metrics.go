package keeper

import (
	"fmt"
	"sync"

	errorsmod "cosmossdk.io/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RouterMetrics holds the router's Prometheus metrics
type RouterMetrics struct {
	RoutesStarted   prometheus.Counter
	RoutesCompleted prometheus.Counter
	HopsDispatched  prometheus.Counter
	RouteRejections *prometheus.CounterVec
}

var (
	routerMetricsOnce sync.Once
	routerMetrics     *RouterMetrics
)

// NewRouterMetrics creates and registers router metrics (singleton pattern)
func NewRouterMetrics() *RouterMetrics {
	routerMetricsOnce.Do(func() {
		routerMetrics = &RouterMetrics{
			RoutesStarted: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "pawswap",
					Subsystem: "router",
					Name:      "routes_started_total",
					Help:      "Total number of routes initiated",
				},
			),
			RoutesCompleted: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "pawswap",
					Subsystem: "router",
					Name:      "routes_completed_total",
					Help:      "Total number of routes finalized",
				},
			),
			HopsDispatched: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "pawswap",
					Subsystem: "router",
					Name:      "hops_dispatched_total",
					Help:      "Total number of hop swaps emitted",
				},
			),
			RouteRejections: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pawswap",
					Subsystem: "router",
					Name:      "route_rejections_total",
					Help:      "Route triggers rejected, by error code",
				},
				[]string{"code"},
			),
		}
	})
	return routerMetrics
}

// rejectionReason labels err by its codespace and code.
func rejectionReason(err error) string {
	codespace, code, _ := errorsmod.ABCIInfo(err, false)
	return fmt.Sprintf("%s/%d", codespace, code)
}
