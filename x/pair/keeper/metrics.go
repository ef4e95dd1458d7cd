package keeper

import (
	"math/big"
	"sync"

	"cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PairMetrics holds the Prometheus metrics of all pair instances
type PairMetrics struct {
	// Swap metrics
	SwapsTotal          *prometheus.CounterVec
	SwapVolume          *prometheus.CounterVec
	CommissionCollected *prometheus.CounterVec
	SlippageRejections  *prometheus.CounterVec

	// Liquidity metrics
	LiquidityProvided  *prometheus.CounterVec
	LiquidityWithdrawn *prometheus.CounterVec
	SharesMinted       *prometheus.CounterVec
}

var (
	pairMetricsOnce sync.Once
	pairMetrics     *PairMetrics
)

// NewPairMetrics creates and registers pair metrics (singleton pattern)
func NewPairMetrics() *PairMetrics {
	pairMetricsOnce.Do(func() {
		pairMetrics = &PairMetrics{
			SwapsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pawswap",
					Subsystem: "pair",
					Name:      "swaps_total",
					Help:      "Total number of swaps priced by pairs",
				},
				[]string{"pair", "offer_asset", "ask_asset"},
			),
			SwapVolume: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pawswap",
					Subsystem: "pair",
					Name:      "swap_volume_total",
					Help:      "Total offered amount in base units",
				},
				[]string{"pair", "asset"},
			),
			CommissionCollected: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pawswap",
					Subsystem: "pair",
					Name:      "commission_total",
					Help:      "Total commission withheld from swap returns",
				},
				[]string{"pair", "asset"},
			),
			SlippageRejections: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pawswap",
					Subsystem: "pair",
					Name:      "slippage_rejections_total",
					Help:      "Swaps and deposits rejected by slippage bounds",
				},
				[]string{"pair", "operation"},
			),
			LiquidityProvided: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pawswap",
					Subsystem: "pair",
					Name:      "liquidity_provided_total",
					Help:      "Number of liquidity provisions",
				},
				[]string{"pair"},
			),
			LiquidityWithdrawn: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pawswap",
					Subsystem: "pair",
					Name:      "liquidity_withdrawn_total",
					Help:      "Number of liquidity withdrawals",
				},
				[]string{"pair"},
			),
			SharesMinted: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pawswap",
					Subsystem: "pair",
					Name:      "shares_minted_total",
					Help:      "Liquidity shares minted in base units",
				},
				[]string{"pair"},
			),
		}
	})
	return pairMetrics
}

func amountFloat(a math.Uint) float64 {
	f, _ := new(big.Float).SetInt(a.BigInt()).Float64()
	return f
}
