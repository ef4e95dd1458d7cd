package types

import (
	"github.com/paw-chain/pawswap/x/shared/contract"
	tokentypes "github.com/paw-chain/pawswap/x/token/types"
)

// Helpers for contracts that trade through a pair.

// NewTokenSwapMsg sends amount of token to the pair with a swap payload.
func NewTokenSwapMsg(token contract.Callable, pair contract.Callable, offer Asset, bounds SwapBounds, to string) (contract.Msg, error) {
	payload := ReceivePayload{Swap: &SwapHook{SwapBounds: bounds, To: to}}
	return tokentypes.NewSend(token, pair, offer.Amount, payload)
}

// NewNativeSwapMsg calls the pair's swap with the native offer attached.
func NewNativeSwapMsg(pair contract.Callable, offer Asset, bounds SwapBounds, to string) (contract.Msg, error) {
	msg := ExecuteMsg{Swap: &SwapMsg{OfferAsset: offer, SwapBounds: bounds, To: to}}
	exec, err := contract.NewExecuteMsg(pair, msg, nil)
	if err != nil {
		return contract.Msg{}, err
	}
	exec.Execute.Funds = offer.Coins()
	return exec, nil
}

// QueryPairInfo returns the pair's PairInfo.
func QueryPairInfo(q contract.Querier, pair contract.Callable) (PairInfo, error) {
	return contract.Query[PairInfo](q, pair, QueryMsg{Pair: &struct{}{}})
}

// QueryPool returns the pair's balances and LP supply.
func QueryPool(q contract.Querier, pair contract.Callable) (PoolResponse, error) {
	return contract.Query[PoolResponse](q, pair, QueryMsg{Pool: &struct{}{}})
}

// QuerySimulation quotes a swap of offer.
func QuerySimulation(q contract.Querier, pair contract.Callable, offer Asset) (SimulationResponse, error) {
	return contract.Query[SimulationResponse](q, pair, QueryMsg{Simulation: &SimulationQuery{OfferAsset: offer}})
}
