package types

import (
	"encoding/json"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawswap/x/shared/contract"
	tokentypes "github.com/paw-chain/pawswap/x/token/types"
)

// NewTokenRoute starts route by sending amount of token to the router.
func NewTokenRoute(router, token contract.Callable, amount math.Uint, route Route) (contract.Msg, error) {
	return tokentypes.NewSend(token, router, amount, route)
}

// NewNativeRoute starts route with coin attached to the router call.
func NewNativeRoute(router contract.Callable, from string, coin sdk.Coin, route Route) (contract.Msg, error) {
	payload, err := json.Marshal(route)
	if err != nil {
		return contract.Msg{}, contract.ErrEncoding.Wrapf("route: %s", err)
	}
	return contract.NewExecuteMsg(router, ExecuteMsg{Receive: &contract.ReceiveMsg{
		Sender: from,
		From:   from,
		Amount: math.NewUintFromBigInt(coin.Amount.BigInt()),
		Msg:    payload,
	}}, sdk.NewCoins(coin))
}

// QueryRouteState returns the router's route progress.
func QueryRouteState(q contract.Querier, router contract.Callable) (RouteStateResponse, error) {
	return contract.Query[RouteStateResponse](q, router, QueryMsg{RouteState: &struct{}{}})
}
