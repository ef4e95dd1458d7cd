package keeper

import (
	"encoding/json"

	"github.com/paw-chain/pawswap/x/router/types"
	"github.com/paw-chain/pawswap/x/shared/contract"
)

// Query answers supported_tokens, route_state and config queries.
func (k Keeper) Query(ctx contract.Context, raw json.RawMessage) ([]byte, error) {
	var msg types.QueryMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, contract.ErrInvalidRequest.Wrapf("router query: %s", err)
	}

	switch {
	case msg.SupportedTokens != nil:
		list, err := tokens.Load(ctx.Store)
		if err != nil {
			return nil, err
		}
		return contract.QueryResult(types.SupportedTokensResponse{Tokens: list})
	case msg.RouteState != nil:
		state, err := k.GetRouteState(ctx)
		if err != nil {
			return nil, err
		}
		return contract.QueryResult(types.RouteStateResponse{Phase: types.PhaseOf(state), State: state})
	case msg.Config != nil:
		admin, err := owner.Load(ctx.Store)
		if err != nil {
			return nil, err
		}
		res := types.ConfigResponse{Owner: admin, NativeDenom: k.nativeDenom}
		if token, found, err := cashback.MayLoad(ctx.Store); err != nil {
			return nil, err
		} else if found {
			res.Cashback = &token
		}
		return contract.QueryResult(res)
	default:
		return nil, contract.ErrUnknownMsg.Wrap("router query")
	}
}
