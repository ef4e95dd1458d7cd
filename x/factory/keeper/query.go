package keeper

import (
	"encoding/json"

	"github.com/paw-chain/pawswap/x/factory/types"
	pairtypes "github.com/paw-chain/pawswap/x/pair/types"
	"github.com/paw-chain/pawswap/x/shared/contract"
)

// Query answers config, pair, pairs and pair_settings queries.
func (k Keeper) Query(ctx contract.Context, raw json.RawMessage) ([]byte, error) {
	var msg types.QueryMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, contract.ErrInvalidRequest.Wrapf("factory query: %s", err)
	}

	switch {
	case msg.Config != nil:
		cfg, err := k.GetConfig(ctx)
		if err != nil {
			return nil, err
		}
		return contract.QueryResult(cfg)
	case msg.Pair != nil:
		rec, err := k.GetPair(ctx, msg.Pair.AssetInfos)
		if err != nil {
			return nil, err
		}
		return contract.QueryResult(rec)
	case msg.Pairs != nil:
		res, err := k.Pairs(ctx, *msg.Pairs)
		if err != nil {
			return nil, err
		}
		return contract.QueryResult(res)
	case msg.PairSettings != nil:
		settings, err := k.GetPairSettings(ctx)
		if err != nil {
			return nil, err
		}
		return contract.QueryResult(settings)
	default:
		return nil, contract.ErrUnknownMsg.Wrap("factory query")
	}
}

// Pairs lists registered pairs in key order.
func (k Keeper) Pairs(ctx contract.Context, req types.PairsQuery) (types.PairsResponse, error) {
	limit := types.DefaultPairsLimit
	if req.Limit != nil {
		limit = min(int(*req.Limit), types.MaxPairsLimit)
	}
	var start []byte
	if req.StartAfter != nil {
		start = pairtypes.PairKey(*req.StartAfter)
	}

	res := types.PairsResponse{Pairs: []types.PairRecord{}}
	if limit == 0 {
		return res, nil
	}
	err := pairs.Range(ctx.Store, start, limit, func(_ []byte, rec types.PairRecord) error {
		res.Pairs = append(res.Pairs, rec)
		return nil
	})
	return res, err
}
