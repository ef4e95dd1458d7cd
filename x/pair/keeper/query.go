package keeper

import (
	"encoding/json"

	"github.com/paw-chain/pawswap/x/pair/types"
	"github.com/paw-chain/pawswap/x/shared/contract"
)

// Query answers pair, pool, simulation and reverse_simulation queries.
func (k Keeper) Query(ctx contract.Context, raw json.RawMessage) ([]byte, error) {
	var msg types.QueryMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, contract.ErrInvalidRequest.Wrapf("pair query: %s", err)
	}

	info, err := k.GetPairInfo(ctx)
	if err != nil {
		return nil, err
	}

	switch {
	case msg.Pair != nil:
		return contract.QueryResult(info)
	case msg.Pool != nil:
		res, err := k.Pool(ctx, info)
		if err != nil {
			return nil, err
		}
		return contract.QueryResult(res)
	case msg.Simulation != nil:
		res, err := k.Simulate(ctx, info, msg.Simulation.OfferAsset)
		if err != nil {
			return nil, err
		}
		return contract.QueryResult(res)
	case msg.ReverseSimulation != nil:
		res, err := k.ReverseSimulate(ctx, info, msg.ReverseSimulation.AskAsset)
		if err != nil {
			return nil, err
		}
		return contract.QueryResult(res)
	default:
		return nil, contract.ErrUnknownMsg.Wrap("pair query")
	}
}

// Pool returns both balances and the liquidity share supply.
func (k Keeper) Pool(ctx contract.Context, info types.PairInfo) (types.PoolResponse, error) {
	pools, err := k.QueryPools(ctx, info)
	if err != nil {
		return types.PoolResponse{}, err
	}
	total, err := k.totalShare(ctx, info)
	if err != nil {
		return types.PoolResponse{}, err
	}
	return types.PoolResponse{Assets: pools, TotalShare: total}, nil
}

// Simulate quotes a swap of offer against the current pools.
func (k Keeper) Simulate(ctx contract.Context, info types.PairInfo, offer types.Asset) (types.SimulationResponse, error) {
	if err := offer.Validate(); err != nil {
		return types.SimulationResponse{}, err
	}
	pools, err := k.QueryPools(ctx, info)
	if err != nil {
		return types.SimulationResponse{}, err
	}
	slot := slotOf(info.AssetInfos, offer.Info)
	if slot < 0 {
		return types.SimulationResponse{}, types.ErrAssetMismatch.Wrapf("offer %s", offer.Info)
	}
	settings, err := k.settings.PairSettings(ctx, info.Factory)
	if err != nil {
		return types.SimulationResponse{}, err
	}
	res, err := ComputeSwap(pools[slot].Amount, pools[1-slot].Amount, offer.Amount, settings.SwapFee)
	if err != nil {
		return types.SimulationResponse{}, err
	}
	return types.SimulationResponse{
		ReturnAmount:     res.ReturnAmount,
		SpreadAmount:     res.SpreadAmount,
		CommissionAmount: res.CommissionAmount,
	}, nil
}

// ReverseSimulate quotes the offer needed to receive ask.
func (k Keeper) ReverseSimulate(ctx contract.Context, info types.PairInfo, ask types.Asset) (types.ReverseSimulationResponse, error) {
	if err := ask.Validate(); err != nil {
		return types.ReverseSimulationResponse{}, err
	}
	pools, err := k.QueryPools(ctx, info)
	if err != nil {
		return types.ReverseSimulationResponse{}, err
	}
	slot := slotOf(info.AssetInfos, ask.Info)
	if slot < 0 {
		return types.ReverseSimulationResponse{}, types.ErrAssetMismatch.Wrapf("ask %s", ask.Info)
	}
	settings, err := k.settings.PairSettings(ctx, info.Factory)
	if err != nil {
		return types.ReverseSimulationResponse{}, err
	}
	res, err := ComputeOfferAmount(pools[1-slot].Amount, pools[slot].Amount, ask.Amount, settings.SwapFee)
	if err != nil {
		return types.ReverseSimulationResponse{}, err
	}
	return types.ReverseSimulationResponse{
		OfferAmount:      res.OfferAmount,
		SpreadAmount:     res.SpreadAmount,
		CommissionAmount: res.CommissionAmount,
	}, nil
}
