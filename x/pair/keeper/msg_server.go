package keeper

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawswap/pkg/wide"
	"github.com/paw-chain/pawswap/x/pair/types"
	"github.com/paw-chain/pawswap/x/shared/contract"
	tokentypes "github.com/paw-chain/pawswap/x/token/types"
)

// PostInitialize records the caller as the liquidity token. It is fired by
// the token's init hook and only accepted once.
func (k Keeper) PostInitialize(ctx contract.Context) (*contract.Response, error) {
	info, err := k.GetPairInfo(ctx)
	if err != nil {
		return nil, err
	}
	if info.LiquidityToken.Address != "" {
		return nil, types.ErrAlreadyInitialized.Wrap(info.LiquidityToken.Address)
	}
	info.LiquidityToken.Address = ctx.Env.Sender
	if err := k.SetPairInfo(ctx, info); err != nil {
		return nil, err
	}

	// Withdrawals arrive as liquidity token transfers.
	register, err := tokentypes.NewRegisterReceive(info.LiquidityToken, ctx.Self().CodeHash)
	if err != nil {
		return nil, err
	}

	return contract.NewResponse().
		AddMessages(register).
		AddEvent(sdk.NewEvent(types.EventTypeInitialized,
			sdk.NewAttribute(types.AttributeKeyPair, info.ContractAddr),
			sdk.NewAttribute(types.AttributeKeyLiquidityToken, ctx.Env.Sender),
		)), nil
}

// Receive handles tokens sent to the pair: a swap of one of the pair's
// tokens or a withdrawal paid in liquidity tokens.
func (k Keeper) Receive(ctx contract.Context, msg contract.ReceiveMsg) (*contract.Response, error) {
	if !msg.HasPayload() {
		return nil, contract.ErrInvalidRequest.Wrap("token transfer to pair without a payload")
	}
	if err := contract.RequireAmount("amount", msg.Amount); err != nil {
		return nil, err
	}
	var payload types.ReceivePayload
	if err := json.Unmarshal(msg.Msg, &payload); err != nil {
		return nil, contract.ErrInvalidRequest.Wrapf("receive payload: %s", err)
	}

	info, err := k.GetPairInfo(ctx)
	if err != nil {
		return nil, err
	}

	switch {
	case payload.Swap != nil:
		slot := -1
		for i, assetInfo := range info.AssetInfos {
			if assetInfo.Token != nil && assetInfo.Token.Address == ctx.Env.Sender {
				slot = i
			}
		}
		if slot < 0 {
			return nil, contract.ErrUnauthorized.Wrapf("%s is not a token of this pair", ctx.Env.Sender)
		}
		offer := types.NewAsset(info.AssetInfos[slot], msg.Amount)
		return k.swap(ctx, info, msg.From, offer, payload.Swap.SwapBounds, payload.Swap.To)

	case payload.WithdrawLiquidity != nil:
		if info.LiquidityToken.Address == "" || info.LiquidityToken.Address != ctx.Env.Sender {
			return nil, contract.ErrUnauthorized.Wrapf("%s is not the liquidity token", ctx.Env.Sender)
		}
		return k.withdrawLiquidity(ctx, info, msg.From, msg.Amount)

	default:
		return nil, contract.ErrUnknownMsg.Wrap("pair receive")
	}
}

// NativeSwap swaps a native offer attached to the call.
func (k Keeper) NativeSwap(ctx contract.Context, msg types.SwapMsg) (*contract.Response, error) {
	if err := msg.OfferAsset.Validate(); err != nil {
		return nil, err
	}
	if !msg.OfferAsset.Info.IsNative() {
		return nil, contract.ErrUnauthorized.Wrap("token offers must be sent through the token")
	}
	if err := msg.OfferAsset.AssertSentNativeBalance(ctx.Env.SentFunds); err != nil {
		return nil, err
	}
	info, err := k.GetPairInfo(ctx)
	if err != nil {
		return nil, err
	}
	return k.swap(ctx, info, ctx.Env.Sender, msg.OfferAsset, msg.SwapBounds, msg.To)
}

// swap settles offer, which the pair already holds, against the pool.
func (k Keeper) swap(ctx contract.Context, info types.PairInfo, trader string, offer types.Asset, bounds types.SwapBounds, to string) (*contract.Response, error) {
	if offer.Amount.IsZero() {
		return nil, types.ErrZeroAmount.Wrap("offer")
	}
	if err := bounds.Validate(); err != nil {
		return nil, err
	}

	pools, err := k.QueryPools(ctx, info)
	if err != nil {
		return nil, err
	}
	slot := slotOf(info.AssetInfos, offer.Info)
	if slot < 0 {
		return nil, types.ErrAssetMismatch.Wrapf("offer %s", offer.Info)
	}
	offerPool, askPool := pools[slot], pools[1-slot]

	// The offer has already been credited to the pair; price against the pool
	// as it was before.
	if offerPool.Amount.LT(offer.Amount) {
		return nil, types.ErrInvariantViolation.Wrapf("pool holds %s, less than the offer %s", offerPool, offer)
	}
	offerPool.Amount = offerPool.Amount.Sub(offer.Amount)

	info.AssetVolumes[slot] = wide.SaturatingAdd(info.AssetVolumes[slot], offer.Amount)
	if err := k.SetPairInfo(ctx, info); err != nil {
		return nil, err
	}

	settings, err := k.settings.PairSettings(ctx, info.Factory)
	if err != nil {
		return nil, err
	}

	res, err := ComputeSwap(offerPool.Amount, askPool.Amount, offer.Amount, settings.SwapFee)
	if err != nil {
		return nil, errorsmod.Wrapf(err, "swap %s for %s", offer, askPool.Info)
	}
	if err := assertBounds(bounds, offer.Amount, res); err != nil {
		k.metrics.SlippageRejections.WithLabelValues(info.ContractAddr, "swap").Inc()
		return nil, err
	}

	receiver := to
	if receiver == "" {
		receiver = trader
	}
	payout, err := types.NewAsset(askPool.Info, res.ReturnAmount).TransferMsg(receiver)
	if err != nil {
		return nil, err
	}
	resp := contract.NewResponse().AddMessages(payout)

	if endpoint := settings.SwapDataEndpoint; endpoint != nil {
		notify, err := contract.NewExecuteMsg(*endpoint, types.SwapDataMsg{ReceiveSwapData: &types.SwapData{
			AssetIn:  offer,
			AssetOut: types.NewAsset(askPool.Info, res.ReturnAmount.Add(res.CommissionAmount)),
			Account:  receiver,
		}}, nil)
		if err != nil {
			return nil, err
		}
		notify.BestEffort = true
		resp.AddMessages(notify)
	}

	resp.AddEvent(sdk.NewEvent(types.EventTypeSwap,
		sdk.NewAttribute(types.AttributeKeyPair, info.ContractAddr),
		sdk.NewAttribute(types.AttributeKeySender, trader),
		sdk.NewAttribute(types.AttributeKeyReceiver, receiver),
		sdk.NewAttribute(types.AttributeKeyOfferAsset, offer.Info.String()),
		sdk.NewAttribute(types.AttributeKeyAskAsset, askPool.Info.String()),
		sdk.NewAttribute(types.AttributeKeyOfferAmount, offer.Amount.String()),
		sdk.NewAttribute(types.AttributeKeyReturnAmount, res.ReturnAmount.String()),
		sdk.NewAttribute(types.AttributeKeySpreadAmount, res.SpreadAmount.String()),
		sdk.NewAttribute(types.AttributeKeyCommissionAmount, res.CommissionAmount.String()),
	))

	k.metrics.SwapsTotal.WithLabelValues(info.ContractAddr, offer.Info.String(), askPool.Info.String()).Inc()
	k.metrics.SwapVolume.WithLabelValues(info.ContractAddr, offer.Info.String()).Add(amountFloat(offer.Amount))
	k.metrics.CommissionCollected.WithLabelValues(info.ContractAddr, askPool.Info.String()).Add(amountFloat(res.CommissionAmount))

	k.logger.Debug("swap",
		"pair", info.ContractAddr,
		"offer", offer.String(),
		"return", res.ReturnAmount.String(),
		"commission", res.CommissionAmount.String(),
	)
	return resp, nil
}

// ProvideLiquidity deposits both assets and mints liquidity shares to the
// sender.
func (k Keeper) ProvideLiquidity(ctx contract.Context, msg types.ProvideLiquidityMsg) (*contract.Response, error) {
	for _, asset := range msg.Assets {
		if err := asset.Validate(); err != nil {
			return nil, err
		}
		if err := asset.AssertSentNativeBalance(ctx.Env.SentFunds); err != nil {
			return nil, err
		}
	}
	if msg.Assets[0].Info.Equal(msg.Assets[1].Info) {
		return nil, types.ErrAssetMismatch.Wrap("both deposits are the same asset")
	}

	info, err := k.GetPairInfo(ctx)
	if err != nil {
		return nil, err
	}
	if info.LiquidityToken.Address == "" {
		return nil, types.ErrNotInitialized
	}

	pools, err := k.QueryPools(ctx, info)
	if err != nil {
		return nil, err
	}

	var deposits [2]math.Uint
	for i, pool := range pools {
		slot := -1
		for j, asset := range msg.Assets {
			if asset.Info.Equal(pool.Info) {
				slot = j
			}
		}
		if slot < 0 {
			return nil, types.ErrAssetMismatch.Wrapf("no deposit of %s", pool.Info)
		}
		deposits[i] = msg.Assets[slot].Amount
	}
	if deposits[0].IsZero() || deposits[1].IsZero() {
		return nil, types.ErrZeroAmount.Wrap("both assets must be deposited")
	}

	self := ctx.Self()
	resp := contract.NewResponse()
	var poolAmounts [2]math.Uint
	for i, pool := range pools {
		if pool.Info.IsNative() {
			// Native deposits arrived with the call and are already in the pool.
			if pool.Amount.LT(deposits[i]) {
				return nil, types.ErrInvariantViolation.Wrapf("pool holds %s, less than the deposit %s", pool, deposits[i])
			}
			poolAmounts[i] = pool.Amount.Sub(deposits[i])
			continue
		}
		poolAmounts[i] = pool.Amount
		pull, err := tokentypes.NewTransferFrom(*pool.Info.Token, ctx.Env.Sender, self.Address, deposits[i])
		if err != nil {
			return nil, err
		}
		resp.AddMessages(pull)
	}

	if err := AssertSlippageTolerance(msg.SlippageTolerance, deposits, poolAmounts); err != nil {
		k.metrics.SlippageRejections.WithLabelValues(info.ContractAddr, "provide_liquidity").Inc()
		return nil, err
	}

	totalShare, err := k.totalShare(ctx, info)
	if err != nil {
		return nil, err
	}
	var share math.Uint
	if totalShare.IsZero() {
		share, err = ComputeInitialShares(deposits[0], deposits[1])
	} else {
		share, err = ComputeAdditionalShares(deposits[0], deposits[1], poolAmounts[0], poolAmounts[1], totalShare)
	}
	if err != nil {
		return nil, errorsmod.Wrap(err, "liquidity share")
	}
	if share.IsZero() {
		return nil, types.ErrZeroAmount.Wrap("deposit too small to mint a share")
	}

	mint, err := tokentypes.NewMint(info.LiquidityToken, ctx.Env.Sender, share)
	if err != nil {
		return nil, err
	}
	resp.AddMessages(mint)

	resp.AddEvent(sdk.NewEvent(types.EventTypeProvideLiquidity,
		sdk.NewAttribute(types.AttributeKeyPair, info.ContractAddr),
		sdk.NewAttribute(types.AttributeKeySender, ctx.Env.Sender),
		sdk.NewAttribute(types.AttributeKeyAssets, types.NewAsset(pools[0].Info, deposits[0]).String()+","+types.NewAsset(pools[1].Info, deposits[1]).String()),
		sdk.NewAttribute(types.AttributeKeyShare, share.String()),
	))

	k.metrics.LiquidityProvided.WithLabelValues(info.ContractAddr).Inc()
	k.metrics.SharesMinted.WithLabelValues(info.ContractAddr).Add(amountFloat(share))
	return resp, nil
}

// withdrawLiquidity pays owner its share of both pools for amount liquidity
// tokens, which the pair holds, and burns them.
func (k Keeper) withdrawLiquidity(ctx contract.Context, info types.PairInfo, owner string, amount math.Uint) (*contract.Response, error) {
	if amount.IsZero() {
		return nil, types.ErrZeroAmount.Wrap("withdrawn share")
	}
	pools, err := k.QueryPools(ctx, info)
	if err != nil {
		return nil, err
	}
	totalShare, err := k.totalShare(ctx, info)
	if err != nil {
		return nil, err
	}

	resp := contract.NewResponse()
	var refunds [2]types.Asset
	for i, pool := range pools {
		refund, err := ComputeWithdrawal(pool.Amount, amount, totalShare)
		if err != nil {
			return nil, err
		}
		refunds[i] = types.NewAsset(pool.Info, refund)
		payout, err := refunds[i].TransferMsg(owner)
		if err != nil {
			return nil, err
		}
		resp.AddMessages(payout)
	}

	burn, err := tokentypes.NewBurn(info.LiquidityToken, amount)
	if err != nil {
		return nil, err
	}
	resp.AddMessages(burn)

	resp.AddEvent(sdk.NewEvent(types.EventTypeWithdrawLiquidity,
		sdk.NewAttribute(types.AttributeKeyPair, info.ContractAddr),
		sdk.NewAttribute(types.AttributeKeySender, owner),
		sdk.NewAttribute(types.AttributeKeyWithdrawnShare, amount.String()),
		sdk.NewAttribute(types.AttributeKeyRefundAssets, refunds[0].String()+","+refunds[1].String()),
	))

	k.metrics.LiquidityWithdrawn.WithLabelValues(info.ContractAddr).Inc()
	return resp, nil
}
