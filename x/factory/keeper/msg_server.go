package keeper

import (
	"bytes"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawswap/x/factory/types"
	pairtypes "github.com/paw-chain/pawswap/x/pair/types"
	"github.com/paw-chain/pawswap/x/shared/contract"
)

// UpdateConfig lets the owner replace code references, settings or the
// owner itself.
func (k Keeper) UpdateConfig(ctx contract.Context, msg types.UpdateConfigMsg) (*contract.Response, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	if err := contract.ValidateOwner(cfg.Owner, ctx.Env.Sender); err != nil {
		return nil, err
	}
	settings, err := k.GetPairSettings(ctx)
	if err != nil {
		return nil, err
	}

	if msg.Owner != nil {
		cfg.Owner = *msg.Owner
	}
	if msg.PairCodeID != nil {
		cfg.PairCodeID = *msg.PairCodeID
	}
	if msg.PairCodeHash != nil {
		cfg.PairCodeHash = *msg.PairCodeHash
	}
	if msg.TokenCodeID != nil {
		cfg.TokenCodeID = *msg.TokenCodeID
	}
	if msg.TokenCodeHash != nil {
		cfg.TokenCodeHash = *msg.TokenCodeHash
	}
	if msg.PairSettings != nil {
		if err := types.ValidateSettings(*msg.PairSettings); err != nil {
			return nil, err
		}
		settings = *msg.PairSettings
	}
	if cfg.Owner == "" {
		return nil, contract.ErrInvalidRequest.Wrap("empty owner")
	}

	if err := config.Save(ctx.Store, cfg); err != nil {
		return nil, err
	}
	if err := pairSettings.Save(ctx.Store, settings); err != nil {
		return nil, err
	}

	k.logger.Info("factory config updated", "owner", cfg.Owner, "fee_nom", settings.SwapFee.Nom, "fee_denom", settings.SwapFee.Denom)
	return contract.NewResponse().AddEvent(configEvent(cfg, settings)), nil
}

// CreatePair instantiates a pair for two unregistered assets. The pair
// registers itself through its init hook once its LP token exists.
func (k Keeper) CreatePair(ctx contract.Context, msg types.AssetInfosMsg) (*contract.Response, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	key := pairtypes.PairKey(msg.AssetInfos)
	if pairs.Has(ctx.Store, key) {
		return nil, types.ErrPairExists.Wrapf("%s-%s", msg.AssetInfos[0], msg.AssetInfos[1])
	}
	if pendingPair.Exists(ctx.Store) {
		return nil, contract.ErrInvalidRequest.Wrap("another pair creation is in flight")
	}

	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	if err := pendingPair.Save(ctx.Store, types.PendingPair{AssetInfos: msg.AssetInfos}); err != nil {
		return nil, err
	}

	self := ctx.Self()
	hook, err := contract.NewInitHook(self, types.ExecuteMsg{Register: &types.AssetInfosMsg{AssetInfos: msg.AssetInfos}})
	if err != nil {
		return nil, err
	}
	label := msg.AssetInfos[0].String() + "-" + msg.AssetInfos[1].String()
	instantiate, err := contract.NewInstantiateMsg(cfg.PairCodeID, cfg.PairCodeHash, "pair-"+label, pairtypes.InstantiateMsg{
		AssetInfos:    msg.AssetInfos,
		TokenCodeID:   cfg.TokenCodeID,
		TokenCodeHash: cfg.TokenCodeHash,
		Factory:       self,
		InitHook:      hook,
	})
	if err != nil {
		return nil, err
	}

	return contract.NewResponse().
		AddMessages(instantiate).
		AddEvent(sdk.NewEvent(types.EventTypeCreatePair,
			sdk.NewAttribute(types.AttributeKeyAssets, label),
		)), nil
}

// Register records the pending pair once the pair calls back. The caller is
// the pair itself.
func (k Keeper) Register(ctx contract.Context, msg types.AssetInfosMsg) (*contract.Response, error) {
	pending, found, err := pendingPair.MayLoad(ctx.Store)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, types.ErrNoPendingPair
	}
	key := pairtypes.PairKey(pending.AssetInfos)
	if !bytes.Equal(key, pairtypes.PairKey(msg.AssetInfos)) {
		return nil, pairtypes.ErrAssetMismatch.Wrap("register does not match the pending pair")
	}

	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	pair := contract.Callable{Address: ctx.Env.Sender, CodeHash: cfg.PairCodeHash}
	info, err := pairtypes.QueryPairInfo(ctx.Querier, pair)
	if err != nil {
		return nil, err
	}
	if info.ContractAddr != ctx.Env.Sender || !bytes.Equal(key, pairtypes.PairKey(info.AssetInfos)) {
		return nil, contract.ErrUnauthorized.Wrapf("%s is not the pending pair", ctx.Env.Sender)
	}

	rec := types.PairRecord{
		AssetInfos:     pending.AssetInfos,
		Pair:           pair,
		LiquidityToken: info.LiquidityToken,
	}
	if err := pairs.Save(ctx.Store, key, rec); err != nil {
		return nil, err
	}
	pendingPair.Remove(ctx.Store)

	k.metrics.PairsCreated.Inc()
	k.logger.Info("pair registered", "pair", pair.Address, "liquidity_token", info.LiquidityToken.Address)
	return contract.NewResponse().AddEvent(sdk.NewEvent(types.EventTypeRegisterPair,
		sdk.NewAttribute(types.AttributeKeyPair, pair.Address),
		sdk.NewAttribute(types.AttributeKeyLiquidity, info.LiquidityToken.Address),
	)), nil
}
