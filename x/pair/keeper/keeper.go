package keeper

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"cosmossdk.io/math"

	"github.com/paw-chain/pawswap/x/pair/types"
	"github.com/paw-chain/pawswap/x/shared/contract"
	tokentypes "github.com/paw-chain/pawswap/x/token/types"
)

var pairInfo = contract.NewItem[types.PairInfo](types.PairInfoKey)

// SettingsQuerier reads the PairSettings a pair trades under. Settings are
// only ever pulled; the pair never writes them.
type SettingsQuerier interface {
	PairSettings(ctx contract.Context, factory contract.Callable) (types.PairSettings, error)
}

// FactorySettings asks the pair's factory for its settings.
type FactorySettings struct{}

func (FactorySettings) PairSettings(ctx contract.Context, factory contract.Callable) (types.PairSettings, error) {
	settings, err := contract.Query[types.PairSettings](ctx.Querier, factory, types.NewSettingsQuery())
	if err != nil {
		return types.PairSettings{}, errorsmod.Wrapf(err, "pair settings from %s", factory.Address)
	}
	return settings, settings.Validate()
}

// Keeper is the pair contract: one instance per pool.
type Keeper struct {
	settings SettingsQuerier
	logger   log.Logger
	metrics  *PairMetrics
}

var _ contract.Contract = Keeper{}

// NewKeeper creates the pair contract code.
func NewKeeper(settings SettingsQuerier, logger log.Logger) Keeper {
	if settings == nil {
		settings = FactorySettings{}
	}
	return Keeper{
		settings: settings,
		logger:   logger.With("module", "x/"+types.ModuleName),
		metrics:  NewPairMetrics(),
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger() log.Logger {
	return k.logger
}

// GetPairInfo loads the pair's stored info.
func (k Keeper) GetPairInfo(ctx contract.Context) (types.PairInfo, error) {
	return pairInfo.Load(ctx.Store)
}

// SetPairInfo stores the pair's info.
func (k Keeper) SetPairInfo(ctx contract.Context, info types.PairInfo) error {
	return pairInfo.Save(ctx.Store, info)
}

// QueryPools reads the pair's current balance of both assets.
func (k Keeper) QueryPools(ctx contract.Context, info types.PairInfo) ([2]types.Asset, error) {
	var pools [2]types.Asset
	for i, assetInfo := range info.AssetInfos {
		amount, err := assetInfo.QueryPool(ctx.Querier, ctx.Env.Contract.Address)
		if err != nil {
			return pools, errorsmod.Wrapf(err, "pool of %s", assetInfo)
		}
		pools[i] = types.NewAsset(assetInfo, amount)
	}
	return pools, nil
}

// totalShare returns the liquidity token supply.
func (k Keeper) totalShare(ctx contract.Context, info types.PairInfo) (math.Uint, error) {
	if info.LiquidityToken.Address == "" {
		return math.ZeroUint(), nil
	}
	tokenInfo, err := tokentypes.QueryTokenInfo(ctx.Querier, info.LiquidityToken)
	if err != nil {
		return math.ZeroUint(), errorsmod.Wrap(err, "liquidity token supply")
	}
	return tokenInfo.TotalSupply, nil
}

// slotOf returns the index of the pool slot holding asset, or -1.
func slotOf(infos [2]types.AssetInfo, asset types.AssetInfo) int {
	for i, info := range infos {
		if info.Equal(asset) {
			return i
		}
	}
	return -1
}

// Instantiate stores the pair and creates its liquidity token.
func (k Keeper) Instantiate(ctx contract.Context, raw json.RawMessage) (*contract.Response, error) {
	var msg types.InstantiateMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, contract.ErrInvalidRequest.Wrapf("pair instantiate: %s", err)
	}
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	self := ctx.Self()
	info := types.PairInfo{
		AssetInfos:     msg.AssetInfos,
		ContractAddr:   self.Address,
		LiquidityToken: contract.Callable{CodeHash: msg.TokenCodeHash},
		Factory:        msg.Factory,
		AssetVolumes:   [2]math.Uint{math.ZeroUint(), math.ZeroUint()},
	}
	if err := k.SetPairInfo(ctx, info); err != nil {
		return nil, err
	}

	hook, err := contract.NewInitHook(self, types.ExecuteMsg{PostInitialize: &struct{}{}})
	if err != nil {
		return nil, err
	}
	lp, err := contract.NewInstantiateMsg(msg.TokenCodeID, msg.TokenCodeHash, "lp-"+self.Address, tokentypes.InstantiateMsg{
		Name:     "pawswap liquidity token",
		Symbol:   "PAWLP",
		Decimals: 6,
		Minter:   self.Address,
		InitHook: hook,
	})
	if err != nil {
		return nil, err
	}

	resp := contract.NewResponse().AddMessages(lp)
	for _, assetInfo := range msg.AssetInfos {
		if assetInfo.IsNative() {
			continue
		}
		register, err := tokentypes.NewRegisterReceive(*assetInfo.Token, self.CodeHash)
		if err != nil {
			return nil, err
		}
		resp.AddMessages(register)
	}
	if msg.InitHook != nil {
		resp.AddMessages(msg.InitHook.ToMsg())
	}

	k.logger.Info("pair instantiated", "pair", self.Address, "assets", msg.AssetInfos[0].String()+"-"+msg.AssetInfos[1].String())
	return resp, nil
}

// Execute runs one pair operation.
func (k Keeper) Execute(ctx contract.Context, raw json.RawMessage) (*contract.Response, error) {
	var msg types.ExecuteMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, contract.ErrInvalidRequest.Wrapf("pair execute: %s", err)
	}

	switch {
	case msg.Receive != nil:
		return k.Receive(ctx, *msg.Receive)
	case msg.PostInitialize != nil:
		return k.PostInitialize(ctx)
	case msg.ProvideLiquidity != nil:
		return k.ProvideLiquidity(ctx, *msg.ProvideLiquidity)
	case msg.Swap != nil:
		return k.NativeSwap(ctx, *msg.Swap)
	default:
		return nil, contract.ErrUnknownMsg.Wrap("pair execute")
	}
}
