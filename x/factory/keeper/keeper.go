package keeper

import (
	"encoding/json"
	"fmt"

	"cosmossdk.io/log"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawswap/x/factory/types"
	pairtypes "github.com/paw-chain/pawswap/x/pair/types"
	"github.com/paw-chain/pawswap/x/shared/contract"
)

var (
	config       = contract.NewItem[types.Config](types.ConfigKey)
	pairSettings = contract.NewItem[pairtypes.PairSettings](types.PairSettingsKey)
	pendingPair  = contract.NewItem[types.PendingPair](types.PendingPairKey)
	pairs        = contract.NewMap[types.PairRecord](types.PairsPrefix)
)

// Keeper is the pair registry contract. It creates pairs and owns the
// settings they trade under.
type Keeper struct {
	logger  log.Logger
	metrics *FactoryMetrics
}

var _ contract.Contract = Keeper{}

// NewKeeper creates the factory contract code.
func NewKeeper(logger log.Logger) Keeper {
	return Keeper{
		logger:  logger.With("module", "x/"+types.ModuleName),
		metrics: NewFactoryMetrics(),
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger() log.Logger {
	return k.logger
}

// GetConfig loads the factory config.
func (k Keeper) GetConfig(ctx contract.Context) (types.Config, error) {
	return config.Load(ctx.Store)
}

// GetPairSettings loads the settings every pair of this factory trades under.
func (k Keeper) GetPairSettings(ctx contract.Context) (pairtypes.PairSettings, error) {
	return pairSettings.Load(ctx.Store)
}

// GetPair returns the registered pair of infos.
func (k Keeper) GetPair(ctx contract.Context, infos [2]pairtypes.AssetInfo) (types.PairRecord, error) {
	rec, found, err := pairs.MayLoad(ctx.Store, pairtypes.PairKey(infos))
	if err != nil {
		return rec, err
	}
	if !found {
		return rec, types.ErrPairNotFound.Wrapf("%s-%s", infos[0], infos[1])
	}
	return rec, nil
}

// Instantiate stores the config with the sender as owner.
func (k Keeper) Instantiate(ctx contract.Context, raw json.RawMessage) (*contract.Response, error) {
	var msg types.InstantiateMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, contract.ErrInvalidRequest.Wrapf("factory instantiate: %s", err)
	}
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	cfg := types.Config{
		Owner:         ctx.Env.Sender,
		PairCodeID:    msg.PairCodeID,
		PairCodeHash:  msg.PairCodeHash,
		TokenCodeID:   msg.TokenCodeID,
		TokenCodeHash: msg.TokenCodeHash,
	}
	if err := config.Save(ctx.Store, cfg); err != nil {
		return nil, err
	}
	if err := pairSettings.Save(ctx.Store, msg.PairSettings); err != nil {
		return nil, err
	}

	k.logger.Info("factory instantiated", "factory", ctx.Env.Contract.Address, "owner", cfg.Owner)
	return contract.NewResponse().AddEvent(configEvent(cfg, msg.PairSettings)), nil
}

// Execute runs one factory operation.
func (k Keeper) Execute(ctx contract.Context, raw json.RawMessage) (*contract.Response, error) {
	var msg types.ExecuteMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, contract.ErrInvalidRequest.Wrapf("factory execute: %s", err)
	}

	switch {
	case msg.UpdateConfig != nil:
		return k.UpdateConfig(ctx, *msg.UpdateConfig)
	case msg.CreatePair != nil:
		return k.CreatePair(ctx, *msg.CreatePair)
	case msg.Register != nil:
		return k.Register(ctx, *msg.Register)
	default:
		return nil, contract.ErrUnknownMsg.Wrap("factory execute")
	}
}

func configEvent(cfg types.Config, settings pairtypes.PairSettings) sdk.Event {
	return sdk.NewEvent(types.EventTypeUpdateConfig,
		sdk.NewAttribute(types.AttributeKeyOwner, cfg.Owner),
		sdk.NewAttribute(types.AttributeKeyPairCodeID, fmt.Sprint(cfg.PairCodeID)),
		sdk.NewAttribute(types.AttributeKeyTokenCodeID, fmt.Sprint(cfg.TokenCodeID)),
		sdk.NewAttribute(types.AttributeKeySwapFee, fmt.Sprintf("%d/%d", settings.SwapFee.Nom, settings.SwapFee.Denom)),
	)
}
