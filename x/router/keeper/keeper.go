package keeper

import (
	"encoding/json"

	"cosmossdk.io/log"

	"github.com/paw-chain/pawswap/x/router/types"
	"github.com/paw-chain/pawswap/x/shared/contract"
)

var (
	owner      = contract.NewItem[string](types.OwnerKey)
	tokens     = contract.NewItem[[]contract.Callable](types.TokensKey)
	cashback   = contract.NewItem[contract.Callable](types.CashbackKey)
	routeState = contract.NewItem[types.RouteState](types.RouteStateKey)
)

// Keeper is the multi-hop router contract. A route advances one hop per
// message; progress lives in the route_state record between messages.
type Keeper struct {
	nativeDenom string
	logger      log.Logger
	metrics     *RouterMetrics
}

var _ contract.Contract = Keeper{}

// NewKeeper creates the router contract code. nativeDenom is the only native
// coin a route may start with.
func NewKeeper(nativeDenom string, logger log.Logger) Keeper {
	return Keeper{
		nativeDenom: nativeDenom,
		logger:      logger.With("module", "x/"+types.ModuleName),
		metrics:     NewRouterMetrics(),
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger() log.Logger {
	return k.logger
}

// GetRouteState returns the route in flight, or nil when idle.
func (k Keeper) GetRouteState(ctx contract.Context) (*types.RouteState, error) {
	state, found, err := routeState.MayLoad(ctx.Store)
	if err != nil || !found {
		return nil, err
	}
	return &state, nil
}

// Instantiate stores the owner and registers the initial tokens.
func (k Keeper) Instantiate(ctx contract.Context, raw json.RawMessage) (*contract.Response, error) {
	var msg types.InstantiateMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, contract.ErrInvalidRequest.Wrapf("router instantiate: %s", err)
	}

	admin := msg.Owner
	if admin == "" {
		admin = ctx.Env.Sender
	}
	if err := owner.Save(ctx.Store, admin); err != nil {
		return nil, err
	}
	if err := tokens.Save(ctx.Store, []contract.Callable{}); err != nil {
		return nil, err
	}
	if msg.Cashback != nil {
		if err := cashback.Save(ctx.Store, *msg.Cashback); err != nil {
			return nil, err
		}
	}

	k.logger.Info("router instantiated", "router", ctx.Env.Contract.Address, "owner", admin)
	return k.RegisterTokens(ctx, types.RegisterTokensMsg{Tokens: msg.RegisterTokens})
}

// Execute runs one router operation.
func (k Keeper) Execute(ctx contract.Context, raw json.RawMessage) (*contract.Response, error) {
	var msg types.ExecuteMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, contract.ErrInvalidRequest.Wrapf("router execute: %s", err)
	}

	switch {
	case msg.Receive != nil:
		return k.Receive(ctx, *msg.Receive)
	case msg.FinalizeRoute != nil:
		return k.FinalizeRoute(ctx)
	case msg.RegisterTokens != nil:
		return k.RegisterTokens(ctx, *msg.RegisterTokens)
	case msg.RecoverFunds != nil:
		return k.RecoverFunds(ctx, *msg.RecoverFunds)
	case msg.UpdateSettings != nil:
		return k.UpdateSettings(ctx, *msg.UpdateSettings)
	default:
		return nil, contract.ErrUnknownMsg.Wrap("router execute")
	}
}
