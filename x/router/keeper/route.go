package keeper

import (
	"encoding/json"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	pairtypes "github.com/paw-chain/pawswap/x/pair/types"
	"github.com/paw-chain/pawswap/x/router/types"
	"github.com/paw-chain/pawswap/x/shared/contract"
	tokentypes "github.com/paw-chain/pawswap/x/token/types"
)

// trigger is what an incoming receive means for the route: the start of a
// new one or the output of the hop in flight.
type trigger struct {
	initiate *types.Route
	input    contract.ReceiveMsg
}

// resolveTrigger decodes a receive once. A payload starts a route; a bare
// transfer continues the one in flight.
func resolveTrigger(msg contract.ReceiveMsg) (trigger, error) {
	t := trigger{input: msg}
	if !msg.HasPayload() {
		return t, nil
	}
	var route types.Route
	if err := json.Unmarshal(msg.Msg, &route); err != nil {
		return t, contract.ErrInvalidRequest.Wrapf("route payload: %s", err)
	}
	t.initiate = &route
	return t, nil
}

// Receive advances the route state machine.
func (k Keeper) Receive(ctx contract.Context, msg contract.ReceiveMsg) (*contract.Response, error) {
	if err := contract.RequireAmount("amount", msg.Amount); err != nil {
		return nil, err
	}
	t, err := resolveTrigger(msg)
	if err != nil {
		return nil, err
	}

	var resp *contract.Response
	if t.initiate != nil {
		resp, err = k.Initiate(ctx, *t.initiate, t.input)
	} else {
		resp, err = k.Continue(ctx, t.input)
	}
	if err != nil {
		k.metrics.RouteRejections.WithLabelValues(rejectionReason(err)).Inc()
		return nil, err
	}
	return resp, nil
}

// Initiate starts route with the input that arrived with msg. It persists
// the first hop, swaps it with the router as recipient and queues the
// self-call that closes the route once every hop has run.
func (k Keeper) Initiate(ctx contract.Context, route types.Route, msg contract.ReceiveMsg) (*contract.Response, error) {
	if err := route.Validate(); err != nil {
		return nil, err
	}
	if routeState.Exists(ctx.Store) {
		return nil, types.ErrRouteInProgress
	}

	first := route.Hops[0]
	if err := k.assertFirstHopInput(ctx, first, msg); err != nil {
		return nil, err
	}

	state := types.RouteState{
		IsDone:     false,
		CurrentHop: &first,
		RemainingRoute: types.Route{
			Hops:           route.Hops[1:],
			To:             route.To,
			ExpectedReturn: route.ExpectedReturn,
		},
	}
	if err := routeState.Save(ctx.Store, state); err != nil {
		return nil, err
	}

	self := ctx.Self()
	swap, err := hopSwapMsg(first, msg.Amount, first.ExpectedReturn, self.Address)
	if err != nil {
		return nil, err
	}
	finalize, err := contract.NewExecuteMsg(self, types.ExecuteMsg{FinalizeRoute: &struct{}{}}, nil)
	if err != nil {
		return nil, err
	}

	k.metrics.RoutesStarted.Inc()
	k.metrics.HopsDispatched.Inc()
	k.logger.Debug("route started", "hops", len(route.Hops), "to", route.To, "offer", msg.Amount.String())

	return contract.NewResponse().
		AddMessages(swap, finalize).
		AddEvent(sdk.NewEvent(types.EventTypeRouteStarted,
			sdk.NewAttribute(types.AttributeKeyHops, fmt.Sprint(len(route.Hops))),
			sdk.NewAttribute(types.AttributeKeyOffer, pairtypes.NewAsset(first.FromToken, msg.Amount).String()),
			sdk.NewAttribute(types.AttributeKeyTo, route.To),
		)), nil
}

// assertFirstHopInput checks that the route was funded with the first hop's
// asset: a native hop by exactly one coin of the native denom in the declared
// amount, a token hop by a transfer from that token.
func (k Keeper) assertFirstHopInput(ctx contract.Context, first types.Hop, msg contract.ReceiveMsg) error {
	if first.FromToken.IsNative() {
		funds := ctx.Env.SentFunds
		if first.FromToken.NativeToken.Denom != k.nativeDenom {
			return types.ErrFirstHopMismatch.Wrapf("native input must be %s", k.nativeDenom)
		}
		if len(funds) != 1 || funds[0].Denom != k.nativeDenom || !funds[0].Amount.Equal(math.NewIntFromBigInt(msg.Amount.BigInt())) {
			return types.ErrFirstHopMismatch.Wrapf("sent %s for %s%s", funds, msg.Amount, k.nativeDenom)
		}
		return nil
	}
	if len(ctx.Env.SentFunds) != 0 {
		return types.ErrFirstHopMismatch.Wrap("native coins sent with a token route")
	}
	if ctx.Env.Sender != first.FromToken.Token.Address {
		return types.ErrFirstHopMismatch.Wrapf("route starts with %s, received %s", first.FromToken, ctx.Env.Sender)
	}
	return nil
}

// Continue swaps the output of the hop in flight through the next hop. The
// last hop pays to the route's recipient and marks the route done.
func (k Keeper) Continue(ctx contract.Context, msg contract.ReceiveMsg) (*contract.Response, error) {
	state, found, err := routeState.MayLoad(ctx.Store)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, types.ErrNoActiveRoute
	}
	if len(state.RemainingRoute.Hops) == 0 {
		return nil, types.ErrEmptyRoute
	}

	next := state.RemainingRoute.Hops[0]
	if next.FromToken.IsNative() {
		return nil, types.ErrNativeHop.Wrap("hop output cannot be native")
	}
	if ctx.Env.Sender != next.FromToken.Token.Address {
		return nil, contract.ErrUnauthorized.Wrapf("next hop offers %s, received %s", next.FromToken, ctx.Env.Sender)
	}
	if state.CurrentHop == nil || msg.From != state.CurrentHop.Pair.Address {
		return nil, contract.ErrUnauthorized.Wrapf("%s is not the pair of the hop in flight", msg.From)
	}

	state.RemainingRoute.Hops = state.RemainingRoute.Hops[1:]
	recipient, bound := ctx.Self().Address, next.ExpectedReturn
	if len(state.RemainingRoute.Hops) == 0 {
		state.IsDone = true
		state.CurrentHop = nil
		recipient = state.RemainingRoute.To
		if state.RemainingRoute.ExpectedReturn != nil {
			bound = state.RemainingRoute.ExpectedReturn
		}
	} else {
		state.CurrentHop = &next
	}
	if err := routeState.Save(ctx.Store, state); err != nil {
		return nil, err
	}

	swap, err := hopSwapMsg(next, msg.Amount, bound, recipient)
	if err != nil {
		return nil, err
	}

	k.metrics.HopsDispatched.Inc()
	return contract.NewResponse().
		AddMessages(swap).
		AddEvent(sdk.NewEvent(types.EventTypeRouteHop,
			sdk.NewAttribute(types.AttributeKeyPair, next.Pair.Address),
			sdk.NewAttribute(types.AttributeKeyOffer, pairtypes.NewAsset(next.FromToken, msg.Amount).String()),
			sdk.NewAttribute(types.AttributeKeyTo, recipient),
		)), nil
}

// FinalizeRoute closes a completed route. Only the router may call it; it
// runs after every message the route emitted.
func (k Keeper) FinalizeRoute(ctx contract.Context) (*contract.Response, error) {
	if err := contract.ValidateSelf(ctx); err != nil {
		return nil, err
	}
	state, found, err := routeState.MayLoad(ctx.Store)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, types.ErrNoActiveRoute
	}
	if !state.ReadyToFinalize() {
		return nil, types.ErrRouteNotDone.Wrapf("%d hops left", len(state.RemainingRoute.Hops))
	}
	routeState.Remove(ctx.Store)

	resp := contract.NewResponse()
	attrs := []sdk.Attribute{sdk.NewAttribute(types.AttributeKeyTo, state.RemainingRoute.To)}

	token, found, err := cashback.MayLoad(ctx.Store)
	if err != nil {
		return nil, err
	}
	if found {
		bal, err := tokentypes.QueryBalance(ctx.Querier, token, ctx.Self().Address)
		if err != nil {
			return nil, err
		}
		if !bal.IsZero() {
			sweep, err := tokentypes.NewTransfer(token, state.RemainingRoute.To, bal)
			if err != nil {
				return nil, err
			}
			resp.AddMessages(sweep)
			attrs = append(attrs, sdk.NewAttribute(types.AttributeKeyCashback, bal.String()+token.Address))
		}
	}

	k.metrics.RoutesCompleted.Inc()
	k.logger.Debug("route finalized", "to", state.RemainingRoute.To)
	return resp.AddEvent(sdk.NewEvent(types.EventTypeRouteFinalized, attrs...)), nil
}

// hopSwapMsg swaps amount of hop's input through its pair, paying recipient.
func hopSwapMsg(hop types.Hop, amount math.Uint, expected *math.Uint, recipient string) (contract.Msg, error) {
	offer := pairtypes.NewAsset(hop.FromToken, amount)
	bounds := pairtypes.SwapBounds{ExpectedReturn: expected}
	if hop.FromToken.IsNative() {
		return pairtypes.NewNativeSwapMsg(hop.Pair, offer, bounds, recipient)
	}
	return pairtypes.NewTokenSwapMsg(*hop.FromToken.Token, hop.Pair, offer, bounds, recipient)
}
