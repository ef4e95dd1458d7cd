package types

import (
	"cosmossdk.io/math"

	pairtypes "github.com/paw-chain/pawswap/x/pair/types"
	"github.com/paw-chain/pawswap/x/shared/contract"
)

// Hop is one swap of a route. ExpectedReturn bounds this hop alone.
type Hop struct {
	FromToken      pairtypes.AssetInfo `json:"from_token"`
	Pair           contract.Callable   `json:"pair"`
	ExpectedReturn *math.Uint          `json:"expected_return,omitempty"`
}

// Route is the payload that starts a multi-hop swap. ExpectedReturn bounds
// the final output paid to To.
type Route struct {
	Hops           []Hop      `json:"hops"`
	To             string     `json:"to"`
	ExpectedReturn *math.Uint `json:"expected_return,omitempty"`
}

// Validate checks the route shape: at least two hops and a native input on
// the first hop only.
func (r Route) Validate() error {
	if len(r.Hops) < 2 {
		return ErrRouteTooShort.Wrapf("%d hops", len(r.Hops))
	}
	if r.To == "" {
		return contract.ErrInvalidRequest.Wrap("route without recipient")
	}
	for i, hop := range r.Hops {
		if err := hop.FromToken.Validate(); err != nil {
			return err
		}
		if hop.Pair.Address == "" {
			return contract.ErrInvalidRequest.Wrapf("hop %d without pair", i)
		}
		if i > 0 && hop.FromToken.IsNative() {
			return ErrNativeHop.Wrapf("hop %d offers %s", i, hop.FromToken)
		}
	}
	return nil
}

// RouteState is the router's persisted progress through a route.
type RouteState struct {
	IsDone         bool  `json:"is_done"`
	CurrentHop     *Hop  `json:"current_hop,omitempty"`
	RemainingRoute Route `json:"remaining_route"`
}

// Phase is the step a router is at, derived from its RouteState.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseHopping    Phase = "hopping"
	PhaseFinalizing Phase = "finalizing"
)

// PhaseOf derives the phase of state; a nil state is idle.
func PhaseOf(state *RouteState) Phase {
	switch {
	case state == nil:
		return PhaseIdle
	case state.IsDone:
		return PhaseFinalizing
	default:
		return PhaseHopping
	}
}

// ReadyToFinalize reports whether every hop has been dispatched.
func (s RouteState) ReadyToFinalize() bool {
	return s.IsDone && s.CurrentHop == nil && len(s.RemainingRoute.Hops) == 0
}
