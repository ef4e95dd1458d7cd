package keeper

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	"github.com/paw-chain/pawswap/pkg/ratio"
	"github.com/paw-chain/pawswap/pkg/wide"
	"github.com/paw-chain/pawswap/x/pair/types"
)

// SwapResult is the outcome of a constant-product swap. ReturnAmount is net
// of commission.
type SwapResult struct {
	ReturnAmount     math.Uint
	SpreadAmount     math.Uint
	CommissionAmount math.Uint
}

// OfferResult is the outcome of solving a swap for its input.
type OfferResult struct {
	OfferAmount      math.Uint
	SpreadAmount     math.Uint
	CommissionAmount math.Uint
}

// ComputeSwap prices offerAmount against a pool holding offerPool and
// askPool, neither of which includes the offer.
//
//	cp         = offer_pool * ask_pool
//	gross      = ask_pool - cp / (offer_pool + offer)
//	spread     = offer * ask_pool / offer_pool - gross
//	commission = ceil(gross * fee)
//	return     = gross - commission
func ComputeSwap(offerPool, askPool, offerAmount math.Uint, fee types.Fee) (SwapResult, error) {
	if err := fee.Validate(); err != nil {
		return SwapResult{}, err
	}
	if err := checkAmounts(offerPool, askPool, offerAmount); err != nil {
		return SwapResult{}, err
	}

	op, ap, offer := wide.Widen(offerPool), wide.Widen(askPool), wide.Widen(offerAmount)

	cp, err := wide.Mul(op, ap)
	if err != nil {
		return SwapResult{}, errorsmod.Wrap(err, "constant product")
	}
	newOfferPool, err := wide.Add(op, offer)
	if err != nil {
		return SwapResult{}, errorsmod.Wrap(err, "offer pool after swap")
	}
	remaining, err := wide.Div(cp, newOfferPool)
	if err != nil {
		return SwapResult{}, errorsmod.Wrap(err, "ask pool after swap")
	}
	gross, err := wide.Sub(ap, remaining)
	if err != nil {
		return SwapResult{}, errorsmod.Wrap(err, "gross return")
	}
	ideal, err := wide.MulDiv(offer, ap, op)
	if err != nil {
		return SwapResult{}, errorsmod.Wrap(err, "ideal return")
	}
	spread, err := wide.Sub(ideal, gross)
	if err != nil {
		return SwapResult{}, errorsmod.Wrap(err, "spread")
	}
	// Rounded up so that the pool keeps the remainder.
	commission, err := wide.MulDivCeil(gross, wide.NewInt(fee.Nom), wide.NewInt(fee.Denom))
	if err != nil {
		return SwapResult{}, errorsmod.Wrap(err, "commission")
	}
	ret, err := wide.Sub(gross, commission)
	if err != nil {
		return SwapResult{}, errorsmod.Wrap(err, "return")
	}
	// The spread is bounded by the ideal return, which a tiny offer pool can
	// push past 128 bits.
	spreadAmount, err := wide.TryNarrow(spread)
	if err != nil {
		return SwapResult{}, errorsmod.Wrap(err, "spread")
	}

	return SwapResult{
		ReturnAmount:     wide.Narrow(ret),
		SpreadAmount:     spreadAmount,
		CommissionAmount: wide.Narrow(commission),
	}, nil
}

// ComputeOfferAmount returns the smallest offer for which ComputeSwap pays
// at least askAmount.
//
//	before = ceil(ask / (1 - fee))
//	offer  = cp / (ask_pool - before + 1) + 1 - offer_pool
//
// The spread is reported against the pool price as a decimal ratio.
func ComputeOfferAmount(offerPool, askPool, askAmount math.Uint, fee types.Fee) (OfferResult, error) {
	if err := fee.Validate(); err != nil {
		return OfferResult{}, err
	}
	if err := checkAmounts(offerPool, askPool, askAmount); err != nil {
		return OfferResult{}, err
	}
	if askAmount.IsZero() {
		return OfferResult{}, types.ErrZeroAmount.Wrap("ask amount")
	}

	op, ap := wide.Widen(offerPool), wide.Widen(askPool)
	nom, denom := wide.NewInt(fee.Nom), wide.NewInt(fee.Denom)

	before, err := wide.MulDivCeil(wide.Widen(askAmount), denom, wide.NewInt(fee.Denom-fee.Nom))
	if err != nil {
		return OfferResult{}, errorsmod.Wrap(err, "return before commission")
	}
	if !before.Lt(ap) {
		return OfferResult{}, types.ErrInvariantViolation.Wrapf("ask %s needs %s of a %s pool", askAmount, before.Dec(), askPool)
	}

	cp, err := wide.Mul(op, ap)
	if err != nil {
		return OfferResult{}, errorsmod.Wrap(err, "constant product")
	}
	// ap - before + 1 cannot underflow: before < ap.
	left := new(wide.Int).Sub(ap, before)
	left.AddUint64(left, 1)
	offer, err := wide.Div(cp, left)
	if err != nil {
		return OfferResult{}, errorsmod.Wrap(err, "offer pool after swap")
	}
	offer.AddUint64(offer, 1)
	if offer, err = wide.Sub(offer, op); err != nil {
		return OfferResult{}, errorsmod.Wrap(err, "offer amount")
	}
	offerAmount, err := wide.TryNarrow(offer)
	if err != nil {
		return OfferResult{}, err
	}

	price, err := ratio.FromRatio(askPool, offerPool)
	if err != nil {
		return OfferResult{}, errorsmod.Wrap(err, "pool price")
	}
	atPrice, err := ratio.MulUint(offerAmount, price)
	if err != nil {
		return OfferResult{}, errorsmod.Wrap(err, "offer value")
	}
	spread := math.ZeroUint()
	if b := wide.Narrow(before); atPrice.GT(b) {
		spread = atPrice.Sub(b)
	}

	commission, err := wide.MulDivCeil(before, nom, denom)
	if err != nil {
		return OfferResult{}, errorsmod.Wrap(err, "commission")
	}

	return OfferResult{
		OfferAmount:      offerAmount,
		SpreadAmount:     spread,
		CommissionAmount: wide.Narrow(commission),
	}, nil
}

// ComputeInitialShares returns sqrt(deposit0 * deposit1), the share supply
// minted by the first provision.
func ComputeInitialShares(deposit0, deposit1 math.Uint) (math.Uint, error) {
	if err := checkAmounts(deposit0, deposit1); err != nil {
		return math.ZeroUint(), err
	}
	p, err := wide.Mul(wide.Widen(deposit0), wide.Widen(deposit1))
	if err != nil {
		return math.ZeroUint(), err
	}
	return wide.Narrow(wide.Sqrt(p)), nil
}

// ComputeAdditionalShares returns
// min(deposit0*totalShares/pool0, deposit1*totalShares/pool1).
func ComputeAdditionalShares(deposit0, deposit1, pool0, pool1, totalShares math.Uint) (math.Uint, error) {
	if err := checkAmounts(deposit0, deposit1, pool0, pool1, totalShares); err != nil {
		return math.ZeroUint(), err
	}
	ts := wide.Widen(totalShares)
	a, err := wide.MulDiv(wide.Widen(deposit0), ts, wide.Widen(pool0))
	if err != nil {
		return math.ZeroUint(), errorsmod.Wrap(err, "share of asset 0")
	}
	b, err := wide.MulDiv(wide.Widen(deposit1), ts, wide.Widen(pool1))
	if err != nil {
		return math.ZeroUint(), errorsmod.Wrap(err, "share of asset 1")
	}
	if b.Lt(a) {
		a = b
	}
	return wide.TryNarrow(a)
}

// ComputeWithdrawal returns poolAmount * burnAmount / totalShares.
func ComputeWithdrawal(poolAmount, burnAmount, totalShares math.Uint) (math.Uint, error) {
	if err := checkAmounts(poolAmount, burnAmount, totalShares); err != nil {
		return math.ZeroUint(), err
	}
	if burnAmount.GT(totalShares) {
		return math.ZeroUint(), types.ErrInvariantViolation.Wrapf("burning %s of %s shares", burnAmount, totalShares)
	}
	r, err := wide.MulDiv(wide.Widen(poolAmount), wide.Widen(burnAmount), wide.Widen(totalShares))
	if err != nil {
		return math.ZeroUint(), err
	}
	return wide.Narrow(r), nil
}

// checkAmounts rejects inputs wider than 128 bits. Every amount the engine
// narrows is bounded by one of its inputs, so Narrow cannot fail afterwards.
func checkAmounts(amounts ...math.Uint) error {
	for _, a := range amounts {
		if err := wide.CheckAmount(a); err != nil {
			return err
		}
	}
	return nil
}
