package keeper

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	"github.com/paw-chain/pawswap/pkg/ratio"
	"github.com/paw-chain/pawswap/x/pair/types"
)

// AssertWithinBounds checks a priced swap against the caller's bounds.
//
// expectedReturn wins when given. Otherwise beliefPrice and maxSpread bound
// the shortfall of the gross return against offerAmount/beliefPrice, and
// maxSpread alone bounds spread/(gross+spread). No bounds accept any price.
func AssertWithinBounds(
	beliefPrice, maxSpread *math.LegacyDec,
	expectedReturn *math.Uint,
	offerAmount, returnAmount, commissionAmount, spreadAmount math.Uint,
) error {
	switch {
	case expectedReturn != nil:
		if returnAmount.LT(*expectedReturn) {
			return types.ErrSlippageExceeded.Wrapf("return %s fell short of expected %s", returnAmount, expectedReturn)
		}

	case beliefPrice != nil && maxSpread != nil:
		gross := returnAmount.Add(commissionAmount)
		inverse, err := ratio.Reverse(*beliefPrice)
		if err != nil {
			return errorsmod.Wrap(err, "belief price")
		}
		ideal, err := ratio.MulUint(offerAmount, inverse)
		if err != nil {
			return errorsmod.Wrap(err, "ideal return")
		}
		if gross.LT(ideal) {
			spread, err := ratio.FromRatio(ideal.Sub(gross), ideal)
			if err != nil {
				return err
			}
			if spread.GT(*maxSpread) {
				return types.ErrSlippageExceeded.Wrapf("spread %s exceeds %s at belief price %s", spread, maxSpread, beliefPrice)
			}
		}

	case maxSpread != nil:
		total := returnAmount.Add(commissionAmount).Add(spreadAmount)
		if total.IsZero() {
			return nil
		}
		spread, err := ratio.FromRatio(spreadAmount, total)
		if err != nil {
			return err
		}
		if spread.GT(*maxSpread) {
			return types.ErrSlippageExceeded.Wrapf("spread %s exceeds %s", spread, maxSpread)
		}
	}
	return nil
}

// assertBounds applies AssertWithinBounds to a swap result.
func assertBounds(bounds types.SwapBounds, offerAmount math.Uint, res SwapResult) error {
	return AssertWithinBounds(bounds.BeliefPrice, bounds.MaxSpread, bounds.ExpectedReturn,
		offerAmount, res.ReturnAmount, res.CommissionAmount, res.SpreadAmount)
}

// AssertSlippageTolerance rejects a two-sided deposit whose price, reduced by
// tolerance, is above the pool price in either direction.
func AssertSlippageTolerance(tolerance *math.LegacyDec, deposits, pools [2]math.Uint) error {
	if tolerance == nil {
		return nil
	}
	if pools[0].IsZero() || pools[1].IsZero() {
		// An empty pool has no price to move.
		return nil
	}

	keep, err := ratio.OneMinus(*tolerance)
	if err != nil {
		return types.ErrSlippageExceeded.Wrapf("tolerance %s above one", tolerance)
	}

	for _, ij := range [2][2]int{{0, 1}, {1, 0}} {
		i, j := ij[0], ij[1]
		deposited, err := ratio.FromRatio(deposits[i], deposits[j])
		if err != nil {
			return errorsmod.Wrap(err, "deposit price")
		}
		pooled, err := ratio.FromRatio(pools[i], pools[j])
		if err != nil {
			return errorsmod.Wrap(err, "pool price")
		}
		bound, err := ratio.Mul(deposited, keep)
		if err != nil {
			return err
		}
		if bound.GT(pooled) {
			return types.ErrSlippageExceeded.Wrapf("deposit price %s moved beyond tolerance %s of pool price %s", deposited, tolerance, pooled)
		}
	}
	return nil
}
