package keeper_test

import (
	"math/big"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/paw-chain/pawswap/pkg/wide"
	"github.com/paw-chain/pawswap/x/pair/keeper"
	"github.com/paw-chain/pawswap/x/pair/types"
)

var defaultFee = types.NewFee(3, 1000)

func TestComputeSwap(t *testing.T) {
	tests := []struct {
		name       string
		offerPool  uint64
		askPool    uint64
		offer      uint64
		fee        types.Fee
		ret        string
		spread     string
		commission string
	}{
		{"balanced pool", 1000, 1000, 100, defaultFee, "90", "9", "1"},
		{"no fee", 1000, 1000, 100, types.NewFee(0, 1), "91", "9", "0"},
		{"deep pool", 1_000_000, 1_000_000, 1000, defaultFee, "997", "0", "3"},
		{"skewed pool", 100, 400, 100, defaultFee, "199", "200", "1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := keeper.ComputeSwap(math.NewUint(tc.offerPool), math.NewUint(tc.askPool), math.NewUint(tc.offer), tc.fee)
			require.NoError(t, err)
			require.Equal(t, tc.ret, res.ReturnAmount.String())
			require.Equal(t, tc.spread, res.SpreadAmount.String())
			require.Equal(t, tc.commission, res.CommissionAmount.String())
		})
	}
}

func TestComputeSwapSplitsTheIdealReturn(t *testing.T) {
	res, err := keeper.ComputeSwap(math.NewUint(1000), math.NewUint(1000), math.NewUint(100), defaultFee)
	require.NoError(t, err)
	total := res.ReturnAmount.Add(res.SpreadAmount).Add(res.CommissionAmount)
	require.Equal(t, "100", total.String())
}

func TestComputeSwapErrors(t *testing.T) {
	_, err := keeper.ComputeSwap(math.ZeroUint(), math.NewUint(1000), math.NewUint(100), defaultFee)
	require.ErrorIs(t, err, wide.ErrDivideByZero)

	_, err = keeper.ComputeSwap(math.NewUint(1000), math.NewUint(1000), math.NewUint(100), types.NewFee(5, 0))
	require.ErrorIs(t, err, types.ErrInvalidFee)

	_, err = keeper.ComputeSwap(math.NewUint(1000), math.NewUint(1000), math.NewUint(100), types.NewFee(10, 10))
	require.ErrorIs(t, err, types.ErrInvalidFee)
}

func TestComputeOfferAmount(t *testing.T) {
	res, err := keeper.ComputeOfferAmount(math.NewUint(1000), math.NewUint(1000), math.NewUint(90), defaultFee)
	require.NoError(t, err)
	require.Equal(t, "99", res.OfferAmount.String())
	require.Equal(t, "8", res.SpreadAmount.String())
	require.Equal(t, "1", res.CommissionAmount.String())

	_, err = keeper.ComputeOfferAmount(math.NewUint(1000), math.NewUint(1000), math.NewUint(998), defaultFee)
	require.ErrorIs(t, err, types.ErrInvariantViolation)

	_, err = keeper.ComputeOfferAmount(math.NewUint(1000), math.NewUint(1000), math.ZeroUint(), defaultFee)
	require.ErrorIs(t, err, types.ErrZeroAmount)
}

func TestShares(t *testing.T) {
	share, err := keeper.ComputeInitialShares(math.NewUint(100), math.NewUint(400))
	require.NoError(t, err)
	require.Equal(t, "200", share.String())

	share, err = keeper.ComputeAdditionalShares(math.NewUint(10), math.NewUint(80), math.NewUint(100), math.NewUint(400), math.NewUint(200))
	require.NoError(t, err)
	require.Equal(t, "20", share.String())

	out, err := keeper.ComputeWithdrawal(math.NewUint(400), math.NewUint(50), math.NewUint(200))
	require.NoError(t, err)
	require.Equal(t, "100", out.String())

	_, err = keeper.ComputeWithdrawal(math.NewUint(400), math.NewUint(201), math.NewUint(200))
	require.ErrorIs(t, err, types.ErrInvariantViolation)
}

func TestSwapNeverBeatsPoolPriceProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		offerPool := rapid.Uint64Range(1, 1<<62).Draw(t, "offerPool")
		askPool := rapid.Uint64Range(1, 1<<62).Draw(t, "askPool")
		offer := rapid.Uint64Range(1, offerPool).Draw(t, "offer")
		nom := rapid.Uint64Range(0, 999).Draw(t, "nom")

		res, err := keeper.ComputeSwap(math.NewUint(offerPool), math.NewUint(askPool), math.NewUint(offer), types.NewFee(nom, 1000))
		if err != nil {
			return
		}
		ideal, err := wide.MulDiv(wide.NewInt(offer), wide.NewInt(askPool), wide.NewInt(offerPool))
		require.NoError(t, err)
		paid := wide.Widen(res.ReturnAmount.Add(res.CommissionAmount))
		require.False(t, ideal.Lt(paid), "paid %s above ideal %s", paid.Dec(), ideal.Dec())
	})
}

func TestReverseSimulationRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		pool := rapid.Uint64Range(1000, 1_000_000_000_000).Draw(t, "pool")
		ask := rapid.Uint64Range(1, pool/2).Draw(t, "ask")
		p := math.NewUint(pool)

		rev, err := keeper.ComputeOfferAmount(p, p, math.NewUint(ask), defaultFee)
		require.NoError(t, err)

		res, err := keeper.ComputeSwap(p, p, rev.OfferAmount, defaultFee)
		require.NoError(t, err)
		got := res.ReturnAmount.Uint64()
		require.True(t, got == ask || got == ask+1, "offer %s returned %d for ask %d", rev.OfferAmount, got, ask)

		if rev.OfferAmount.GT(math.OneUint()) {
			less, err := keeper.ComputeSwap(p, p, rev.OfferAmount.Sub(math.OneUint()), defaultFee)
			require.NoError(t, err)
			require.True(t, less.ReturnAmount.LT(math.NewUint(ask)), "offer is not minimal")
		}
	})
}

func TestReverseSimulationSkewedPoolsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		offerPool := rapid.Uint64Range(1, 1_000_000_000_000).Draw(t, "offerPool")
		askPool := rapid.Uint64Range(1000, 1_000_000_000_000).Draw(t, "askPool")
		// Asks above sqrt(askPool) keep the forward spread non-negative for
		// the solved offer and the one below it.
		minAsk := wide.Sqrt(wide.NewInt(askPool)).Uint64() + 2
		ask := rapid.Uint64Range(minAsk, askPool/2).Draw(t, "ask")
		op, ap := math.NewUint(offerPool), math.NewUint(askPool)

		rev, err := keeper.ComputeOfferAmount(op, ap, math.NewUint(ask), defaultFee)
		require.NoError(t, err)

		res, err := keeper.ComputeSwap(op, ap, rev.OfferAmount, defaultFee)
		require.NoError(t, err)
		require.True(t, res.ReturnAmount.GTE(math.NewUint(ask)), "offer %s returned %s for ask %d", rev.OfferAmount, res.ReturnAmount, ask)

		if rev.OfferAmount.GT(math.OneUint()) {
			less, err := keeper.ComputeSwap(op, ap, rev.OfferAmount.Sub(math.OneUint()), defaultFee)
			require.NoError(t, err)
			require.True(t, less.ReturnAmount.LT(math.NewUint(ask)), "offer %s is not minimal for ask %d", rev.OfferAmount, ask)
		}
	})
}

func TestEngineRejectsAmountsWiderThan128Bits(t *testing.T) {
	pow := func(bits uint) math.Uint {
		return math.NewUintFromBigInt(new(big.Int).Lsh(big.NewInt(1), bits))
	}

	tests := []struct {
		name string
		run  func() error
	}{
		{"swap ask pool", func() error {
			_, err := keeper.ComputeSwap(pow(100), pow(130), pow(99), types.NewFee(0, 1000))
			return err
		}},
		{"swap offer", func() error {
			_, err := keeper.ComputeSwap(math.NewUint(1000), math.NewUint(1000), pow(129), defaultFee)
			return err
		}},
		{"reverse swap offer pool", func() error {
			_, err := keeper.ComputeOfferAmount(pow(200), math.NewUint(1000), math.NewUint(10), defaultFee)
			return err
		}},
		{"initial shares", func() error {
			_, err := keeper.ComputeInitialShares(pow(128), math.NewUint(1))
			return err
		}},
		{"additional shares", func() error {
			_, err := keeper.ComputeAdditionalShares(math.NewUint(1), math.NewUint(1), pow(140), math.NewUint(1), math.NewUint(1))
			return err
		}},
		{"withdrawal", func() error {
			_, err := keeper.ComputeWithdrawal(pow(200), math.OneUint(), math.OneUint())
			return err
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() { err = tc.run() })
			require.ErrorIs(t, err, wide.ErrOverflow)
		})
	}

	out, err := keeper.ComputeWithdrawal(wide.MaxAmount, math.OneUint(), math.OneUint())
	require.NoError(t, err)
	require.Equal(t, wide.MaxAmount.String(), out.String())
}
