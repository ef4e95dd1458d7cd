package ratio_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/pawswap/pkg/ratio"
	"github.com/paw-chain/pawswap/pkg/wide"
)

func dec(s string) math.LegacyDec {
	return math.LegacyMustNewDecFromStr(s)
}

func TestFromRatio(t *testing.T) {
	tests := []struct {
		num, den uint64
		want     string
	}{
		{3, 1000, "0.003000000000000000"},
		{1, 3, "0.333333333333333333"},
		{2, 3, "0.666666666666666666"},
		{400, 100, "4.000000000000000000"},
		{0, 7, "0.000000000000000000"},
	}
	for _, tc := range tests {
		got, err := ratio.FromRatio(math.NewUint(tc.num), math.NewUint(tc.den))
		require.NoError(t, err)
		require.Equal(t, tc.want, got.String())
	}

	_, err := ratio.FromRatio(math.NewUint(1), math.ZeroUint())
	require.ErrorIs(t, err, wide.ErrDivideByZero)
}

func TestMulUintFloors(t *testing.T) {
	got, err := ratio.MulUint(math.NewUint(1000), dec("0.3333"))
	require.NoError(t, err)
	require.Equal(t, "333", got.String())

	got, err = ratio.MulUint(math.NewUint(91), ratio.MustFromRatio(3, 1000))
	require.NoError(t, err)
	require.Equal(t, "0", got.String())

	_, err = ratio.MulUint(wide.MaxAmount, dec("2"))
	require.ErrorIs(t, err, wide.ErrOverflow)

	_, err = ratio.MulUint(math.NewUint(1), dec("-1"))
	require.ErrorIs(t, err, ratio.ErrNegative)
}

func TestArithmetic(t *testing.T) {
	got, err := ratio.Mul(dec("0.5"), dec("0.5"))
	require.NoError(t, err)
	require.Equal(t, "0.250000000000000000", got.String())

	got, err = ratio.Quo(dec("1"), dec("3"))
	require.NoError(t, err)
	require.Equal(t, "0.333333333333333333", got.String())

	got, err = ratio.Add(dec("0.1"), dec("0.2"))
	require.NoError(t, err)
	require.Equal(t, "0.300000000000000000", got.String())

	got, err = ratio.OneMinus(dec("0.003"))
	require.NoError(t, err)
	require.Equal(t, "0.997000000000000000", got.String())

	_, err = ratio.Sub(dec("0.1"), dec("0.2"))
	require.ErrorIs(t, err, wide.ErrUnderflow)

	_, err = ratio.Quo(dec("1"), ratio.Zero())
	require.ErrorIs(t, err, wide.ErrDivideByZero)
}

func TestReverse(t *testing.T) {
	got, err := ratio.Reverse(dec("4"))
	require.NoError(t, err)
	require.Equal(t, "0.250000000000000000", got.String())

	got, err = ratio.Reverse(dec("0.997"))
	require.NoError(t, err)
	require.Equal(t, "1.003009027081243731", got.String())

	got, err = ratio.Reverse(ratio.Zero())
	require.NoError(t, err)
	require.True(t, got.IsZero())
}

func TestValidate(t *testing.T) {
	require.NoError(t, ratio.Validate(dec("0.01")))
	require.ErrorIs(t, ratio.Validate(math.LegacyDec{}), ratio.ErrNil)
	require.ErrorIs(t, ratio.Validate(dec("-0.01")), ratio.ErrNegative)
}
