// Package ratio implements the 18-decimal fixed-point ratios used for fee
// rates, prices and slippage bounds.
//
// Values are math.LegacyDec so they serialize as decimal strings. All
// arithmetic here rounds down and works on the 256-bit atomics through
// package wide, which keeps products of 128-bit amounts and 10^18 exact.
package ratio

import (
	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	"github.com/holiman/uint256"

	"github.com/paw-chain/pawswap/pkg/wide"
)

const Codespace = "ratio"

var (
	ErrNegative = errors.Register(Codespace, 2, "negative ratio")
	ErrNil      = errors.Register(Codespace, 3, "ratio not set")
)

// Precision is the number of decimal places of a ratio.
const Precision = math.LegacyPrecision

var unit = wide.NewInt(1_000_000_000_000_000_000)

// Zero returns 0.
func Zero() math.LegacyDec { return math.LegacyZeroDec() }

// One returns 1.
func One() math.LegacyDec { return math.LegacyOneDec() }

// Validate rejects unset and negative ratios.
func Validate(d math.LegacyDec) error {
	if d.IsNil() {
		return ErrNil
	}
	if d.IsNegative() {
		return ErrNegative.Wrap(d.String())
	}
	return nil
}

func atomics(d math.LegacyDec) (*wide.Int, error) {
	if err := Validate(d); err != nil {
		return nil, err
	}
	x, overflow := uint256.FromBig(d.BigInt())
	if overflow {
		return nil, wide.ErrOverflow.Wrapf("ratio %s", d)
	}
	return x, nil
}

func fromAtomics(x *wide.Int) math.LegacyDec {
	return math.LegacyNewDecFromBigIntWithPrec(x.ToBig(), Precision)
}

// FromRatio returns num/den rounded down to 18 decimals.
func FromRatio(num, den math.Uint) (math.LegacyDec, error) {
	q, err := wide.MulDiv(wide.Widen(num), unit, wide.Widen(den))
	if err != nil {
		return math.LegacyDec{}, err
	}
	return fromAtomics(q), nil
}

// MustFromRatio is FromRatio for constant operands.
func MustFromRatio(num, den uint64) math.LegacyDec {
	d, err := FromRatio(math.NewUint(num), math.NewUint(den))
	if err != nil {
		panic(err)
	}
	return d
}

// MulUint returns floor(a * d).
func MulUint(a math.Uint, d math.LegacyDec) (math.Uint, error) {
	x, err := atomics(d)
	if err != nil {
		return math.ZeroUint(), err
	}
	p, err := wide.MulDiv(wide.Widen(a), x, unit)
	if err != nil {
		return math.ZeroUint(), err
	}
	return wide.TryNarrow(p)
}

// Mul returns floor(a * b).
func Mul(a, b math.LegacyDec) (math.LegacyDec, error) {
	x, err := atomics(a)
	if err != nil {
		return math.LegacyDec{}, err
	}
	y, err := atomics(b)
	if err != nil {
		return math.LegacyDec{}, err
	}
	p, err := wide.MulDiv(x, y, unit)
	if err != nil {
		return math.LegacyDec{}, err
	}
	return fromAtomics(p), nil
}

// Quo returns floor(a / b).
func Quo(a, b math.LegacyDec) (math.LegacyDec, error) {
	x, err := atomics(a)
	if err != nil {
		return math.LegacyDec{}, err
	}
	y, err := atomics(b)
	if err != nil {
		return math.LegacyDec{}, err
	}
	q, err := wide.MulDiv(x, unit, y)
	if err != nil {
		return math.LegacyDec{}, err
	}
	return fromAtomics(q), nil
}

// Add returns a + b.
func Add(a, b math.LegacyDec) (math.LegacyDec, error) {
	x, err := atomics(a)
	if err != nil {
		return math.LegacyDec{}, err
	}
	y, err := atomics(b)
	if err != nil {
		return math.LegacyDec{}, err
	}
	s, err := wide.Add(x, y)
	if err != nil {
		return math.LegacyDec{}, err
	}
	return fromAtomics(s), nil
}

// Sub returns a - b and fails instead of going negative.
func Sub(a, b math.LegacyDec) (math.LegacyDec, error) {
	x, err := atomics(a)
	if err != nil {
		return math.LegacyDec{}, err
	}
	y, err := atomics(b)
	if err != nil {
		return math.LegacyDec{}, err
	}
	s, err := wide.Sub(x, y)
	if err != nil {
		return math.LegacyDec{}, err
	}
	return fromAtomics(s), nil
}

// OneMinus returns 1 - d.
func OneMinus(d math.LegacyDec) (math.LegacyDec, error) {
	return Sub(One(), d)
}

// Reverse returns 1/d rounded down. The reverse of zero is zero.
func Reverse(d math.LegacyDec) (math.LegacyDec, error) {
	x, err := atomics(d)
	if err != nil {
		return math.LegacyDec{}, err
	}
	if x.IsZero() {
		return Zero(), nil
	}
	q, err := wide.MulDiv(unit, unit, x)
	if err != nil {
		return math.LegacyDec{}, err
	}
	return fromAtomics(q), nil
}
