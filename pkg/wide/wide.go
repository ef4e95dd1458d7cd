// Package wide provides checked 256-bit unsigned arithmetic for pool math.
//
// Pool balances are 128-bit amounts. Every product of two balances is taken
// in 256 bits and narrowed back only once the final result is known.
package wide

import (
	"fmt"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	"github.com/holiman/uint256"
)

// Codespace is the error codespace for wide arithmetic failures.
const Codespace = "wide"

var (
	ErrOverflow     = errors.Register(Codespace, 2, "arithmetic overflow")
	ErrUnderflow    = errors.Register(Codespace, 3, "arithmetic underflow")
	ErrDivideByZero = errors.Register(Codespace, 4, "division by zero")
)

// AmountBits is the width of a pool amount.
const AmountBits = 128

// MaxAmount is the largest 128-bit amount, 2^128-1.
var MaxAmount = math.NewUintFromBigInt(new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), AmountBits), uint256.NewInt(1)).ToBig())

// Int is a 256-bit unsigned integer.
type Int = uint256.Int

// NewInt returns a 256-bit integer holding v.
func NewInt(v uint64) *Int {
	return uint256.NewInt(v)
}

// Widen lifts an amount to 256 bits.
func Widen(a math.Uint) *Int {
	return uint256.MustFromBig(a.BigInt())
}

// Narrow returns x as a 128-bit amount. A value wider than 128 bits means an
// internal invariant was broken and panics.
func Narrow(x *Int) math.Uint {
	if x.BitLen() > AmountBits {
		panic(fmt.Sprintf("wide: narrowing %s loses bits", x.Dec()))
	}
	return math.NewUintFromBigInt(x.ToBig())
}

// TryNarrow is Narrow for values that may legitimately exceed 128 bits, such
// as user supplied amounts multiplied by a ratio.
func TryNarrow(x *Int) (math.Uint, error) {
	if x.BitLen() > AmountBits {
		return math.ZeroUint(), ErrOverflow.Wrapf("%s exceeds %d bits", x.Dec(), AmountBits)
	}
	return math.NewUintFromBigInt(x.ToBig()), nil
}

// CheckAmount rejects values that do not fit a 128-bit amount. An unset
// amount passes; callers that require one check that separately.
func CheckAmount(a math.Uint) error {
	if a.IsNil() {
		return nil
	}
	if a.BigInt().BitLen() > AmountBits {
		return ErrOverflow.Wrapf("amount %s exceeds %d bits", a, AmountBits)
	}
	return nil
}

// Mul returns a*b.
func Mul(a, b *Int) (*Int, error) {
	z, overflow := new(Int).MulOverflow(a, b)
	if overflow {
		return nil, ErrOverflow.Wrapf("%s * %s", a.Dec(), b.Dec())
	}
	return z, nil
}

// Div returns a/b rounded down.
func Div(a, b *Int) (*Int, error) {
	if b.IsZero() {
		return nil, ErrDivideByZero.Wrapf("%s / 0", a.Dec())
	}
	return new(Int).Div(a, b), nil
}

// CeilDiv returns a/b rounded up.
func CeilDiv(a, b *Int) (*Int, error) {
	q, err := Div(a, b)
	if err != nil {
		return nil, err
	}
	if !new(Int).Mod(a, b).IsZero() {
		q.AddUint64(q, 1)
	}
	return q, nil
}

// Add returns a+b.
func Add(a, b *Int) (*Int, error) {
	z, overflow := new(Int).AddOverflow(a, b)
	if overflow {
		return nil, ErrOverflow.Wrapf("%s + %s", a.Dec(), b.Dec())
	}
	return z, nil
}

// Sub returns a-b.
func Sub(a, b *Int) (*Int, error) {
	z, underflow := new(Int).SubOverflow(a, b)
	if underflow {
		return nil, ErrUnderflow.Wrapf("%s - %s", a.Dec(), b.Dec())
	}
	return z, nil
}

// MulDiv returns a*b/c rounded down.
func MulDiv(a, b, c *Int) (*Int, error) {
	p, err := Mul(a, b)
	if err != nil {
		return nil, err
	}
	return Div(p, c)
}

// MulDivCeil returns a*b/c rounded up.
func MulDivCeil(a, b, c *Int) (*Int, error) {
	p, err := Mul(a, b)
	if err != nil {
		return nil, err
	}
	return CeilDiv(p, c)
}

// Sqrt returns the integer square root of n using Newton's method seeded at
// n/2+1. It stops once the candidate no longer decreases.
func Sqrt(n *Int) *Int {
	if n.IsZero() {
		return new(Int)
	}
	if n.LtUint64(4) {
		return uint256.NewInt(1)
	}

	z := new(Int).Set(n)
	x := new(Int).Rsh(n, 1)
	x.AddUint64(x, 1)
	for x.Lt(z) {
		z.Set(x)
		// x = (n/x + x) / 2
		x.Div(n, z)
		x.Add(x, z)
		x.Rsh(x, 1)
	}
	return z
}

// SaturatingAdd adds two amounts, clamping the result at MaxAmount.
func SaturatingAdd(a, b math.Uint) math.Uint {
	z, overflow := new(Int).AddOverflow(Widen(a), Widen(b))
	if overflow || z.BitLen() > AmountBits {
		return MaxAmount
	}
	return Narrow(z)
}
