package cmd

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	pairtypes "github.com/paw-chain/pawswap/x/pair/types"
)

// ParseFee reads a decimal fee such as "0.003" into the exact fraction
// 3/1000. "0.30" keeps its precision as 30/100.
func ParseFee(s string) (pairtypes.Fee, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return pairtypes.Fee{}, fmt.Errorf("invalid fee %q: %w", s, err)
	}
	if d.IsNegative() || d.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return pairtypes.Fee{}, fmt.Errorf("fee %s must be in [0, 1)", d)
	}

	nom := d.Coefficient()
	denom := big.NewInt(1)
	if exp := d.Exponent(); exp < 0 {
		denom.Exp(big.NewInt(10), big.NewInt(int64(-exp)), nil)
	} else {
		// Only zero has a non-negative exponent below one.
		nom.Mul(nom, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil))
	}
	if !nom.IsUint64() || !denom.IsUint64() {
		return pairtypes.Fee{}, fmt.Errorf("fee %s is too precise", d)
	}

	fee := pairtypes.NewFee(nom.Uint64(), denom.Uint64())
	return fee, fee.Validate()
}

// FormatFee renders fee as a decimal string.
func FormatFee(fee pairtypes.Fee) string {
	if fee.Denom == 0 {
		return "0"
	}
	return decimal.NewFromBigInt(new(big.Int).SetUint64(fee.Nom), 0).
		DivRound(decimal.NewFromBigInt(new(big.Int).SetUint64(fee.Denom), 0), 18).
		String()
}
