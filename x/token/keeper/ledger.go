package keeper

import (
	"cosmossdk.io/math"

	"github.com/paw-chain/pawswap/pkg/wide"
	"github.com/paw-chain/pawswap/x/shared/contract"
	"github.com/paw-chain/pawswap/x/token/types"
)

var (
	tokenInfo  = contract.NewItem[types.TokenInfo](types.TokenInfoKey)
	minter     = contract.NewItem[string](types.MinterKey)
	balances   = contract.NewMap[math.Uint](types.BalancePrefix)
	allowances = contract.NewMap[math.Uint](types.AllowancePrefix)
	receivers  = contract.NewMap[string](types.ReceiverPrefix)
)

func zero() math.Uint {
	return math.ZeroUint()
}

// addAmounts adds two token amounts, failing past 128 bits.
func addAmounts(a, b math.Uint) (math.Uint, error) {
	s, err := wide.Add(wide.Widen(a), wide.Widen(b))
	if err != nil {
		return zero(), err
	}
	return wide.TryNarrow(s)
}

// GetBalance returns the balance of address, zero if it never held tokens.
func (k Keeper) GetBalance(ctx contract.Context, address string) (math.Uint, error) {
	bal, found, err := balances.MayLoad(ctx.Store, []byte(address))
	if err != nil {
		return zero(), err
	}
	if !found {
		return zero(), nil
	}
	return bal, nil
}

func (k Keeper) setBalance(ctx contract.Context, address string, amount math.Uint) error {
	if amount.IsZero() {
		balances.Remove(ctx.Store, []byte(address))
		return nil
	}
	return balances.Save(ctx.Store, []byte(address), amount)
}

func (k Keeper) credit(ctx contract.Context, address string, amount math.Uint) error {
	bal, err := k.GetBalance(ctx, address)
	if err != nil {
		return err
	}
	bal, err = addAmounts(bal, amount)
	if err != nil {
		return err
	}
	return k.setBalance(ctx, address, bal)
}

func (k Keeper) debit(ctx contract.Context, address string, amount math.Uint) error {
	bal, err := k.GetBalance(ctx, address)
	if err != nil {
		return err
	}
	if bal.LT(amount) {
		return types.ErrInsufficientBalance.Wrapf("%s has %s, needs %s", address, bal, amount)
	}
	return k.setBalance(ctx, address, bal.Sub(amount))
}

func (k Keeper) move(ctx contract.Context, from, to string, amount math.Uint) error {
	if err := k.debit(ctx, from, amount); err != nil {
		return err
	}
	return k.credit(ctx, to, amount)
}

// GetAllowance returns how much spender may still move from owner.
func (k Keeper) GetAllowance(ctx contract.Context, owner, spender string) (math.Uint, error) {
	a, found, err := allowances.MayLoad(ctx.Store, types.AllowanceKey(owner, spender))
	if err != nil {
		return zero(), err
	}
	if !found {
		return zero(), nil
	}
	return a, nil
}

func (k Keeper) setAllowance(ctx contract.Context, owner, spender string, amount math.Uint) error {
	key := types.AllowanceKey(owner, spender)
	if amount.IsZero() {
		allowances.Remove(ctx.Store, key)
		return nil
	}
	return allowances.Save(ctx.Store, key, amount)
}

func (k Keeper) spendAllowance(ctx contract.Context, owner, spender string, amount math.Uint) error {
	allowance, err := k.GetAllowance(ctx, owner, spender)
	if err != nil {
		return err
	}
	if allowance.LT(amount) {
		return types.ErrInsufficientAllowance.Wrapf("%s may spend %s of %s, needs %s", spender, allowance, owner, amount)
	}
	return k.setAllowance(ctx, owner, spender, allowance.Sub(amount))
}
