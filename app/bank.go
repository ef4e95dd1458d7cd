package app

import (
	"strings"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawswap/pkg/wide"
	"github.com/paw-chain/pawswap/x/shared/contract"
)

var balances = contract.NewMap[math.Int](BankPrefix)

func balanceOf(store storetypes.KVStore, address, denom string) (math.Int, error) {
	bal, found, err := balances.MayLoad(store, BankKey(address, denom))
	if err != nil {
		return math.ZeroInt(), err
	}
	if !found {
		return math.ZeroInt(), nil
	}
	return bal, nil
}

func setBalance(store storetypes.KVStore, address, denom string, amount math.Int) error {
	key := BankKey(address, denom)
	if amount.IsZero() {
		balances.Remove(store, key)
		return nil
	}
	return balances.Save(store, key, amount)
}

// mint credits coins to address. Balances are capped at 128 bits, the width
// of a pool amount.
func (a *App) mint(store storetypes.KVStore, address string, coins sdk.Coins) error {
	if err := coins.Validate(); err != nil {
		return contract.ErrInvalidRequest.Wrapf("coins: %s", err)
	}
	for _, c := range coins {
		bal, err := balanceOf(store, address, c.Denom)
		if err != nil {
			return err
		}
		bal = bal.Add(c.Amount)
		if bal.BigInt().BitLen() > wide.AmountBits {
			return wide.ErrOverflow.Wrapf("%s balance of %s would be %s", c.Denom, address, bal)
		}
		if err := setBalance(store, address, c.Denom, bal); err != nil {
			return err
		}
	}
	return nil
}

// send moves coins between accounts; contracts and users share one bank.
func (a *App) send(store storetypes.KVStore, from, to string, coins sdk.Coins) error {
	if coins.Empty() {
		return nil
	}
	if err := coins.Validate(); err != nil {
		return contract.ErrInvalidRequest.Wrapf("coins: %s", err)
	}
	if to == "" {
		return contract.ErrInvalidRequest.Wrap("empty recipient")
	}
	for _, c := range coins {
		bal, err := balanceOf(store, from, c.Denom)
		if err != nil {
			return err
		}
		if bal.LT(c.Amount) {
			return errorsmod.Wrapf(contract.ErrInsufficientFunds, "%s has %s%s, needs %s", from, bal, c.Denom, c)
		}
		if err := setBalance(store, from, c.Denom, bal.Sub(c.Amount)); err != nil {
			return err
		}
	}
	return a.mint(store, to, coins)
}

// Balance returns address's balance of denom.
func (a *App) Balance(address, denom string) (math.Int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return balanceOf(a.root, address, denom)
}

// Balances returns every native balance of address.
func (a *App) Balances(address string) (sdk.Coins, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	coins := sdk.NewCoins()
	start := []byte(address + "/")
	err := balances.Range(a.root, nil, 0, func(key []byte, amount math.Int) error {
		k := string(key)
		if !strings.HasPrefix(k, string(start)) {
			return nil
		}
		coins = coins.Add(sdk.NewCoin(strings.TrimPrefix(k, string(start)), amount))
		return nil
	})
	return coins, err
}
