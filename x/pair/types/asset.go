package types

import (
	"bytes"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawswap/pkg/wide"
	"github.com/paw-chain/pawswap/x/shared/contract"
	tokentypes "github.com/paw-chain/pawswap/x/token/types"
)

// NativeToken is a coin held by the bank.
type NativeToken struct {
	Denom string `json:"denom"`
}

// AssetInfo identifies one side of a pair: a native denom or a token ledger
// contract. Exactly one field is set.
type AssetInfo struct {
	Token       *contract.Callable `json:"token,omitempty"`
	NativeToken *NativeToken       `json:"native_token,omitempty"`
}

// NativeAsset returns the info of a native denom.
func NativeAsset(denom string) AssetInfo {
	return AssetInfo{NativeToken: &NativeToken{Denom: denom}}
}

// TokenAsset returns the info of a token ledger instance.
func TokenAsset(token contract.Callable) AssetInfo {
	return AssetInfo{Token: &token}
}

// IsNative reports whether the asset is a bank coin.
func (a AssetInfo) IsNative() bool {
	return a.NativeToken != nil
}

// Validate checks that exactly one identity is set.
func (a AssetInfo) Validate() error {
	switch {
	case a.Token != nil && a.NativeToken != nil:
		return ErrInvalidAssets.Wrap("asset is both native and token")
	case a.Token != nil:
		if a.Token.Address == "" {
			return ErrInvalidAssets.Wrap("token without address")
		}
	case a.NativeToken != nil:
		if err := sdk.ValidateDenom(a.NativeToken.Denom); err != nil {
			return ErrInvalidAssets.Wrap(err.Error())
		}
	default:
		return ErrInvalidAssets.Wrap("empty asset info")
	}
	return nil
}

// Equal compares identities. Token code hashes are not part of the identity.
func (a AssetInfo) Equal(b AssetInfo) bool {
	switch {
	case a.Token != nil && b.Token != nil:
		return a.Token.Address == b.Token.Address
	case a.NativeToken != nil && b.NativeToken != nil:
		return a.NativeToken.Denom == b.NativeToken.Denom
	default:
		return false
	}
}

// Key returns the bytes identifying the asset in registry keys.
func (a AssetInfo) Key() []byte {
	if a.Token != nil {
		return []byte(a.Token.Address)
	}
	if a.NativeToken != nil {
		return []byte(a.NativeToken.Denom)
	}
	return nil
}

func (a AssetInfo) String() string {
	return string(a.Key())
}

// PairKey returns the registry key of two assets, independent of their
// order.
func PairKey(infos [2]AssetInfo) []byte {
	a, b := infos[0].Key(), infos[1].Key()
	if bytes.Compare(a, b) > 0 {
		a, b = b, a
	}
	key := make([]byte, 0, len(a)+len(b)+1)
	key = append(key, a...)
	key = append(key, 0x00)
	return append(key, b...)
}

// QueryPool returns how much of this asset address holds. Balances that do
// not fit a 128-bit amount are rejected.
func (a AssetInfo) QueryPool(q contract.Querier, address string) (math.Uint, error) {
	var (
		pool math.Uint
		err  error
	)
	if a.IsNative() {
		var bal math.Int
		if bal, err = q.QueryBalance(address, a.NativeToken.Denom); err != nil {
			return math.ZeroUint(), err
		}
		if bal.IsNegative() {
			return math.ZeroUint(), ErrInvariantViolation.Wrapf("negative %s balance of %s", a, address)
		}
		if bal.BigInt().BitLen() > wide.AmountBits {
			return math.ZeroUint(), wide.ErrOverflow.Wrapf("%s pool of %s is %s", a, address, bal)
		}
		pool = math.NewUintFromBigInt(bal.BigInt())
	} else if pool, err = tokentypes.QueryBalance(q, *a.Token, address); err != nil {
		return math.ZeroUint(), err
	}
	if err := wide.CheckAmount(pool); err != nil {
		return math.ZeroUint(), err
	}
	return pool, nil
}

// Asset is an amount of an asset.
type Asset struct {
	Info   AssetInfo `json:"info"`
	Amount math.Uint `json:"amount"`
}

// NewAsset returns amount of info.
func NewAsset(info AssetInfo, amount math.Uint) Asset {
	return Asset{Info: info, Amount: amount}
}

// Validate checks the identity and that the amount is set and fits 128 bits.
func (a Asset) Validate() error {
	if err := a.Info.Validate(); err != nil {
		return err
	}
	if err := contract.RequireAmount("asset amount", a.Amount); err != nil {
		return err
	}
	return wide.CheckAmount(a.Amount)
}

func (a Asset) String() string {
	return fmt.Sprintf("%s%s", a.Amount, a.Info)
}

// Coin converts a native asset into a bank coin.
func (a Asset) Coin() sdk.Coin {
	return sdk.NewCoin(a.Info.NativeToken.Denom, math.NewIntFromBigInt(a.Amount.BigInt()))
}

// Coins is Coin as a coin set, empty for a zero amount.
func (a Asset) Coins() sdk.Coins {
	return sdk.NewCoins(a.Coin())
}

// SentAmount returns how much of this native asset arrived with the call.
func (a AssetInfo) SentAmount(funds sdk.Coins) math.Uint {
	if !a.IsNative() {
		return math.ZeroUint()
	}
	return math.NewUintFromBigInt(funds.AmountOf(a.NativeToken.Denom).BigInt())
}

// AssertSentNativeBalance checks that a native asset was attached to the
// call in exactly the declared amount.
func (a Asset) AssertSentNativeBalance(funds sdk.Coins) error {
	if !a.Info.IsNative() {
		return nil
	}
	sent := a.Info.SentAmount(funds)
	if !sent.Equal(a.Amount) {
		return ErrFundsMismatch.Wrapf("declared %s, sent %s%s", a, sent, a.Info)
	}
	return nil
}

// TransferMsg pays the asset from the emitting contract to recipient. Tokens
// go through Send so that a registered receiver is notified.
func (a Asset) TransferMsg(recipient string) (contract.Msg, error) {
	if a.Info.IsNative() {
		return contract.NewBankMsg(recipient, a.Coins()), nil
	}
	return tokentypes.NewSend(*a.Info.Token, contract.Callable{Address: recipient}, a.Amount, nil)
}
