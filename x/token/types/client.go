package types

import (
	"encoding/json"

	"cosmossdk.io/math"

	"github.com/paw-chain/pawswap/x/shared/contract"
)

// Helpers for contracts that hold or move tokens of a ledger instance.

// NewTransfer moves amount of the emitter's tokens to recipient.
func NewTransfer(token contract.Callable, recipient string, amount math.Uint) (contract.Msg, error) {
	return contract.NewExecuteMsg(token, ExecuteMsg{Transfer: &TransferMsg{Recipient: recipient, Amount: amount}}, nil)
}

// NewSend moves amount of the emitter's tokens to recipient and calls its
// Receive hook with msg, which may be nil.
func NewSend(token contract.Callable, recipient contract.Callable, amount math.Uint, msg any) (contract.Msg, error) {
	send := &SendMsg{Recipient: recipient.Address, RecipientCodeHash: recipient.CodeHash, Amount: amount}
	if msg != nil {
		bz, err := json.Marshal(msg)
		if err != nil {
			return contract.Msg{}, contract.ErrEncoding.Wrap(err.Error())
		}
		send.Msg = bz
	}
	return contract.NewExecuteMsg(token, ExecuteMsg{Send: send}, nil)
}

// NewTransferFrom pulls amount from owner using the emitter's allowance.
func NewTransferFrom(token contract.Callable, owner, recipient string, amount math.Uint) (contract.Msg, error) {
	return contract.NewExecuteMsg(token, ExecuteMsg{TransferFrom: &TransferFromMsg{Owner: owner, Recipient: recipient, Amount: amount}}, nil)
}

// NewMint mints amount to recipient. The emitter must be the minter.
func NewMint(token contract.Callable, recipient string, amount math.Uint) (contract.Msg, error) {
	return contract.NewExecuteMsg(token, ExecuteMsg{Mint: &MintMsg{Recipient: recipient, Amount: amount}}, nil)
}

// NewBurn burns amount of the emitter's tokens.
func NewBurn(token contract.Callable, amount math.Uint) (contract.Msg, error) {
	return contract.NewExecuteMsg(token, ExecuteMsg{Burn: &BurnMsg{Amount: amount}}, nil)
}

// NewRegisterReceive registers the emitter, running codeHash, as a receiver.
func NewRegisterReceive(token contract.Callable, codeHash string) (contract.Msg, error) {
	return contract.NewExecuteMsg(token, ExecuteMsg{RegisterReceive: &RegisterReceiveMsg{CodeHash: codeHash}}, nil)
}

// QueryBalance returns the token balance of address.
func QueryBalance(q contract.Querier, token contract.Callable, address string) (math.Uint, error) {
	res, err := contract.Query[BalanceResponse](q, token, QueryMsg{Balance: &BalanceQuery{Address: address}})
	if err != nil {
		return math.ZeroUint(), err
	}
	return res.Amount, nil
}

// QueryTokenInfo returns the token's metadata and total supply.
func QueryTokenInfo(q contract.Querier, token contract.Callable) (TokenInfo, error) {
	return contract.Query[TokenInfo](q, token, QueryMsg{TokenInfo: &struct{}{}})
}
