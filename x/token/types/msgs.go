package types

import (
	"encoding/json"

	"cosmossdk.io/math"

	"github.com/paw-chain/pawswap/x/shared/contract"
)

// InstantiateMsg creates a token.
type InstantiateMsg struct {
	Name            string             `json:"name"`
	Symbol          string             `json:"symbol"`
	Decimals        uint8              `json:"decimals"`
	InitialBalances []InitialBalance   `json:"initial_balances,omitempty"`
	Minter          string             `json:"minter,omitempty"`
	InitHook        *contract.InitHook `json:"init_hook,omitempty"`
}

// InitialBalance credits an account at instantiation.
type InitialBalance struct {
	Address string    `json:"address"`
	Amount  math.Uint `json:"amount"`
}

// ValidateBasic performs stateless checks.
func (m InstantiateMsg) ValidateBasic() error {
	if m.Name == "" || m.Symbol == "" {
		return ErrInvalidTokenInfo.Wrap("name and symbol are required")
	}
	for _, b := range m.InitialBalances {
		if b.Address == "" {
			return contract.ErrInvalidRequest.Wrap("initial balance without address")
		}
		if err := contract.RequireAmount("initial balance", b.Amount); err != nil {
			return err
		}
	}
	return nil
}

// ExecuteMsg is the set of token operations. Exactly one field is set.
type ExecuteMsg struct {
	Transfer          *TransferMsg        `json:"transfer,omitempty"`
	Send              *SendMsg            `json:"send,omitempty"`
	TransferFrom      *TransferFromMsg    `json:"transfer_from,omitempty"`
	SendFrom          *SendFromMsg        `json:"send_from,omitempty"`
	IncreaseAllowance *AllowanceMsg       `json:"increase_allowance,omitempty"`
	DecreaseAllowance *AllowanceMsg       `json:"decrease_allowance,omitempty"`
	Mint              *MintMsg            `json:"mint,omitempty"`
	Burn              *BurnMsg            `json:"burn,omitempty"`
	BurnFrom          *BurnFromMsg        `json:"burn_from,omitempty"`
	RegisterReceive   *RegisterReceiveMsg `json:"register_receive,omitempty"`
}

type TransferMsg struct {
	Recipient string    `json:"recipient"`
	Amount    math.Uint `json:"amount"`
}

// SendMsg transfers and then calls Receive on the recipient when it has
// registered a receiver or a code hash is given.
type SendMsg struct {
	Recipient         string          `json:"recipient"`
	RecipientCodeHash string          `json:"recipient_code_hash,omitempty"`
	Amount            math.Uint       `json:"amount"`
	Msg               json.RawMessage `json:"msg,omitempty"`
}

type TransferFromMsg struct {
	Owner     string    `json:"owner"`
	Recipient string    `json:"recipient"`
	Amount    math.Uint `json:"amount"`
}

type SendFromMsg struct {
	Owner             string          `json:"owner"`
	Recipient         string          `json:"recipient"`
	RecipientCodeHash string          `json:"recipient_code_hash,omitempty"`
	Amount            math.Uint       `json:"amount"`
	Msg               json.RawMessage `json:"msg,omitempty"`
}

type AllowanceMsg struct {
	Spender string    `json:"spender"`
	Amount  math.Uint `json:"amount"`
}

type MintMsg struct {
	Recipient string    `json:"recipient"`
	Amount    math.Uint `json:"amount"`
}

type BurnMsg struct {
	Amount math.Uint `json:"amount"`
}

type BurnFromMsg struct {
	Owner  string    `json:"owner"`
	Amount math.Uint `json:"amount"`
}

// RegisterReceiveMsg records the caller's code hash so that sends to it
// trigger a Receive callback.
type RegisterReceiveMsg struct {
	CodeHash string `json:"code_hash"`
}

// QueryMsg is the set of token queries.
type QueryMsg struct {
	Balance   *BalanceQuery   `json:"balance,omitempty"`
	TokenInfo *struct{}       `json:"token_info,omitempty"`
	Allowance *AllowanceQuery `json:"allowance,omitempty"`
}

type BalanceQuery struct {
	Address string `json:"address"`
}

type AllowanceQuery struct {
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
}

type BalanceResponse struct {
	Amount math.Uint `json:"amount"`
}

// TokenInfo is stored under TokenInfoKey and returned by the token_info
// query.
type TokenInfo struct {
	Name        string    `json:"name"`
	Symbol      string    `json:"symbol"`
	Decimals    uint8     `json:"decimals"`
	TotalSupply math.Uint `json:"total_supply"`
}

type AllowanceResponse struct {
	Owner     string    `json:"owner"`
	Spender   string    `json:"spender"`
	Allowance math.Uint `json:"allowance"`
}
