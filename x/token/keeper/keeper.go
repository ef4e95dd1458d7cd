package keeper

import (
	"encoding/json"

	"cosmossdk.io/log"

	"github.com/paw-chain/pawswap/x/shared/contract"
	"github.com/paw-chain/pawswap/x/token/types"
)

// Keeper is the fungible token ledger contract. One instance holds one token.
type Keeper struct {
	logger log.Logger
}

var _ contract.Contract = Keeper{}

// NewKeeper creates the token ledger contract code.
func NewKeeper(logger log.Logger) Keeper {
	return Keeper{logger: logger.With("module", "x/"+types.ModuleName)}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger() log.Logger {
	return k.logger
}

// Instantiate creates the token, credits initial balances and fires the
// optional init hook.
func (k Keeper) Instantiate(ctx contract.Context, raw json.RawMessage) (*contract.Response, error) {
	var msg types.InstantiateMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, contract.ErrInvalidRequest.Wrapf("token instantiate: %s", err)
	}
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	info := types.TokenInfo{
		Name:        msg.Name,
		Symbol:      msg.Symbol,
		Decimals:    msg.Decimals,
		TotalSupply: zero(),
	}
	for _, b := range msg.InitialBalances {
		if err := k.credit(ctx, b.Address, b.Amount); err != nil {
			return nil, err
		}
		supply, err := addAmounts(info.TotalSupply, b.Amount)
		if err != nil {
			return nil, err
		}
		info.TotalSupply = supply
	}

	if err := tokenInfo.Save(ctx.Store, info); err != nil {
		return nil, err
	}
	if msg.Minter != "" {
		if err := minter.Save(ctx.Store, msg.Minter); err != nil {
			return nil, err
		}
	}

	k.logger.Debug("token instantiated", "address", ctx.Env.Contract.Address, "symbol", info.Symbol, "supply", info.TotalSupply.String())

	resp := contract.NewResponse()
	if msg.InitHook != nil {
		resp.AddMessages(msg.InitHook.ToMsg())
	}
	return resp, nil
}

// Execute runs one token operation.
func (k Keeper) Execute(ctx contract.Context, raw json.RawMessage) (*contract.Response, error) {
	var msg types.ExecuteMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, contract.ErrInvalidRequest.Wrapf("token execute: %s", err)
	}

	switch {
	case msg.Transfer != nil:
		return k.Transfer(ctx, *msg.Transfer)
	case msg.Send != nil:
		return k.Send(ctx, *msg.Send)
	case msg.TransferFrom != nil:
		return k.TransferFrom(ctx, *msg.TransferFrom)
	case msg.SendFrom != nil:
		return k.SendFrom(ctx, *msg.SendFrom)
	case msg.IncreaseAllowance != nil:
		return k.IncreaseAllowance(ctx, *msg.IncreaseAllowance)
	case msg.DecreaseAllowance != nil:
		return k.DecreaseAllowance(ctx, *msg.DecreaseAllowance)
	case msg.Mint != nil:
		return k.Mint(ctx, *msg.Mint)
	case msg.Burn != nil:
		return k.Burn(ctx, *msg.Burn)
	case msg.BurnFrom != nil:
		return k.BurnFrom(ctx, *msg.BurnFrom)
	case msg.RegisterReceive != nil:
		return k.RegisterReceive(ctx, *msg.RegisterReceive)
	default:
		return nil, contract.ErrUnknownMsg.Wrap("token execute")
	}
}

// Query answers balance, token_info and allowance queries.
func (k Keeper) Query(ctx contract.Context, raw json.RawMessage) ([]byte, error) {
	var msg types.QueryMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, contract.ErrInvalidRequest.Wrapf("token query: %s", err)
	}

	switch {
	case msg.Balance != nil:
		bal, err := k.GetBalance(ctx, msg.Balance.Address)
		if err != nil {
			return nil, err
		}
		return contract.QueryResult(types.BalanceResponse{Amount: bal})
	case msg.TokenInfo != nil:
		info, err := tokenInfo.Load(ctx.Store)
		if err != nil {
			return nil, err
		}
		return contract.QueryResult(info)
	case msg.Allowance != nil:
		allowance, err := k.GetAllowance(ctx, msg.Allowance.Owner, msg.Allowance.Spender)
		if err != nil {
			return nil, err
		}
		return contract.QueryResult(types.AllowanceResponse{
			Owner:     msg.Allowance.Owner,
			Spender:   msg.Allowance.Spender,
			Allowance: allowance,
		})
	default:
		return nil, contract.ErrUnknownMsg.Wrap("token query")
	}
}
