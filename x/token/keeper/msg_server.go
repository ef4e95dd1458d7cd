package keeper

import (
	"encoding/json"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawswap/x/shared/contract"
	"github.com/paw-chain/pawswap/x/token/types"
)

type receiveHook struct {
	Receive contract.ReceiveMsg `json:"receive"`
}

func transferEvent(from, to string, amount math.Uint, extra ...sdk.Attribute) sdk.Event {
	attrs := append([]sdk.Attribute{
		sdk.NewAttribute(types.AttributeKeyFrom, from),
		sdk.NewAttribute(types.AttributeKeyTo, to),
		sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
	}, extra...)
	return sdk.NewEvent(types.EventTypeTransfer, attrs...)
}

// Transfer moves tokens from the sender to the recipient.
func (k Keeper) Transfer(ctx contract.Context, msg types.TransferMsg) (*contract.Response, error) {
	if err := contract.RequireAmount("amount", msg.Amount); err != nil {
		return nil, err
	}
	if err := k.move(ctx, ctx.Env.Sender, msg.Recipient, msg.Amount); err != nil {
		return nil, err
	}
	return contract.NewResponse().AddEvent(transferEvent(ctx.Env.Sender, msg.Recipient, msg.Amount)), nil
}

// Send moves tokens from the sender and notifies the recipient.
func (k Keeper) Send(ctx contract.Context, msg types.SendMsg) (*contract.Response, error) {
	return k.send(ctx, ctx.Env.Sender, msg.Recipient, msg.RecipientCodeHash, msg.Amount, msg.Msg)
}

// TransferFrom moves tokens on behalf of owner using the sender's allowance.
func (k Keeper) TransferFrom(ctx contract.Context, msg types.TransferFromMsg) (*contract.Response, error) {
	if err := contract.RequireAmount("amount", msg.Amount); err != nil {
		return nil, err
	}
	if err := k.spendAllowance(ctx, msg.Owner, ctx.Env.Sender, msg.Amount); err != nil {
		return nil, err
	}
	if err := k.move(ctx, msg.Owner, msg.Recipient, msg.Amount); err != nil {
		return nil, err
	}
	return contract.NewResponse().AddEvent(transferEvent(msg.Owner, msg.Recipient, msg.Amount)), nil
}

// SendFrom is Send on behalf of owner using the sender's allowance.
func (k Keeper) SendFrom(ctx contract.Context, msg types.SendFromMsg) (*contract.Response, error) {
	if err := contract.RequireAmount("amount", msg.Amount); err != nil {
		return nil, err
	}
	if err := k.spendAllowance(ctx, msg.Owner, ctx.Env.Sender, msg.Amount); err != nil {
		return nil, err
	}
	return k.send(ctx, msg.Owner, msg.Recipient, msg.RecipientCodeHash, msg.Amount, msg.Msg)
}

func (k Keeper) send(ctx contract.Context, owner, recipient, codeHash string, amount math.Uint, payload json.RawMessage) (*contract.Response, error) {
	if err := contract.RequireAmount("amount", amount); err != nil {
		return nil, err
	}
	if err := k.move(ctx, owner, recipient, amount); err != nil {
		return nil, err
	}

	registered, found, err := receivers.MayLoad(ctx.Store, []byte(recipient))
	if err != nil {
		return nil, err
	}
	if codeHash == "" {
		codeHash = registered
	}
	if !found && codeHash == "" {
		return contract.NewResponse().AddEvent(transferEvent(owner, recipient, amount)), nil
	}

	hook := receiveHook{Receive: contract.ReceiveMsg{
		Sender: ctx.Env.Sender,
		From:   owner,
		Amount: amount,
		Msg:    payload,
	}}
	callback, err := contract.NewExecuteMsg(contract.Callable{Address: recipient, CodeHash: codeHash}, hook, nil)
	if err != nil {
		return nil, err
	}

	ev := transferEvent(owner, recipient, amount, sdk.NewAttribute(types.AttributeKeyCallback, "true"))
	return contract.NewResponse().AddEvent(ev).AddMessages(callback), nil
}

// IncreaseAllowance raises what spender may move from the sender.
func (k Keeper) IncreaseAllowance(ctx contract.Context, msg types.AllowanceMsg) (*contract.Response, error) {
	if err := contract.RequireAmount("amount", msg.Amount); err != nil {
		return nil, err
	}
	current, err := k.GetAllowance(ctx, ctx.Env.Sender, msg.Spender)
	if err != nil {
		return nil, err
	}
	updated, err := addAmounts(current, msg.Amount)
	if err != nil {
		return nil, err
	}
	if err := k.setAllowance(ctx, ctx.Env.Sender, msg.Spender, updated); err != nil {
		return nil, err
	}
	return contract.NewResponse().AddEvent(allowanceEvent(ctx.Env.Sender, msg.Spender, updated)), nil
}

// DecreaseAllowance lowers what spender may move from the sender, stopping at
// zero.
func (k Keeper) DecreaseAllowance(ctx contract.Context, msg types.AllowanceMsg) (*contract.Response, error) {
	if err := contract.RequireAmount("amount", msg.Amount); err != nil {
		return nil, err
	}
	current, err := k.GetAllowance(ctx, ctx.Env.Sender, msg.Spender)
	if err != nil {
		return nil, err
	}
	updated := zero()
	if current.GT(msg.Amount) {
		updated = current.Sub(msg.Amount)
	}
	if err := k.setAllowance(ctx, ctx.Env.Sender, msg.Spender, updated); err != nil {
		return nil, err
	}
	return contract.NewResponse().AddEvent(allowanceEvent(ctx.Env.Sender, msg.Spender, updated)), nil
}

func allowanceEvent(owner, spender string, allowance math.Uint) sdk.Event {
	return sdk.NewEvent(types.EventTypeAllowance,
		sdk.NewAttribute(types.AttributeKeyOwner, owner),
		sdk.NewAttribute(types.AttributeKeySpender, spender),
		sdk.NewAttribute(types.AttributeKeyAllowance, allowance.String()),
	)
}

// Mint creates tokens. Only the minter may call it.
func (k Keeper) Mint(ctx contract.Context, msg types.MintMsg) (*contract.Response, error) {
	if err := contract.RequireAmount("amount", msg.Amount); err != nil {
		return nil, err
	}
	m, found, err := minter.MayLoad(ctx.Store)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, types.ErrMintingDisabled
	}
	if err := contract.ValidateOwner(m, ctx.Env.Sender); err != nil {
		return nil, err
	}

	info, err := tokenInfo.Load(ctx.Store)
	if err != nil {
		return nil, err
	}
	if info.TotalSupply, err = addAmounts(info.TotalSupply, msg.Amount); err != nil {
		return nil, err
	}
	if err := k.credit(ctx, msg.Recipient, msg.Amount); err != nil {
		return nil, err
	}
	if err := tokenInfo.Save(ctx.Store, info); err != nil {
		return nil, err
	}

	return contract.NewResponse().AddEvent(sdk.NewEvent(types.EventTypeMint,
		sdk.NewAttribute(types.AttributeKeyTo, msg.Recipient),
		sdk.NewAttribute(types.AttributeKeyAmount, msg.Amount.String()),
	)), nil
}

// Burn destroys the sender's tokens.
func (k Keeper) Burn(ctx contract.Context, msg types.BurnMsg) (*contract.Response, error) {
	return k.burn(ctx, ctx.Env.Sender, msg.Amount)
}

// BurnFrom destroys owner's tokens using the sender's allowance.
func (k Keeper) BurnFrom(ctx contract.Context, msg types.BurnFromMsg) (*contract.Response, error) {
	if err := contract.RequireAmount("amount", msg.Amount); err != nil {
		return nil, err
	}
	if err := k.spendAllowance(ctx, msg.Owner, ctx.Env.Sender, msg.Amount); err != nil {
		return nil, err
	}
	return k.burn(ctx, msg.Owner, msg.Amount)
}

func (k Keeper) burn(ctx contract.Context, owner string, amount math.Uint) (*contract.Response, error) {
	if err := contract.RequireAmount("amount", amount); err != nil {
		return nil, err
	}
	if err := k.debit(ctx, owner, amount); err != nil {
		return nil, err
	}
	info, err := tokenInfo.Load(ctx.Store)
	if err != nil {
		return nil, err
	}
	info.TotalSupply = info.TotalSupply.Sub(amount)
	if err := tokenInfo.Save(ctx.Store, info); err != nil {
		return nil, err
	}

	return contract.NewResponse().AddEvent(sdk.NewEvent(types.EventTypeBurn,
		sdk.NewAttribute(types.AttributeKeyFrom, owner),
		sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
	)), nil
}

// RegisterReceive makes sends to the sender call its Receive hook.
func (k Keeper) RegisterReceive(ctx contract.Context, msg types.RegisterReceiveMsg) (*contract.Response, error) {
	if err := receivers.Save(ctx.Store, []byte(ctx.Env.Sender), msg.CodeHash); err != nil {
		return nil, err
	}
	return contract.NewResponse().AddEvent(sdk.NewEvent(types.EventTypeRegisterReceive,
		sdk.NewAttribute(types.AttributeKeySender, ctx.Env.Sender),
		sdk.NewAttribute(types.AttributeKeyCodeHash, msg.CodeHash),
	)), nil
}
