package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawswap/x/router/types"
	"github.com/paw-chain/pawswap/x/shared/contract"
	tokentypes "github.com/paw-chain/pawswap/x/token/types"
)

// RegisterTokens adds tokens the router accepts route outputs in and asks
// each new one to call back on transfers.
func (k Keeper) RegisterTokens(ctx contract.Context, msg types.RegisterTokensMsg) (*contract.Response, error) {
	known, err := tokens.Load(ctx.Store)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(known))
	for _, t := range known {
		seen[t.Address] = true
	}

	self := ctx.Self()
	resp := contract.NewResponse()
	for _, token := range msg.Tokens {
		if token.Address == "" {
			return nil, contract.ErrInvalidRequest.Wrap("token without address")
		}
		if seen[token.Address] {
			continue
		}
		seen[token.Address] = true
		known = append(known, token)

		register, err := tokentypes.NewRegisterReceive(token, self.CodeHash)
		if err != nil {
			return nil, err
		}
		resp.AddMessages(register)
	}
	if err := tokens.Save(ctx.Store, known); err != nil {
		return nil, err
	}
	return resp, nil
}

// RecoverFunds lets the owner move assets left in the router.
func (k Keeper) RecoverFunds(ctx contract.Context, msg types.RecoverFundsMsg) (*contract.Response, error) {
	if err := k.validateOwner(ctx); err != nil {
		return nil, err
	}
	if err := msg.Token.Validate(); err != nil {
		return nil, err
	}
	if err := contract.RequireAmount("amount", msg.Amount); err != nil {
		return nil, err
	}
	if msg.To == "" {
		return nil, contract.ErrInvalidRequest.Wrap("empty recipient")
	}

	var out contract.Msg
	if msg.Token.IsNative() {
		out = contract.NewBankMsg(msg.To, sdk.NewCoins(sdk.NewCoin(msg.Token.NativeToken.Denom, math.NewIntFromBigInt(msg.Amount.BigInt()))))
	} else {
		var err error
		if out, err = tokentypes.NewTransfer(*msg.Token.Token, msg.To, msg.Amount); err != nil {
			return nil, err
		}
	}

	k.logger.Info("funds recovered", "asset", msg.Token.String(), "amount", msg.Amount.String(), "to", msg.To)
	return contract.NewResponse().
		AddMessages(out).
		AddEvent(sdk.NewEvent(types.EventTypeRecoverFunds,
			sdk.NewAttribute(types.AttributeKeyAmount, msg.Amount.String()+msg.Token.String()),
			sdk.NewAttribute(types.AttributeKeyTo, msg.To),
		)), nil
}

// UpdateSettings lets the owner hand over ownership or change the cashback
// token.
func (k Keeper) UpdateSettings(ctx contract.Context, msg types.UpdateSettingsMsg) (*contract.Response, error) {
	if err := k.validateOwner(ctx); err != nil {
		return nil, err
	}
	if msg.NewOwner != nil {
		if *msg.NewOwner == "" {
			return nil, contract.ErrInvalidRequest.Wrap("empty owner")
		}
		if err := owner.Save(ctx.Store, *msg.NewOwner); err != nil {
			return nil, err
		}
	}
	if msg.NewCashback != nil {
		if err := cashback.Save(ctx.Store, *msg.NewCashback); err != nil {
			return nil, err
		}
	}
	return contract.NewResponse(), nil
}

func (k Keeper) validateOwner(ctx contract.Context) error {
	admin, err := owner.Load(ctx.Store)
	if err != nil {
		return err
	}
	return contract.ValidateOwner(admin, ctx.Env.Sender)
}
