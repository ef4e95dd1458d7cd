package app

import (
	"context"
	"fmt"
	"slices"

	"cosmossdk.io/store/cachekv"
	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/paw-chain/pawswap/x/shared/contract"
)

// Events the environment adds around contract calls.
const (
	EventTypeInstantiate     = "instantiate"
	EventTypeExecute         = "execute"
	EventTypeTransfer        = "transfer"
	AttributeKeyContractAddr = "_contract_address"
	AttributeKeyCodeID       = "code_id"
	AttributeKeySender       = "sender"
	AttributeKeyRecipient    = "recipient"
	AttributeKeyAmount       = "amount"
)

// dispatch runs msg in its own branch of store. A failure discards the
// branch; a best-effort failure is absorbed. Every message gets a span
// nested under the span of the message that emitted it.
func (a *App) dispatch(ctx context.Context, store storetypes.KVStore, sender string, msg contract.Msg, depth int, res *Result) error {
	ctx, span := a.tracer.Start(ctx, "dispatch "+msg.Kind(), trace.WithAttributes(
		attribute.String(AttributeKeySender, sender),
		attribute.Int(AttributeKeyDepth, depth),
		attribute.Bool(AttributeKeyBestEffort, msg.BestEffort),
	))
	defer span.End()
	if msg.Execute != nil {
		span.SetAttributes(attribute.String(AttributeKeyContractAddr, msg.Execute.Contract.Address))
	}

	if depth > a.cfg.MaxDepth {
		err := ErrMaxDepth.Wrapf("depth %d", depth)
		recordSpanError(span, err)
		return err
	}
	if err := msg.ValidateBasic(); err != nil {
		recordSpanError(span, err)
		return err
	}
	a.metrics.Messages.WithLabelValues(msg.Kind()).Inc()
	a.metrics.DispatchDepth.Observe(float64(depth))

	branch := cachekv.NewStore(store)
	mark := len(res.Events)

	var err error
	switch {
	case msg.Bank != nil:
		err = a.bankSend(branch, sender, *msg.Bank, res)
	case msg.Execute != nil:
		err = a.execute(ctx, branch, sender, *msg.Execute, depth, res)
	case msg.Instantiate != nil:
		_, err = a.instantiate(ctx, branch, sender, *msg.Instantiate, depth, res)
	}
	if err != nil {
		recordSpanError(span, err)
		res.Events = res.Events[:mark]
		if !msg.BestEffort {
			return err
		}
		res.Events = append(res.Events, a.failures.Handle(fmt.Sprintf("%s from %s", msg.Kind(), sender), SeverityMedium, a.height, err))
		return nil
	}
	branch.Write()
	return nil
}

func (a *App) bankSend(store storetypes.KVStore, sender string, msg contract.BankMsg, res *Result) error {
	if err := a.send(store, sender, msg.ToAddress, msg.Amount); err != nil {
		return err
	}
	res.Events = append(res.Events, sdk.NewEvent(EventTypeTransfer,
		sdk.NewAttribute(AttributeKeySender, sender),
		sdk.NewAttribute(AttributeKeyRecipient, msg.ToAddress),
		sdk.NewAttribute(AttributeKeyAmount, msg.Amount.String()),
	))
	return nil
}

func (a *App) instantiate(ctx context.Context, store storetypes.KVStore, sender string, msg contract.InstantiateMsg, depth int, res *Result) (Instance, error) {
	code, err := a.code(msg.CodeID)
	if err != nil {
		return Instance{}, err
	}
	if msg.CodeHash != code.Hash {
		return Instance{}, ErrCodeHashMismatch.Wrapf("code %d is %s, instantiated with %q", code.ID, code.Hash, msg.CodeHash)
	}

	seq, _, err := instanceSeq.MayLoad(store)
	if err != nil {
		return Instance{}, err
	}
	seq++
	if err := instanceSeq.Save(store, seq); err != nil {
		return Instance{}, err
	}
	inst := Instance{
		Address:  contractAddress(code.ID, seq),
		CodeID:   code.ID,
		CodeHash: code.Hash,
		Label:    msg.Label,
		Creator:  sender,
	}
	if err := instances.Save(store, []byte(inst.Address), inst); err != nil {
		return Instance{}, err
	}
	if err := a.send(store, sender, inst.Address, msg.Funds); err != nil {
		return Instance{}, err
	}

	cctx := a.contractContext(store, inst, sender, msg.Funds, depth)
	resp, err := code.contract.Instantiate(cctx, msg.Msg)
	if err != nil {
		return Instance{}, err
	}
	a.metrics.Instances.Inc()

	res.Events = append(res.Events, sdk.NewEvent(EventTypeInstantiate,
		sdk.NewAttribute(AttributeKeyContractAddr, inst.Address),
		sdk.NewAttribute(AttributeKeyCodeID, fmt.Sprint(code.ID)),
		sdk.NewAttribute(AttributeKeySender, sender),
	))
	return inst, a.handleResponse(ctx, store, inst, resp, depth, res)
}

func (a *App) execute(ctx context.Context, store storetypes.KVStore, sender string, msg contract.ExecuteMsg, depth int, res *Result) error {
	inst, code, err := a.resolve(store, msg.Contract, true)
	if err != nil {
		return err
	}
	if err := a.send(store, sender, inst.Address, msg.Funds); err != nil {
		return err
	}

	cctx := a.contractContext(store, inst, sender, msg.Funds, depth)
	resp, err := code.contract.Execute(cctx, msg.Msg)
	if err != nil {
		return err
	}

	res.Events = append(res.Events, sdk.NewEvent(EventTypeExecute,
		sdk.NewAttribute(AttributeKeyContractAddr, inst.Address),
		sdk.NewAttribute(AttributeKeySender, sender),
	))
	return a.handleResponse(ctx, store, inst, resp, depth, res)
}

// handleResponse records the response's events and dispatches its messages
// depth-first, each sent by the responding contract.
func (a *App) handleResponse(ctx context.Context, store storetypes.KVStore, inst Instance, resp *contract.Response, depth int, res *Result) error {
	if resp == nil {
		return nil
	}
	for _, ev := range resp.Events {
		ev.Attributes = append(slices.Clone(ev.Attributes), sdk.NewAttribute(AttributeKeyContractAddr, inst.Address).ToKVPair())
		res.Events = append(res.Events, ev)
	}
	if depth == 0 && resp.Data != nil {
		res.Data = resp.Data
	}
	for _, msg := range resp.Messages {
		if err := a.dispatch(ctx, store, inst.Address, msg, depth+1, res); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) contractContext(store storetypes.KVStore, inst Instance, sender string, funds sdk.Coins, depth int) contract.Context {
	return contract.Context{
		Env: contract.Env{
			BlockHeight: a.height,
			BlockTime:   a.blockTime,
			Contract:    inst.Callable(),
			Sender:      sender,
			SentFunds:   funds,
		},
		Store:   prefix.NewStore(store, StateKey(inst.Address)),
		Querier: &branchQuerier{app: a, store: store, depth: depth},
		Logger:  a.logger.With("contract", inst.Address, "label", inst.Label),
	}
}
