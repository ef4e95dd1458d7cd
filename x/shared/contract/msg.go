package contract

import (
	"encoding/json"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Msg is an instruction emitted by a contract. Exactly one variant is set.
//
// A BestEffort message that fails is dropped without failing its emitter.
type Msg struct {
	Bank        *BankMsg        `json:"bank,omitempty"`
	Execute     *ExecuteMsg     `json:"execute,omitempty"`
	Instantiate *InstantiateMsg `json:"instantiate,omitempty"`
	BestEffort  bool            `json:"best_effort,omitempty"`
}

// BankMsg moves native coins from the emitting contract.
type BankMsg struct {
	ToAddress string    `json:"to_address"`
	Amount    sdk.Coins `json:"amount"`
}

// ExecuteMsg calls another contract.
type ExecuteMsg struct {
	Contract Callable        `json:"contract"`
	Msg      json.RawMessage `json:"msg"`
	Funds    sdk.Coins       `json:"funds,omitempty"`
}

// InstantiateMsg creates a new contract instance.
type InstantiateMsg struct {
	CodeID   uint64          `json:"code_id"`
	CodeHash string          `json:"code_hash"`
	Label    string          `json:"label"`
	Msg      json.RawMessage `json:"msg"`
	Funds    sdk.Coins       `json:"funds,omitempty"`
}

// Kind names the set variant.
func (m Msg) Kind() string {
	switch {
	case m.Bank != nil:
		return "bank"
	case m.Execute != nil:
		return "execute"
	case m.Instantiate != nil:
		return "instantiate"
	default:
		return "empty"
	}
}

// ValidateBasic checks that exactly one variant is set.
func (m Msg) ValidateBasic() error {
	n := 0
	for _, set := range []bool{m.Bank != nil, m.Execute != nil, m.Instantiate != nil} {
		if set {
			n++
		}
	}
	if n != 1 {
		return ErrInvalidRequest.Wrapf("message must set exactly one variant, got %d", n)
	}
	return nil
}

// NewBankMsg sends coins to an address.
func NewBankMsg(to string, coins sdk.Coins) Msg {
	return Msg{Bank: &BankMsg{ToAddress: to, Amount: coins}}
}

// NewExecuteMsg encodes msg as JSON and calls target with it.
func NewExecuteMsg(target Callable, msg any, funds sdk.Coins) (Msg, error) {
	bz, err := json.Marshal(msg)
	if err != nil {
		return Msg{}, ErrEncoding.Wrapf("execute %s: %s", target.Address, err)
	}
	return Msg{Execute: &ExecuteMsg{Contract: target, Msg: bz, Funds: funds}}, nil
}

// NewInstantiateMsg encodes msg as JSON and instantiates code with it.
func NewInstantiateMsg(codeID uint64, codeHash, label string, msg any) (Msg, error) {
	bz, err := json.Marshal(msg)
	if err != nil {
		return Msg{}, ErrEncoding.Wrapf("instantiate %s: %s", label, err)
	}
	return Msg{Instantiate: &InstantiateMsg{CodeID: codeID, CodeHash: codeHash, Label: label, Msg: bz}}, nil
}

// InitHook is a call a freshly instantiated contract makes back to its
// creator once its own setup is done.
type InitHook struct {
	Msg      json.RawMessage `json:"msg"`
	Contract Callable        `json:"contract_addr"`
}

// NewInitHook encodes msg for a hook to target.
func NewInitHook(target Callable, msg any) (*InitHook, error) {
	bz, err := json.Marshal(msg)
	if err != nil {
		return nil, ErrEncoding.Wrapf("init hook: %s", err)
	}
	return &InitHook{Msg: bz, Contract: target}, nil
}

// ToMsg converts the hook into the message that fires it.
func (h InitHook) ToMsg() Msg {
	return Msg{Execute: &ExecuteMsg{Contract: h.Contract, Msg: h.Msg}}
}

// ReceiveMsg is the callback a token ledger sends to a registered receiver
// after moving tokens to it. Sender invoked the transfer and From owned the
// tokens; they differ for transfers on behalf of another account.
type ReceiveMsg struct {
	Sender string          `json:"sender"`
	From   string          `json:"from"`
	Amount math.Uint       `json:"amount"`
	Msg    json.RawMessage `json:"msg,omitempty"`
}

// HasPayload reports whether the transfer carried an embedded message.
func (m ReceiveMsg) HasPayload() bool {
	return len(m.Msg) > 0 && string(m.Msg) != "null"
}

// Response is what a contract returns from Instantiate and Execute.
type Response struct {
	Messages []Msg      `json:"messages,omitempty"`
	Events   sdk.Events `json:"events,omitempty"`
	Data     []byte     `json:"data,omitempty"`
}

// NewResponse returns an empty response.
func NewResponse() *Response {
	return &Response{}
}

// AddMessages appends messages in dispatch order.
func (r *Response) AddMessages(msgs ...Msg) *Response {
	r.Messages = append(r.Messages, msgs...)
	return r
}

// AddEvent appends an event.
func (r *Response) AddEvent(ev sdk.Event) *Response {
	r.Events = append(r.Events, ev)
	return r
}

// SetData sets the response data to the JSON encoding of v.
func (r *Response) SetData(v any) error {
	bz, err := json.Marshal(v)
	if err != nil {
		return ErrEncoding.Wrap(err.Error())
	}
	r.Data = bz
	return nil
}

func (r *Response) String() string {
	return fmt.Sprintf("Response{messages: %d, events: %d}", len(r.Messages), len(r.Events))
}
