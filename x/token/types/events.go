package types

// Event types emitted by the token ledger.
const (
	EventTypeTransfer        = "token_transfer"
	EventTypeMint            = "token_mint"
	EventTypeBurn            = "token_burn"
	EventTypeAllowance       = "token_allowance"
	EventTypeRegisterReceive = "token_register_receive"
)

// Event attribute keys.
const (
	AttributeKeyFrom      = "from"
	AttributeKeyTo        = "to"
	AttributeKeySender    = "sender"
	AttributeKeyAmount    = "amount"
	AttributeKeyOwner     = "owner"
	AttributeKeySpender   = "spender"
	AttributeKeyAllowance = "allowance"
	AttributeKeyCodeHash  = "code_hash"
	AttributeKeyCallback  = "callback"
)
