package types

// Event types emitted by the factory.
const (
	EventTypeCreatePair   = "factory_create_pair"
	EventTypeRegisterPair = "factory_register_pair"
	EventTypeUpdateConfig = "factory_update_config"
)

const (
	AttributeKeyPair        = "pair"
	AttributeKeyAssets      = "assets"
	AttributeKeyLiquidity   = "liquidity_token"
	AttributeKeyOwner       = "owner"
	AttributeKeySwapFee     = "swap_fee"
	AttributeKeyPairCodeID  = "pair_code_id"
	AttributeKeyTokenCodeID = "token_code_id"
)
