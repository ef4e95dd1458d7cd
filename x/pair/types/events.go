package types

// Event types emitted by the pair contract.
const (
	EventTypeSwap              = "pair_swap"
	EventTypeProvideLiquidity  = "pair_provide_liquidity"
	EventTypeWithdrawLiquidity = "pair_withdraw_liquidity"
	EventTypeInitialized       = "pair_initialized"
)

// Event attribute keys.
const (
	AttributeKeyPair             = "pair"
	AttributeKeySender           = "sender"
	AttributeKeyReceiver         = "receiver"
	AttributeKeyOfferAsset       = "offer_asset"
	AttributeKeyAskAsset         = "ask_asset"
	AttributeKeyOfferAmount      = "offer_amount"
	AttributeKeyReturnAmount     = "return_amount"
	AttributeKeySpreadAmount     = "spread_amount"
	AttributeKeyCommissionAmount = "commission_amount"
	AttributeKeyAssets           = "assets"
	AttributeKeyShare            = "share"
	AttributeKeyRefundAssets     = "refund_assets"
	AttributeKeyWithdrawnShare   = "withdrawn_share"
	AttributeKeyLiquidityToken   = "liquidity_token"
)
