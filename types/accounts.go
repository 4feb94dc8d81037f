package types

import (
	"github.com/gagliardetto/solana-go"
)

// InitialPrecision is the relayer fee and swap rate precision set by Initialize.
const InitialPrecision uint32 = 100_000_000

// OutboundEndpoints references the bridge accounts used when sending.
type OutboundEndpoints struct {
	Config          solana.PublicKey `json:"config" yaml:"config"`
	AuthoritySigner solana.PublicKey `json:"authority_signer" yaml:"authority-signer"`
	CustodySigner   solana.PublicKey `json:"custody_signer" yaml:"custody-signer"`
	Emitter         solana.PublicKey `json:"emitter" yaml:"emitter"`
	Sequence        solana.PublicKey `json:"sequence" yaml:"sequence"`
	FeeCollector    solana.PublicKey `json:"fee_collector" yaml:"fee-collector"`
}

// InboundEndpoints references the bridge accounts used when redeeming.
type InboundEndpoints struct {
	Config        solana.PublicKey `json:"config" yaml:"config"`
	CustodySigner solana.PublicKey `json:"custody_signer" yaml:"custody-signer"`
	MintAuthority solana.PublicKey `json:"mint_authority" yaml:"mint-authority"`
}

type SenderConfig struct {
	Owner               solana.PublicKey  `json:"owner"`
	Paused              bool              `json:"paused"`
	RelayerFeePrecision uint32            `json:"relayer_fee_precision"`
	SwapRatePrecision   uint32            `json:"swap_rate_precision"`
	TokenBridge         OutboundEndpoints `json:"token_bridge"`
}

type RedeemerConfig struct {
	Owner               solana.PublicKey `json:"owner"`
	FeeRecipient        solana.PublicKey `json:"fee_recipient"`
	RelayerFeePrecision uint32           `json:"relayer_fee_precision"`
	SwapRatePrecision   uint32           `json:"swap_rate_precision"`
	TokenBridge         InboundEndpoints `json:"token_bridge"`
}

type OwnerConfig struct {
	Owner        solana.PublicKey  `json:"owner"`
	Assistant    solana.PublicKey  `json:"assistant"`
	PendingOwner *solana.PublicKey `json:"pending_owner,omitempty"`
}

// IsAuthorized reports whether key is the owner or the assistant.
func (c OwnerConfig) IsAuthorized(key solana.PublicKey) bool {
	return key.Equals(c.Owner) || key.Equals(c.Assistant)
}

func (c OwnerConfig) IsOwner(key solana.PublicKey) bool {
	return key.Equals(c.Owner)
}

func (c OwnerConfig) IsPendingOwner(key solana.PublicKey) bool {
	return c.PendingOwner != nil && key.Equals(*c.PendingOwner)
}

// RegisteredToken is either fully registered (SwapRate > 0) or fully reset.
type RegisteredToken struct {
	IsRegistered        bool   `json:"is_registered"`
	SwapRate            uint64 `json:"swap_rate"`
	MaxNativeSwapAmount uint64 `json:"max_native_swap_amount"`
}

type ForeignContract struct {
	Chain                      ChainID          `json:"chain"`
	Address                    Address          `json:"address"`
	TokenBridgeForeignEndpoint solana.PublicKey `json:"token_bridge_foreign_endpoint"`
}

type RelayerFee struct {
	Chain ChainID `json:"chain"`
	Fee   uint64  `json:"fee"`
}

// MintInfo is the subset of a token mint the relayer reads.
type MintInfo struct {
	Address  solana.PublicKey `json:"address"`
	Decimals uint8            `json:"decimals"`
	// Wrapped is set for mints created by the bridge for foreign tokens.
	Wrapped      bool    `json:"wrapped"`
	TokenChain   ChainID `json:"token_chain"`
	TokenAddress Address `json:"token_address"`
}

// IsNative reports whether mint is the host chain's wrapped gas asset.
func IsNative(mint solana.PublicKey) bool {
	return mint.Equals(solana.WrappedSol)
}
