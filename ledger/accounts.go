package ledger

import (
	"github.com/gagliardetto/solana-go"

	"github.com/strangelove-ventures/token-bridge-relayer/types"
)

type accounts struct {
	s *state
}

var _ types.Accounts = accounts{}

func (a accounts) SenderConfig(addr solana.PublicKey) (types.SenderConfig, bool) {
	cfg, ok := a.s.SenderConfigs[addr.String()]
	return cfg, ok
}

func (a accounts) SetSenderConfig(addr solana.PublicKey, cfg types.SenderConfig) {
	a.s.SenderConfigs[addr.String()] = cfg
}

func (a accounts) RedeemerConfig(addr solana.PublicKey) (types.RedeemerConfig, bool) {
	cfg, ok := a.s.RedeemerConfigs[addr.String()]
	return cfg, ok
}

func (a accounts) SetRedeemerConfig(addr solana.PublicKey, cfg types.RedeemerConfig) {
	a.s.RedeemerConfigs[addr.String()] = cfg
}

func (a accounts) OwnerConfig(addr solana.PublicKey) (types.OwnerConfig, bool) {
	cfg, ok := a.s.OwnerConfigs[addr.String()]
	return cfg, ok
}

func (a accounts) SetOwnerConfig(addr solana.PublicKey, cfg types.OwnerConfig) {
	a.s.OwnerConfigs[addr.String()] = cfg
}

func (a accounts) RegisteredToken(addr solana.PublicKey) (types.RegisteredToken, bool) {
	token, ok := a.s.RegisteredTokens[addr.String()]
	return token, ok
}

func (a accounts) SetRegisteredToken(addr solana.PublicKey, token types.RegisteredToken) {
	a.s.RegisteredTokens[addr.String()] = token
}

func (a accounts) ForeignContract(addr solana.PublicKey) (types.ForeignContract, bool) {
	contract, ok := a.s.ForeignContracts[addr.String()]
	return contract, ok
}

func (a accounts) SetForeignContract(addr solana.PublicKey, contract types.ForeignContract) {
	a.s.ForeignContracts[addr.String()] = contract
}

func (a accounts) RelayerFee(addr solana.PublicKey) (types.RelayerFee, bool) {
	fee, ok := a.s.RelayerFees[addr.String()]
	return fee, ok
}

func (a accounts) SetRelayerFee(addr solana.PublicKey, fee types.RelayerFee) {
	a.s.RelayerFees[addr.String()] = fee
}
