package ledger

import (
	"encoding/json"

	"github.com/gagliardetto/solana-go"

	"github.com/strangelove-ventures/token-bridge-relayer/types"
)

// state is everything the devnet ledger holds. It is serialized as a whole
// into each snapshot, so every field must round-trip through JSON.
type state struct {
	SenderConfigs    map[string]types.SenderConfig    `json:"sender_configs"`
	RedeemerConfigs  map[string]types.RedeemerConfig  `json:"redeemer_configs"`
	OwnerConfigs     map[string]types.OwnerConfig     `json:"owner_configs"`
	RegisteredTokens map[string]types.RegisteredToken `json:"registered_tokens"`
	ForeignContracts map[string]types.ForeignContract `json:"foreign_contracts"`
	RelayerFees      map[string]types.RelayerFee      `json:"relayer_fees"`

	Lamports      map[string]uint64             `json:"lamports"`
	Mints         map[string]types.MintInfo     `json:"mints"`
	TokenAccounts map[string]types.TokenAccount `json:"token_accounts"`

	Bridge bridgeState `json:"bridge"`
}

type bridgeState struct {
	ProgramID        solana.PublicKey                   `json:"program_id"`
	Sequences        map[string]uint64                  `json:"sequences"`
	Messages         map[uint64]types.PostedMessage     `json:"messages"`
	Attested         map[string]types.AttestedTransfer  `json:"attested"`
	Claims           map[string]bool                    `json:"claims"`
	ForeignEndpoints map[types.ChainID]solana.PublicKey `json:"foreign_endpoints"`
	// WrappedMints maps "<chain>/<token address>" to the host mint.
	WrappedMints map[string]solana.PublicKey `json:"wrapped_mints"`
}

func newState() *state {
	return &state{
		SenderConfigs:    map[string]types.SenderConfig{},
		RedeemerConfigs:  map[string]types.RedeemerConfig{},
		OwnerConfigs:     map[string]types.OwnerConfig{},
		RegisteredTokens: map[string]types.RegisteredToken{},
		ForeignContracts: map[string]types.ForeignContract{},
		RelayerFees:      map[string]types.RelayerFee{},
		Lamports:         map[string]uint64{},
		Mints:            map[string]types.MintInfo{},
		TokenAccounts:    map[string]types.TokenAccount{},
		Bridge: bridgeState{
			Sequences:        map[string]uint64{},
			Messages:         map[uint64]types.PostedMessage{},
			Attested:         map[string]types.AttestedTransfer{},
			Claims:           map[string]bool{},
			ForeignEndpoints: map[types.ChainID]solana.PublicKey{},
			WrappedMints:     map[string]solana.PublicKey{},
		},
	}
}

func decodeState(data []byte) (*state, error) {
	s := newState()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *state) encode() ([]byte, error) {
	return json.Marshal(s)
}

// clone deep copies the state so an instruction can write to it freely.
func (s *state) clone() (*state, error) {
	data, err := s.encode()
	if err != nil {
		return nil, err
	}
	return decodeState(data)
}
