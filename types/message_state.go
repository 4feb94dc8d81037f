package types

import (
	"time"

	"github.com/gagliardetto/solana-go"
)

const (
	Sent     string = "sent"
	Redeemed string = "redeemed"
	Failed   string = "failed"

	Send   string = "send"
	Redeem string = "redeem"
)

// TransferState tracks a transfer this process has sent or redeemed.
type TransferState struct {
	MessageHash     string           `json:"message_hash"`
	Direction       string           `json:"direction"` // send, redeem
	Status          string           `json:"status"`    // sent, redeemed, failed
	Mint            solana.PublicKey `json:"mint"`
	Chain           ChainID          `json:"chain"` // recipient chain for sends, emitter chain for redeems
	Sequence        uint64           `json:"sequence"`
	Amount          uint64           `json:"amount"`
	RelayerFee      uint64           `json:"relayer_fee"`
	ToNativeAmount  uint64           `json:"to_native_amount"`
	NativeAmountOut uint64           `json:"native_amount_out,omitempty"`
	Recipient       Address          `json:"recipient"`
	Payer           solana.PublicKey `json:"payer"`
	Err             string           `json:"error,omitempty"`
	Created         time.Time        `json:"created"`
	Updated         time.Time        `json:"updated"`
}

// Equal checks if two TransferState instances are equal
func (m *TransferState) Equal(other *TransferState) bool {
	return m.MessageHash == other.MessageHash &&
		m.Direction == other.Direction &&
		m.Status == other.Status &&
		m.Mint.Equals(other.Mint) &&
		m.Chain == other.Chain &&
		m.Sequence == other.Sequence &&
		m.Amount == other.Amount &&
		m.RelayerFee == other.RelayerFee &&
		m.ToNativeAmount == other.ToNativeAmount &&
		m.NativeAmountOut == other.NativeAmountOut &&
		m.Recipient == other.Recipient &&
		m.Payer.Equals(other.Payer) &&
		m.Err == other.Err &&
		m.Created.Equal(other.Created) &&
		m.Updated.Equal(other.Updated)
}
