package types

import (
	"encoding/binary"
	"fmt"
)

// PayloadID discriminates relay payload variants.
type PayloadID uint8

const PayloadTransferWithRelay PayloadID = 1

// TransferWithRelay is the payload carried inside a bridge transfer.
// All amounts are normalized to 8 decimals.
type TransferWithRelay struct {
	TargetRelayerFee    uint64  `json:"target_relayer_fee"`
	ToNativeTokenAmount uint64  `json:"to_native_token_amount"`
	Recipient           Address `json:"recipient"`
}

const (
	payloadIDIndex           = 0
	targetRelayerFeeIndex    = 1
	toNativeTokenAmountIndex = 9
	recipientIndex           = 17
	TransferWithRelayLength  = 49
)

func (m *TransferWithRelay) Encode() []byte {
	bz := make([]byte, TransferWithRelayLength)
	bz[payloadIDIndex] = byte(PayloadTransferWithRelay)
	binary.BigEndian.PutUint64(bz[targetRelayerFeeIndex:toNativeTokenAmountIndex], m.TargetRelayerFee)
	binary.BigEndian.PutUint64(bz[toNativeTokenAmountIndex:recipientIndex], m.ToNativeTokenAmount)
	copy(bz[recipientIndex:], m.Recipient[:])
	return bz
}

func (m *TransferWithRelay) Parse(bz []byte) (*TransferWithRelay, error) {
	if len(bz) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidPayload)
	}
	if id := PayloadID(bz[payloadIDIndex]); id != PayloadTransferWithRelay {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPayloadID, id)
	}
	if len(bz) != TransferWithRelayLength {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPayload, TransferWithRelayLength, len(bz))
	}

	m.TargetRelayerFee = binary.BigEndian.Uint64(bz[targetRelayerFeeIndex:toNativeTokenAmountIndex])
	m.ToNativeTokenAmount = binary.BigEndian.Uint64(bz[toNativeTokenAmountIndex:recipientIndex])
	copy(m.Recipient[:], bz[recipientIndex:])

	return m, nil
}
