package types

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gagliardetto/solana-go"
)

// Ledger runs instructions against the host chain. Each call to Execute is a
// single atomic unit: if fn returns an error none of its writes are kept.
type Ledger interface {
	Execute(ctx context.Context, fn func(tx Tx) error) error
	// View runs fn against a read-only snapshot. Writes made by fn are discarded.
	View(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of collaborators available to a single instruction.
type Tx interface {
	Accounts() Accounts
	Token() TokenProgram
	System() SystemProgram
	Bridge() TokenBridge
}

// Accounts stores the relayer's own records at their derived addresses.
type Accounts interface {
	SenderConfig(addr solana.PublicKey) (SenderConfig, bool)
	SetSenderConfig(addr solana.PublicKey, cfg SenderConfig)
	RedeemerConfig(addr solana.PublicKey) (RedeemerConfig, bool)
	SetRedeemerConfig(addr solana.PublicKey, cfg RedeemerConfig)
	OwnerConfig(addr solana.PublicKey) (OwnerConfig, bool)
	SetOwnerConfig(addr solana.PublicKey, cfg OwnerConfig)
	RegisteredToken(addr solana.PublicKey) (RegisteredToken, bool)
	SetRegisteredToken(addr solana.PublicKey, token RegisteredToken)
	ForeignContract(addr solana.PublicKey) (ForeignContract, bool)
	SetForeignContract(addr solana.PublicKey, contract ForeignContract)
	RelayerFee(addr solana.PublicKey) (RelayerFee, bool)
	SetRelayerFee(addr solana.PublicKey, fee RelayerFee)
}

// TokenAccount is a fungible token balance held for an owner.
type TokenAccount struct {
	Address  solana.PublicKey  `json:"address"`
	Mint     solana.PublicKey  `json:"mint"`
	Owner    solana.PublicKey  `json:"owner"`
	Amount   uint64            `json:"amount"`
	Lamports uint64            `json:"lamports"`
	Delegate *solana.PublicKey `json:"delegate,omitempty"`
	// DelegatedAmount is what Delegate may still spend.
	DelegatedAmount uint64 `json:"delegated_amount"`
}

// TokenProgram is the token-custody collaborator.
type TokenProgram interface {
	Mint(mint solana.PublicKey) (MintInfo, error)
	Account(addr solana.PublicKey) (TokenAccount, error)
	// InitializeAccount creates an empty token account at addr.
	InitializeAccount(addr, mint, owner solana.PublicKey) error
	Transfer(from, to, authority solana.PublicKey, amount uint64) error
	Approve(account, delegate, authority solana.PublicKey, amount uint64) error
	// SyncNative credits a native-mint account with its deposited lamports.
	SyncNative(account solana.PublicKey) error
	// CloseAccount moves the account's lamports to destination. Only native-mint
	// accounts may be closed with a nonzero token balance.
	CloseAccount(account, destination, authority solana.PublicKey) error
}

// SystemProgram moves the host chain's gas asset between wallets and accounts.
type SystemProgram interface {
	Balance(addr solana.PublicKey) uint64
	Transfer(from, to solana.PublicKey, lamports uint64) error
}

// OutboundTransfer is a request to the bridge's transfer-with-payload primitive.
type OutboundTransfer struct {
	Payer   solana.PublicKey
	From    solana.PublicKey
	Mint    solana.PublicKey
	Sender  solana.PublicKey
	Amount  uint64
	Nonce   uint32
	ToChain ChainID
	To      Address
	Payload []byte
	// MessageAddress is where the bridge posts the message.
	MessageAddress solana.PublicKey
}

// InboundTransfer is a request to the bridge's complete-transfer-with-payload
// primitive. The principal is released into To.
type InboundTransfer struct {
	Payer       solana.PublicKey
	MessageHash common.Hash
	Mint        solana.PublicKey
	To          solana.PublicKey
	Redeemer    solana.PublicKey
}

// PostedMessage is an outbound message recorded by the bridge.
type PostedMessage struct {
	Address  solana.PublicKey `json:"address"`
	Emitter  solana.PublicKey `json:"emitter"`
	Sequence uint64           `json:"sequence"`
	Nonce    uint32           `json:"nonce"`
	Transfer AttestedTransfer `json:"transfer"`
}

// AttestedTransfer is a verified transfer-with-payload message from another
// chain. Amount is normalized to 8 decimals.
type AttestedTransfer struct {
	EmitterChain   ChainID `json:"emitter_chain"`
	EmitterAddress Address `json:"emitter_address"`
	Sequence       uint64  `json:"sequence"`
	Amount         uint64  `json:"amount"`
	TokenAddress   Address `json:"token_address"`
	TokenChain     ChainID `json:"token_chain"`
	To             Address `json:"to"`
	ToChain        ChainID `json:"to_chain"`
	FromAddress    Address `json:"from_address"`
	Payload        []byte  `json:"payload"`
}

const transferWithPayloadID = 3

// Body serializes the transfer the way it is hashed for claim tracking.
func (t *AttestedTransfer) Body() []byte {
	bz := make([]byte, 0, 2+32+8+1+32+32+2+32+2+32+len(t.Payload))
	bz = binary.BigEndian.AppendUint16(bz, uint16(t.EmitterChain))
	bz = append(bz, t.EmitterAddress[:]...)
	bz = binary.BigEndian.AppendUint64(bz, t.Sequence)
	bz = append(bz, transferWithPayloadID)
	bz = append(bz, common.LeftPadBytes(binary.BigEndian.AppendUint64(nil, t.Amount), 32)...)
	bz = append(bz, t.TokenAddress[:]...)
	bz = binary.BigEndian.AppendUint16(bz, uint16(t.TokenChain))
	bz = append(bz, t.To[:]...)
	bz = binary.BigEndian.AppendUint16(bz, uint16(t.ToChain))
	bz = append(bz, t.FromAddress[:]...)
	bz = append(bz, t.Payload...)
	return bz
}

// Hash is the message hash the bridge keys claim records by.
func (t *AttestedTransfer) Hash() common.Hash {
	return crypto.Keccak256Hash(t.Body())
}

// Relay decodes the relay payload of the transfer.
func (t *AttestedTransfer) Relay() (*TransferWithRelay, error) {
	msg, err := new(TransferWithRelay).Parse(t.Payload)
	if err != nil {
		return nil, fmt.Errorf("transfer %s: %w", t.Hash(), err)
	}
	return msg, nil
}

// TokenBridge is the messaging-bridge collaborator.
type TokenBridge interface {
	Outbound() OutboundEndpoints
	Inbound() InboundEndpoints
	ForeignEndpoint(chain ChainID) solana.PublicKey
	// WrappedMint resolves the host mint the bridge created for a foreign token.
	WrappedMint(tokenChain ChainID, tokenAddress Address) (solana.PublicKey, bool)

	// NextSequence is the sequence the next outbound message will be posted at.
	NextSequence() uint64
	TransferNativeWithPayload(req OutboundTransfer) (sequence uint64, err error)
	TransferWrappedWithPayload(req OutboundTransfer) (sequence uint64, err error)

	AttestedTransfer(hash common.Hash) (AttestedTransfer, error)
	IsClaimed(hash common.Hash) bool
	CompleteNativeWithPayload(req InboundTransfer) error
	CompleteWrappedWithPayload(req InboundTransfer) error

	Message(sequence uint64) (PostedMessage, error)
}
