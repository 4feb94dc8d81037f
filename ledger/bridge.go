package ledger

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"

	"github.com/strangelove-ventures/token-bridge-relayer/types"
)

// bridge simulates the messaging bridge's token transfer program. Message
// attestation is out of scope: attested transfers are posted directly with
// Ledger.PostAttestation.
type bridge struct {
	s *state
}

var _ types.TokenBridge = bridge{}

func (b bridge) pda(seeds ...[]byte) solana.PublicKey {
	addr, _, err := solana.FindProgramAddress(seeds, b.s.Bridge.ProgramID)
	if err != nil {
		panic(err)
	}
	return addr
}

func (b bridge) emitter() solana.PublicKey {
	return b.pda([]byte("emitter"))
}

func (b bridge) custodySigner() solana.PublicKey {
	return b.pda([]byte("custody_signer"))
}

func (b bridge) authoritySigner() solana.PublicKey {
	return b.pda([]byte("authority_signer"))
}

func (b bridge) custody(mint solana.PublicKey) solana.PublicKey {
	return b.pda(mint.Bytes())
}

func (b bridge) Outbound() types.OutboundEndpoints {
	return types.OutboundEndpoints{
		Config:          b.pda([]byte("config")),
		AuthoritySigner: b.authoritySigner(),
		CustodySigner:   b.custodySigner(),
		Emitter:         b.emitter(),
		Sequence:        b.pda([]byte("Sequence"), b.emitter().Bytes()),
		FeeCollector:    b.pda([]byte("fee_collector")),
	}
}

func (b bridge) Inbound() types.InboundEndpoints {
	return types.InboundEndpoints{
		Config:        b.pda([]byte("config")),
		CustodySigner: b.custodySigner(),
		MintAuthority: b.pda([]byte("mint_signer")),
	}
}

func (b bridge) ForeignEndpoint(chain types.ChainID) solana.PublicKey {
	if endpoint, ok := b.s.Bridge.ForeignEndpoints[chain]; ok {
		return endpoint
	}
	return solana.PublicKey{}
}

func wrappedKey(chain types.ChainID, address types.Address) string {
	return fmt.Sprintf("%d/%s", chain, address)
}

func (b bridge) WrappedMint(tokenChain types.ChainID, tokenAddress types.Address) (solana.PublicKey, bool) {
	mint, ok := b.s.Bridge.WrappedMints[wrappedKey(tokenChain, tokenAddress)]
	return mint, ok
}

func (b bridge) NextSequence() uint64 {
	return b.s.Bridge.Sequences[b.emitter().String()]
}

// post records an outbound message at the next sequence of the bridge emitter.
func (b bridge) post(req types.OutboundTransfer, info types.MintInfo) uint64 {
	emitter := b.emitter()
	sequence := b.s.Bridge.Sequences[emitter.String()]
	b.s.Bridge.Sequences[emitter.String()] = sequence + 1

	b.s.Bridge.Messages[sequence] = types.PostedMessage{
		Address:  req.MessageAddress,
		Emitter:  emitter,
		Sequence: sequence,
		Nonce:    req.Nonce,
		Transfer: types.AttestedTransfer{
			EmitterChain:   types.HostChainID,
			EmitterAddress: types.AddressFromPublicKey(emitter),
			Sequence:       sequence,
			Amount:         types.NormalizeAmount(req.Amount, info.Decimals),
			TokenAddress:   info.TokenAddress,
			TokenChain:     info.TokenChain,
			To:             req.To,
			ToChain:        req.ToChain,
			FromAddress:    types.AddressFromPublicKey(req.Sender),
			Payload:        append([]byte(nil), req.Payload...),
		},
	}
	return sequence
}

// pull moves req.Amount out of req.From using the delegation granted to the
// bridge's authority signer.
func (b bridge) pull(req types.OutboundTransfer) (types.TokenAccount, error) {
	tokens := tokenProgram{b.s}
	from, err := tokens.Account(req.From)
	if err != nil {
		return from, err
	}
	if !from.Mint.Equals(req.Mint) {
		return from, fmt.Errorf("%w: %s does not hold %s", types.ErrInvalidMint, req.From, req.Mint)
	}
	if from.Delegate == nil || !from.Delegate.Equals(b.authoritySigner()) {
		return from, fmt.Errorf("%w: bridge authority is not a delegate of %s", types.ErrOwnerMismatch, req.From)
	}
	if err := spend(&from, b.authoritySigner(), req.Amount); err != nil {
		return from, err
	}
	b.s.TokenAccounts[req.From.String()] = from
	return from, nil
}

func (b bridge) TransferNativeWithPayload(req types.OutboundTransfer) (uint64, error) {
	info, err := tokenProgram{b.s}.Mint(req.Mint)
	if err != nil {
		return 0, err
	}
	if info.Wrapped {
		return 0, fmt.Errorf("%w: %s is a bridge-wrapped mint", types.ErrInvalidMint, req.Mint)
	}
	if _, err := b.pull(req); err != nil {
		return 0, err
	}

	custody := b.custody(req.Mint)
	account, ok := b.s.TokenAccounts[custody.String()]
	if !ok {
		account = types.TokenAccount{Address: custody, Mint: req.Mint, Owner: b.custodySigner()}
	}
	account.Amount += req.Amount
	if types.IsNative(req.Mint) {
		account.Lamports += req.Amount
	}
	b.s.TokenAccounts[custody.String()] = account

	return b.post(req, info), nil
}

func (b bridge) TransferWrappedWithPayload(req types.OutboundTransfer) (uint64, error) {
	info, err := tokenProgram{b.s}.Mint(req.Mint)
	if err != nil {
		return 0, err
	}
	if !info.Wrapped {
		return 0, fmt.Errorf("%w: %s is not a bridge-wrapped mint", types.ErrInvalidMint, req.Mint)
	}
	// wrapped tokens are burned on the way out
	if _, err := b.pull(req); err != nil {
		return 0, err
	}
	return b.post(req, info), nil
}

func (b bridge) AttestedTransfer(hash common.Hash) (types.AttestedTransfer, error) {
	transfer, ok := b.s.Bridge.Attested[hash.Hex()]
	if !ok {
		return types.AttestedTransfer{}, fmt.Errorf("%w: %s", types.ErrMessageNotFound, hash)
	}
	return transfer, nil
}

func (b bridge) IsClaimed(hash common.Hash) bool {
	return b.s.Bridge.Claims[hash.Hex()]
}

// claim validates an inbound request and creates its one-time claim record.
func (b bridge) claim(req types.InboundTransfer) (types.AttestedTransfer, types.MintInfo, error) {
	transfer, err := b.AttestedTransfer(req.MessageHash)
	if err != nil {
		return transfer, types.MintInfo{}, err
	}
	if b.IsClaimed(req.MessageHash) {
		return transfer, types.MintInfo{}, types.ErrAlreadyRedeemed
	}
	if transfer.ToChain != types.HostChainID {
		return transfer, types.MintInfo{}, types.ErrInvalidTransferToChain
	}
	if transfer.To != types.AddressFromPublicKey(req.Redeemer) {
		return transfer, types.MintInfo{}, types.ErrInvalidTransferToAddress
	}
	info, err := tokenProgram{b.s}.Mint(req.Mint)
	if err != nil {
		return transfer, info, err
	}
	if info.TokenChain != transfer.TokenChain || info.TokenAddress != transfer.TokenAddress {
		return transfer, info, fmt.Errorf("%w: transfer is for %s", types.ErrInvalidMint, wrappedKey(transfer.TokenChain, transfer.TokenAddress))
	}
	to, err := tokenProgram{b.s}.Account(req.To)
	if err != nil {
		return transfer, info, err
	}
	if !to.Mint.Equals(req.Mint) {
		return transfer, info, fmt.Errorf("%w: %s does not hold %s", types.ErrInvalidMint, req.To, req.Mint)
	}

	b.s.Bridge.Claims[req.MessageHash.Hex()] = true
	return transfer, info, nil
}

func (b bridge) CompleteNativeWithPayload(req types.InboundTransfer) error {
	transfer, info, err := b.claim(req)
	if err != nil {
		return err
	}
	if info.Wrapped {
		return types.ErrInvalidTransferTokenChain
	}
	amount, ok := types.DenormalizeAmount(transfer.Amount, info.Decimals)
	if !ok {
		return types.ErrArithmeticOverflow
	}
	return tokenProgram{b.s}.Transfer(b.custody(req.Mint), req.To, b.custodySigner(), amount)
}

func (b bridge) CompleteWrappedWithPayload(req types.InboundTransfer) error {
	transfer, info, err := b.claim(req)
	if err != nil {
		return err
	}
	if !info.Wrapped {
		return types.ErrInvalidTransferTokenChain
	}
	amount, ok := types.DenormalizeAmount(transfer.Amount, info.Decimals)
	if !ok {
		return types.ErrArithmeticOverflow
	}
	to := b.s.TokenAccounts[req.To.String()]
	to.Amount += amount
	b.s.TokenAccounts[req.To.String()] = to
	return nil
}

func (b bridge) Message(sequence uint64) (types.PostedMessage, error) {
	msg, ok := b.s.Bridge.Messages[sequence]
	if !ok {
		return msg, fmt.Errorf("%w: sequence %d", types.ErrMessageNotFound, sequence)
	}
	return msg, nil
}
