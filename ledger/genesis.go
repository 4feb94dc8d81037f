package ledger

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"

	"github.com/strangelove-ventures/token-bridge-relayer/types"
)

// DefaultBridgeProgramID is used when genesis does not name a bridge program.
var DefaultBridgeProgramID = solana.MustPublicKeyFromBase58("wormDTUJ6AWPNvk59vGQbDvGJmqbDTdgWgAqcLBCgUb")

// Genesis is the initial devnet state.
type Genesis struct {
	BridgeProgramID  solana.PublicKey
	ForeignEndpoints map[types.ChainID]solana.PublicKey
	Mints            []types.MintInfo
	Lamports         map[solana.PublicKey]uint64
	// Tokens are credited to each owner's associated token account.
	Tokens []TokenBalance
}

type TokenBalance struct {
	Owner  solana.PublicKey
	Mint   solana.PublicKey
	Amount uint64
}

// GenesisFromConfig converts the devnet section of the app config.
func GenesisFromConfig(bridgeCfg types.BridgeConfig, cfg types.GenesisConfig) (Genesis, error) {
	g := Genesis{
		ForeignEndpoints: map[types.ChainID]solana.PublicKey{},
		Lamports:         map[solana.PublicKey]uint64{},
	}
	if bridgeCfg.ProgramID != "" {
		id, err := solana.PublicKeyFromBase58(bridgeCfg.ProgramID)
		if err != nil {
			return g, fmt.Errorf("invalid bridge program id: %w", err)
		}
		g.BridgeProgramID = id
	}
	for chain, endpoint := range bridgeCfg.ForeignEndpoints {
		key, err := solana.PublicKeyFromBase58(endpoint)
		if err != nil {
			return g, fmt.Errorf("invalid foreign endpoint for chain %d: %w", chain, err)
		}
		g.ForeignEndpoints[types.ChainID(chain)] = key
	}
	for _, m := range cfg.Mints {
		mint, err := solana.PublicKeyFromBase58(m.Address)
		if err != nil {
			return g, fmt.Errorf("invalid mint %q: %w", m.Address, err)
		}
		info := types.MintInfo{Address: mint, Decimals: m.Decimals, TokenChain: types.ChainID(m.TokenChain)}
		if m.TokenAddress != "" {
			if info.TokenAddress, err = types.ParseAddress(m.TokenAddress); err != nil {
				return g, fmt.Errorf("invalid token address for mint %s: %w", m.Address, err)
			}
		}
		g.Mints = append(g.Mints, info)
	}
	for _, b := range cfg.Lamports {
		owner, err := solana.PublicKeyFromBase58(b.Owner)
		if err != nil {
			return g, fmt.Errorf("invalid lamports owner %q: %w", b.Owner, err)
		}
		g.Lamports[owner] += b.Amount
	}
	for _, b := range cfg.Tokens {
		owner, err := solana.PublicKeyFromBase58(b.Owner)
		if err != nil {
			return g, fmt.Errorf("invalid token owner %q: %w", b.Owner, err)
		}
		mint, err := solana.PublicKeyFromBase58(b.Mint)
		if err != nil {
			return g, fmt.Errorf("invalid token mint %q: %w", b.Mint, err)
		}
		g.Tokens = append(g.Tokens, TokenBalance{Owner: owner, Mint: mint, Amount: b.Amount})
	}
	return g, nil
}

func (g Genesis) state() (*state, error) {
	s := newState()
	s.Bridge.ProgramID = g.BridgeProgramID
	if s.Bridge.ProgramID.IsZero() {
		s.Bridge.ProgramID = DefaultBridgeProgramID
	}
	for chain, endpoint := range g.ForeignEndpoints {
		s.Bridge.ForeignEndpoints[chain] = endpoint
	}

	mints := append([]types.MintInfo{{Address: solana.WrappedSol, Decimals: types.DefaultNativeDecimals}}, g.Mints...)
	for _, m := range mints {
		if err := addMint(s, m); err != nil {
			return nil, err
		}
	}
	for owner, lamports := range g.Lamports {
		s.Lamports[owner.String()] += lamports
	}
	for _, t := range g.Tokens {
		if err := mintTo(s, t.Mint, t.Owner, t.Amount); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// addMint registers a mint. Mints from other chains are treated as
// bridge-wrapped and become resolvable through WrappedMint.
func addMint(s *state, m types.MintInfo) error {
	if m.TokenChain == types.ChainIDUnset {
		m.TokenChain = types.HostChainID
	}
	if m.TokenChain == types.HostChainID {
		m.Wrapped = false
		m.TokenAddress = types.AddressFromPublicKey(m.Address)
	} else {
		if m.TokenAddress.IsZero() {
			return fmt.Errorf("wrapped mint %s needs a token address", m.Address)
		}
		m.Wrapped = true
		s.Bridge.WrappedMints[wrappedKey(m.TokenChain, m.TokenAddress)] = m.Address
	}
	s.Mints[m.Address.String()] = m
	return nil
}

// mintTo credits owner's associated token account, creating it if needed.
func mintTo(s *state, mint, owner solana.PublicKey, amount uint64) error {
	if _, ok := s.Mints[mint.String()]; !ok {
		return fmt.Errorf("%w: mint %s", types.ErrAccountNotFound, mint)
	}
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return err
	}
	account, ok := s.TokenAccounts[ata.String()]
	if !ok {
		account = types.TokenAccount{Address: ata, Mint: mint, Owner: owner}
	}
	account.Amount += amount
	if types.IsNative(mint) {
		account.Lamports += amount
	}
	s.TokenAccounts[ata.String()] = account
	return nil
}

// commit applies fn through Execute so devnet helpers get the same snapshot
// versioning as instructions.
func (l *Ledger) commit(ctx context.Context, fn func(s *state) error) error {
	return l.Execute(ctx, func(tx types.Tx) error {
		return fn(tx.(*txn).state)
	})
}

// PostAttestation stands in for the bridge's guardians: it makes transfer
// redeemable on this ledger and returns its message hash.
func (l *Ledger) PostAttestation(ctx context.Context, transfer types.AttestedTransfer) (common.Hash, error) {
	hash := transfer.Hash()
	err := l.commit(ctx, func(s *state) error {
		if _, ok := s.Bridge.Attested[hash.Hex()]; ok {
			return fmt.Errorf("%w: attestation %s", types.ErrAccountExists, hash)
		}
		s.Bridge.Attested[hash.Hex()] = transfer
		return nil
	})
	return hash, err
}

// Airdrop credits lamports to a wallet.
func (l *Ledger) Airdrop(ctx context.Context, to solana.PublicKey, lamports uint64) error {
	return l.commit(ctx, func(s *state) error {
		s.Lamports[to.String()] += lamports
		return nil
	})
}

// MintTo credits tokens to owner's associated token account.
func (l *Ledger) MintTo(ctx context.Context, mint, owner solana.PublicKey, amount uint64) error {
	return l.commit(ctx, func(s *state) error {
		return mintTo(s, mint, owner, amount)
	})
}

// AddMint registers a mint after genesis.
func (l *Ledger) AddMint(ctx context.Context, info types.MintInfo) error {
	return l.commit(ctx, func(s *state) error {
		if _, ok := s.Mints[info.Address.String()]; ok {
			return fmt.Errorf("%w: mint %s", types.ErrAccountExists, info.Address)
		}
		return addMint(s, info)
	})
}

// FundCustody deposits tokens into the bridge's custody for a host-native
// mint, standing in for transfers that left this chain before genesis.
func (l *Ledger) FundCustody(ctx context.Context, mint solana.PublicKey, amount uint64) error {
	return l.commit(ctx, func(s *state) error {
		b := bridge{s}
		if _, ok := s.Mints[mint.String()]; !ok {
			return fmt.Errorf("%w: mint %s", types.ErrAccountNotFound, mint)
		}
		custody := b.custody(mint)
		account, ok := s.TokenAccounts[custody.String()]
		if !ok {
			account = types.TokenAccount{Address: custody, Mint: mint, Owner: b.custodySigner()}
		}
		account.Amount += amount
		if types.IsNative(mint) {
			account.Lamports += amount
		}
		s.TokenAccounts[custody.String()] = account
		return nil
	})
}

// BridgeEmitter is the address outbound messages are emitted from.
func (l *Ledger) BridgeEmitter() solana.PublicKey {
	l.mu.Lock()
	defer l.mu.Unlock()
	return bridge{l.state}.emitter()
}
