package ledger

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/strangelove-ventures/token-bridge-relayer/types"
)

type systemProgram struct {
	s *state
}

var _ types.SystemProgram = systemProgram{}

func (p systemProgram) Balance(addr solana.PublicKey) uint64 {
	if account, ok := p.s.TokenAccounts[addr.String()]; ok {
		return account.Lamports
	}
	return p.s.Lamports[addr.String()]
}

// Transfer moves lamports out of a wallet. The destination may be a wallet or
// a token account, the latter being how the native mint is wrapped.
func (p systemProgram) Transfer(from, to solana.PublicKey, lamports uint64) error {
	balance := p.s.Lamports[from.String()]
	if balance < lamports {
		return fmt.Errorf("%w: %s has %d lamports, needs %d", types.ErrInsufficientBalance, from, balance, lamports)
	}
	p.s.Lamports[from.String()] = balance - lamports
	credit(p.s, to, lamports)
	return nil
}

func credit(s *state, to solana.PublicKey, lamports uint64) {
	if account, ok := s.TokenAccounts[to.String()]; ok {
		account.Lamports += lamports
		s.TokenAccounts[to.String()] = account
		return
	}
	s.Lamports[to.String()] += lamports
}
