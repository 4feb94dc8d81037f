package ledger

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/strangelove-ventures/token-bridge-relayer/types"
)

type tokenProgram struct {
	s *state
}

var _ types.TokenProgram = tokenProgram{}

func (p tokenProgram) Mint(mint solana.PublicKey) (types.MintInfo, error) {
	info, ok := p.s.Mints[mint.String()]
	if !ok {
		return types.MintInfo{}, fmt.Errorf("%w: mint %s", types.ErrAccountNotFound, mint)
	}
	return info, nil
}

func (p tokenProgram) Account(addr solana.PublicKey) (types.TokenAccount, error) {
	account, ok := p.s.TokenAccounts[addr.String()]
	if !ok {
		return types.TokenAccount{}, fmt.Errorf("%w: token account %s", types.ErrAccountNotFound, addr)
	}
	return account, nil
}

func (p tokenProgram) InitializeAccount(addr, mint, owner solana.PublicKey) error {
	if _, ok := p.s.TokenAccounts[addr.String()]; ok {
		return fmt.Errorf("%w: token account %s", types.ErrAccountExists, addr)
	}
	if _, err := p.Mint(mint); err != nil {
		return err
	}
	p.s.TokenAccounts[addr.String()] = types.TokenAccount{
		Address: addr,
		Mint:    mint,
		Owner:   owner,
	}
	return nil
}

// spend checks that authority may move amount out of account and records the
// spend against its delegation when authority is the delegate.
func spend(account *types.TokenAccount, authority solana.PublicKey, amount uint64) error {
	switch {
	case authority.Equals(account.Owner):
	case account.Delegate != nil && authority.Equals(*account.Delegate):
		if account.DelegatedAmount < amount {
			return fmt.Errorf("%w: delegated %d, requested %d", types.ErrInsufficientBalance, account.DelegatedAmount, amount)
		}
		account.DelegatedAmount -= amount
		if account.DelegatedAmount == 0 {
			account.Delegate = nil
		}
	default:
		return fmt.Errorf("%w: %s may not spend from %s", types.ErrOwnerMismatch, authority, account.Address)
	}
	if account.Amount < amount {
		return fmt.Errorf("%w: balance %d, requested %d", types.ErrInsufficientBalance, account.Amount, amount)
	}
	account.Amount -= amount
	if types.IsNative(account.Mint) {
		account.Lamports -= amount
	}
	return nil
}

func (p tokenProgram) Transfer(from, to, authority solana.PublicKey, amount uint64) error {
	src, err := p.Account(from)
	if err != nil {
		return err
	}
	dst, err := p.Account(to)
	if err != nil {
		return err
	}
	if !src.Mint.Equals(dst.Mint) {
		return fmt.Errorf("%w: %s and %s hold different mints", types.ErrInvalidMint, from, to)
	}
	if err := spend(&src, authority, amount); err != nil {
		return err
	}
	p.s.TokenAccounts[from.String()] = src

	// re-read in case from == to
	dst = p.s.TokenAccounts[to.String()]
	dst.Amount += amount
	if types.IsNative(dst.Mint) {
		dst.Lamports += amount
	}
	p.s.TokenAccounts[to.String()] = dst
	return nil
}

func (p tokenProgram) Approve(addr, delegate, authority solana.PublicKey, amount uint64) error {
	account, err := p.Account(addr)
	if err != nil {
		return err
	}
	if !authority.Equals(account.Owner) {
		return fmt.Errorf("%w: %s does not own %s", types.ErrOwnerMismatch, authority, addr)
	}
	account.Delegate = &delegate
	account.DelegatedAmount = amount
	p.s.TokenAccounts[addr.String()] = account
	return nil
}

func (p tokenProgram) SyncNative(addr solana.PublicKey) error {
	account, err := p.Account(addr)
	if err != nil {
		return err
	}
	if !types.IsNative(account.Mint) {
		return fmt.Errorf("%w: %s is not a native mint account", types.ErrInvalidMint, addr)
	}
	account.Amount = account.Lamports
	p.s.TokenAccounts[addr.String()] = account
	return nil
}

func (p tokenProgram) CloseAccount(addr, destination, authority solana.PublicKey) error {
	account, err := p.Account(addr)
	if err != nil {
		return err
	}
	if !authority.Equals(account.Owner) {
		return fmt.Errorf("%w: %s does not own %s", types.ErrOwnerMismatch, authority, addr)
	}
	if account.Amount != 0 && !types.IsNative(account.Mint) {
		return fmt.Errorf("%w: %s holds %d", types.ErrAccountNotEmpty, addr, account.Amount)
	}
	delete(p.s.TokenAccounts, addr.String())
	credit(p.s, destination, account.Lamports)
	return nil
}
