// Package relayer is the token bridge relayer program: the administrative
// registry, the ownership handshake, and the outbound send and inbound redeem
// instructions. Every instruction runs as one atomic ledger execution.
package relayer

import (
	"context"
	"errors"
	"fmt"

	"cosmossdk.io/log"
	"github.com/gagliardetto/solana-go"

	"github.com/strangelove-ventures/token-bridge-relayer/types"
)

type Program struct {
	ledger types.Ledger
	id     solana.PublicKey

	nativeDecimals uint8

	logger    log.Logger
	metrics   *PromMetrics
	transfers *types.StateMap
}

type Option func(*Program)

func WithMetrics(m *PromMetrics) Option {
	return func(p *Program) { p.metrics = m }
}

// WithNativeDecimals sets the decimals of the host chain's gas asset.
func WithNativeDecimals(decimals uint8) Option {
	return func(p *Program) { p.nativeDecimals = decimals }
}

// WithTransfers records every send and redeem in sm.
func WithTransfers(sm *types.StateMap) Option {
	return func(p *Program) { p.transfers = sm }
}

func NewProgram(ledger types.Ledger, programID solana.PublicKey, logger log.Logger, opts ...Option) *Program {
	p := &Program{
		ledger:         ledger,
		id:             programID,
		nativeDecimals: types.DefaultNativeDecimals,
		logger:         logger.With("program", programID.String()),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Program) ID() solana.PublicKey { return p.id }

// execute runs fn as a single instruction and records its outcome.
func (p *Program) execute(ctx context.Context, instruction string, fn func(tx types.Tx) error, keyvals ...any) error {
	logger := p.logger.With(append([]any{"instruction", instruction}, keyvals...)...)
	logger.Debug("Executing instruction")

	err := p.ledger.Execute(ctx, fn)
	p.metrics.ObserveInstruction(instruction, err)
	if err != nil {
		logger.Error("Instruction failed", "err", err)
		return fmt.Errorf("%s: %w", instruction, err)
	}
	logger.Info("Instruction succeeded")
	return nil
}

func (p *Program) senderConfigAddress() solana.PublicKey {
	return types.SenderConfigAddress(p.id)
}

func (p *Program) redeemerConfigAddress() solana.PublicKey {
	return types.RedeemerConfigAddress(p.id)
}

func (p *Program) ownerConfigAddress() solana.PublicKey {
	return types.OwnerConfigAddress(p.id)
}

// configs loads the three singleton configs.
type configs struct {
	sender   types.SenderConfig
	redeemer types.RedeemerConfig
	owner    types.OwnerConfig
}

func (p *Program) loadConfigs(tx types.Tx) (configs, error) {
	var (
		c  configs
		ok bool
	)
	accts := tx.Accounts()
	if c.sender, ok = accts.SenderConfig(p.senderConfigAddress()); !ok {
		return c, types.ErrNotInitialized
	}
	if c.redeemer, ok = accts.RedeemerConfig(p.redeemerConfigAddress()); !ok {
		return c, types.ErrNotInitialized
	}
	if c.owner, ok = accts.OwnerConfig(p.ownerConfigAddress()); !ok {
		return c, types.ErrNotInitialized
	}
	return c, nil
}

func (p *Program) storeConfigs(tx types.Tx, c configs) {
	accts := tx.Accounts()
	accts.SetSenderConfig(p.senderConfigAddress(), c.sender)
	accts.SetRedeemerConfig(p.redeemerConfigAddress(), c.redeemer)
	accts.SetOwnerConfig(p.ownerConfigAddress(), c.owner)
}

func (p *Program) requireOwner(c configs, signer solana.PublicKey) error {
	if !c.owner.IsOwner(signer) {
		return types.ErrOwnerOnly
	}
	return nil
}

func (p *Program) requireAuthorized(c configs, signer solana.PublicKey) error {
	if !c.owner.IsAuthorized(signer) {
		return types.ErrOwnerOrAssistantOnly
	}
	return nil
}

func (p *Program) registeredToken(tx types.Tx, mint solana.PublicKey) types.RegisteredToken {
	token, _ := tx.Accounts().RegisteredToken(types.RegisteredTokenAddress(p.id, mint))
	return token
}

// ensureTokenAccount returns owner's associated token account for mint,
// creating it if it does not exist.
func ensureTokenAccount(tx types.Tx, owner, mint solana.PublicKey) (solana.PublicKey, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return ata, err
	}
	_, err = tx.Token().Account(ata)
	switch {
	case err == nil:
		return ata, nil
	case !errors.Is(err, types.ErrAccountNotFound):
		return ata, err
	}
	return ata, tx.Token().InitializeAccount(ata, mint, owner)
}
