package relayer

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/strangelove-ventures/token-bridge-relayer/types"
)

// SubmitOwnershipTransferRequest nominates newOwner. A later submit replaces
// any outstanding nomination.
func (p *Program) SubmitOwnershipTransferRequest(ctx context.Context, signer, newOwner solana.PublicKey) error {
	return p.execute(ctx, "submit_ownership_transfer_request", func(tx types.Tx) error {
		c, err := p.loadConfigs(tx)
		if err != nil {
			return err
		}
		if err := p.requireOwner(c, signer); err != nil {
			return err
		}
		if newOwner.IsZero() {
			return types.ErrInvalidPublicKey
		}
		if c.owner.IsOwner(newOwner) {
			return types.ErrAlreadyTheOwner
		}

		c.owner.PendingOwner = &newOwner
		p.storeConfigs(tx, c)
		return nil
	}, "new_owner", newOwner.String())
}

// ConfirmOwnershipTransferRequest must be signed by the pending owner. It
// moves ownership of all three configs at once.
func (p *Program) ConfirmOwnershipTransferRequest(ctx context.Context, signer solana.PublicKey) error {
	return p.execute(ctx, "confirm_ownership_transfer_request", func(tx types.Tx) error {
		c, err := p.loadConfigs(tx)
		if err != nil {
			return err
		}
		if !c.owner.IsPendingOwner(signer) {
			return types.ErrNotPendingOwner
		}

		newOwner := *c.owner.PendingOwner
		c.sender.Owner = newOwner
		c.redeemer.Owner = newOwner
		c.owner.Owner = newOwner
		c.owner.PendingOwner = nil
		p.storeConfigs(tx, c)
		return nil
	}, "signer", signer.String())
}

func (p *Program) CancelOwnershipTransferRequest(ctx context.Context, signer solana.PublicKey) error {
	return p.execute(ctx, "cancel_ownership_transfer_request", func(tx types.Tx) error {
		c, err := p.loadConfigs(tx)
		if err != nil {
			return err
		}
		if err := p.requireOwner(c, signer); err != nil {
			return err
		}

		c.owner.PendingOwner = nil
		p.storeConfigs(tx, c)
		return nil
	})
}
