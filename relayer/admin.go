package relayer

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/strangelove-ventures/token-bridge-relayer/types"
)

// Initialize creates the sender, redeemer and owner configs. It can only
// succeed once per program.
func (p *Program) Initialize(ctx context.Context, owner, feeRecipient, assistant solana.PublicKey) error {
	err := p.execute(ctx, "initialize", func(tx types.Tx) error {
		if _, ok := tx.Accounts().SenderConfig(p.senderConfigAddress()); ok {
			return types.ErrAlreadyInitialized
		}
		if feeRecipient.IsZero() || assistant.IsZero() {
			return types.ErrInvalidPublicKey
		}

		bridge := tx.Bridge()
		p.storeConfigs(tx, configs{
			sender: types.SenderConfig{
				Owner:               owner,
				RelayerFeePrecision: types.InitialPrecision,
				SwapRatePrecision:   types.InitialPrecision,
				TokenBridge:         bridge.Outbound(),
			},
			redeemer: types.RedeemerConfig{
				Owner:               owner,
				FeeRecipient:        feeRecipient,
				RelayerFeePrecision: types.InitialPrecision,
				SwapRatePrecision:   types.InitialPrecision,
				TokenBridge:         bridge.Inbound(),
			},
			owner: types.OwnerConfig{
				Owner:     owner,
				Assistant: assistant,
			},
		})
		return nil
	}, "owner", owner.String(), "fee_recipient", feeRecipient.String(), "assistant", assistant.String())
	if err == nil {
		p.metrics.SetPaused(false)
	}
	return err
}

// RegisterForeignContract records the relayer contract on a foreign chain.
// Registering a chain again replaces its address.
func (p *Program) RegisterForeignContract(ctx context.Context, signer solana.PublicKey, chain types.ChainID, address types.Address) error {
	return p.execute(ctx, "register_foreign_contract", func(tx types.Tx) error {
		c, err := p.loadConfigs(tx)
		if err != nil {
			return err
		}
		if err := p.requireOwner(c, signer); err != nil {
			return err
		}
		if !chain.IsForeign() || address.IsZero() {
			return types.ErrInvalidForeignContract
		}

		tx.Accounts().SetForeignContract(types.ForeignContractAddress(p.id, chain), types.ForeignContract{
			Chain:                      chain,
			Address:                    address,
			TokenBridgeForeignEndpoint: tx.Bridge().ForeignEndpoint(chain),
		})
		return nil
	}, "chain", chain.String(), "address", address.String())
}

func (p *Program) RegisterToken(ctx context.Context, signer, mint solana.PublicKey, swapRate, maxNativeSwapAmount uint64) error {
	return p.execute(ctx, "register_token", func(tx types.Tx) error {
		c, err := p.loadConfigs(tx)
		if err != nil {
			return err
		}
		if err := p.requireOwner(c, signer); err != nil {
			return err
		}
		if _, err := tx.Token().Mint(mint); err != nil {
			return err
		}
		if p.registeredToken(tx, mint).IsRegistered {
			return types.ErrTokenAlreadyRegistered
		}
		if swapRate == 0 {
			return types.ErrZeroSwapRate
		}
		if types.IsNative(mint) && maxNativeSwapAmount != 0 {
			return types.ErrSwapsNotAllowedForNativeMint
		}

		tx.Accounts().SetRegisteredToken(types.RegisteredTokenAddress(p.id, mint), types.RegisteredToken{
			IsRegistered:        true,
			SwapRate:            swapRate,
			MaxNativeSwapAmount: maxNativeSwapAmount,
		})
		return nil
	}, "mint", mint.String(), "swap_rate", swapRate, "max_native_swap_amount", maxNativeSwapAmount)
}

// DeregisterToken resets the token's record. The record itself is kept so
// its address stays stable.
func (p *Program) DeregisterToken(ctx context.Context, signer, mint solana.PublicKey) error {
	return p.execute(ctx, "deregister_token", func(tx types.Tx) error {
		c, err := p.loadConfigs(tx)
		if err != nil {
			return err
		}
		if err := p.requireOwner(c, signer); err != nil {
			return err
		}
		if !p.registeredToken(tx, mint).IsRegistered {
			return types.ErrTokenNotRegistered
		}

		tx.Accounts().SetRegisteredToken(types.RegisteredTokenAddress(p.id, mint), types.RegisteredToken{})
		return nil
	}, "mint", mint.String())
}

// UpdateRelayerFee sets the USD fee for relaying into chain. The chain must
// have a registered foreign contract.
func (p *Program) UpdateRelayerFee(ctx context.Context, signer solana.PublicKey, chain types.ChainID, fee uint64) error {
	return p.execute(ctx, "update_relayer_fee", func(tx types.Tx) error {
		c, err := p.loadConfigs(tx)
		if err != nil {
			return err
		}
		if err := p.requireAuthorized(c, signer); err != nil {
			return err
		}
		if _, ok := tx.Accounts().ForeignContract(types.ForeignContractAddress(p.id, chain)); !ok {
			return types.ErrForeignContractNotRegistered
		}

		tx.Accounts().SetRelayerFee(types.RelayerFeeAddress(p.id, chain), types.RelayerFee{
			Chain: chain,
			Fee:   fee,
		})
		return nil
	}, "chain", chain.String(), "fee", fee)
}

// UpdateRelayerFeePrecision applies the new precision to both the sender and
// redeemer configs.
func (p *Program) UpdateRelayerFeePrecision(ctx context.Context, signer solana.PublicKey, precision uint32) error {
	return p.execute(ctx, "update_relayer_fee_precision", func(tx types.Tx) error {
		c, err := p.loadConfigs(tx)
		if err != nil {
			return err
		}
		if err := p.requireOwner(c, signer); err != nil {
			return err
		}
		if precision == 0 {
			return types.ErrInvalidPrecision
		}

		c.sender.RelayerFeePrecision = precision
		c.redeemer.RelayerFeePrecision = precision
		p.storeConfigs(tx, c)
		return nil
	}, "precision", precision)
}

// UpdateSwapRatePrecision applies the new precision to both the sender and
// redeemer configs.
func (p *Program) UpdateSwapRatePrecision(ctx context.Context, signer solana.PublicKey, precision uint32) error {
	return p.execute(ctx, "update_swap_rate_precision", func(tx types.Tx) error {
		c, err := p.loadConfigs(tx)
		if err != nil {
			return err
		}
		if err := p.requireOwner(c, signer); err != nil {
			return err
		}
		if precision == 0 {
			return types.ErrInvalidPrecision
		}

		c.sender.SwapRatePrecision = precision
		c.redeemer.SwapRatePrecision = precision
		p.storeConfigs(tx, c)
		return nil
	}, "precision", precision)
}

func (p *Program) UpdateSwapRate(ctx context.Context, signer, mint solana.PublicKey, swapRate uint64) error {
	return p.execute(ctx, "update_swap_rate", func(tx types.Tx) error {
		c, err := p.loadConfigs(tx)
		if err != nil {
			return err
		}
		if err := p.requireAuthorized(c, signer); err != nil {
			return err
		}
		token := p.registeredToken(tx, mint)
		if !token.IsRegistered {
			return types.ErrTokenNotRegistered
		}
		if swapRate == 0 {
			return types.ErrZeroSwapRate
		}

		token.SwapRate = swapRate
		tx.Accounts().SetRegisteredToken(types.RegisteredTokenAddress(p.id, mint), token)
		return nil
	}, "mint", mint.String(), "swap_rate", swapRate)
}

func (p *Program) UpdateMaxNativeSwapAmount(ctx context.Context, signer, mint solana.PublicKey, maxNativeSwapAmount uint64) error {
	return p.execute(ctx, "update_max_native_swap_amount", func(tx types.Tx) error {
		c, err := p.loadConfigs(tx)
		if err != nil {
			return err
		}
		if err := p.requireOwner(c, signer); err != nil {
			return err
		}
		token := p.registeredToken(tx, mint)
		if !token.IsRegistered {
			return types.ErrTokenNotRegistered
		}
		if types.IsNative(mint) && maxNativeSwapAmount != 0 {
			return types.ErrSwapsNotAllowedForNativeMint
		}

		token.MaxNativeSwapAmount = maxNativeSwapAmount
		tx.Accounts().SetRegisteredToken(types.RegisteredTokenAddress(p.id, mint), token)
		return nil
	}, "mint", mint.String(), "max_native_swap_amount", maxNativeSwapAmount)
}

// SetPauseForTransfers toggles outbound transfers. Redemptions are never paused.
func (p *Program) SetPauseForTransfers(ctx context.Context, signer solana.PublicKey, paused bool) error {
	err := p.execute(ctx, "set_pause_for_transfers", func(tx types.Tx) error {
		c, err := p.loadConfigs(tx)
		if err != nil {
			return err
		}
		if err := p.requireOwner(c, signer); err != nil {
			return err
		}

		c.sender.Paused = paused
		p.storeConfigs(tx, c)
		return nil
	}, "paused", paused)
	if err == nil {
		p.metrics.SetPaused(paused)
	}
	return err
}

func (p *Program) UpdateFeeRecipient(ctx context.Context, signer, feeRecipient solana.PublicKey) error {
	return p.execute(ctx, "update_fee_recipient", func(tx types.Tx) error {
		c, err := p.loadConfigs(tx)
		if err != nil {
			return err
		}
		if err := p.requireOwner(c, signer); err != nil {
			return err
		}
		if feeRecipient.IsZero() {
			return types.ErrInvalidPublicKey
		}

		c.redeemer.FeeRecipient = feeRecipient
		p.storeConfigs(tx, c)
		return nil
	}, "fee_recipient", feeRecipient.String())
}

func (p *Program) UpdateAssistant(ctx context.Context, signer, assistant solana.PublicKey) error {
	return p.execute(ctx, "update_assistant", func(tx types.Tx) error {
		c, err := p.loadConfigs(tx)
		if err != nil {
			return err
		}
		if err := p.requireOwner(c, signer); err != nil {
			return err
		}
		if assistant.IsZero() {
			return types.ErrInvalidPublicKey
		}

		c.owner.Assistant = assistant
		p.storeConfigs(tx, c)
		return nil
	}, "assistant", assistant.String())
}
