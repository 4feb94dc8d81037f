package relayer

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"

	"github.com/strangelove-ventures/token-bridge-relayer/fees"
	"github.com/strangelove-ventures/token-bridge-relayer/types"
)

// Quote is what a send of mint to chain costs at current rates, and what a
// relayer would pay out in native asset for toNativeAmount on redemption.
type Quote struct {
	Chain    types.ChainID    `json:"chain"`
	Mint     solana.PublicKey `json:"mint"`
	Decimals uint8            `json:"decimals"`
	// RelayerFee is in the token's smallest unit, NormalizedRelayerFee in
	// bridge units as it appears in the payload.
	RelayerFee           uint64    `json:"relayer_fee"`
	NormalizedRelayerFee uint64    `json:"normalized_relayer_fee"`
	MaxSwapAmountIn      uint64    `json:"max_swap_amount_in"`
	Swap                 fees.Swap `json:"swap"`
}

// Config is the program's singleton configuration.
type Config struct {
	Sender   types.SenderConfig   `json:"sender"`
	Redeemer types.RedeemerConfig `json:"redeemer"`
	Owner    types.OwnerConfig    `json:"owner"`
}

func (p *Program) Config(ctx context.Context) (Config, error) {
	var cfg Config
	err := p.ledger.View(ctx, func(tx types.Tx) error {
		c, err := p.loadConfigs(tx)
		if err != nil {
			return err
		}
		cfg = Config{Sender: c.sender, Redeemer: c.redeemer, Owner: c.owner}
		return nil
	})
	return cfg, err
}

// RegisteredToken returns the registration of mint. Unregistered mints return
// the zero value.
func (p *Program) RegisteredToken(ctx context.Context, mint solana.PublicKey) (types.RegisteredToken, error) {
	var token types.RegisteredToken
	err := p.ledger.View(ctx, func(tx types.Tx) error {
		token = p.registeredToken(tx, mint)
		return nil
	})
	return token, err
}

func (p *Program) ForeignContract(ctx context.Context, chain types.ChainID) (types.ForeignContract, error) {
	var contract types.ForeignContract
	err := p.ledger.View(ctx, func(tx types.Tx) error {
		var ok bool
		if contract, ok = tx.Accounts().ForeignContract(types.ForeignContractAddress(p.id, chain)); !ok {
			return types.ErrForeignContractNotRegistered
		}
		return nil
	})
	return contract, err
}

func (p *Program) RelayerFee(ctx context.Context, chain types.ChainID) (types.RelayerFee, error) {
	var fee types.RelayerFee
	err := p.ledger.View(ctx, func(tx types.Tx) error {
		var ok bool
		if fee, ok = tx.Accounts().RelayerFee(types.RelayerFeeAddress(p.id, chain)); !ok {
			return types.ErrRelayerFeeNotSet
		}
		return nil
	})
	return fee, err
}

// IsRedeemed reports whether the bridge holds a claim record for hash.
func (p *Program) IsRedeemed(ctx context.Context, hash common.Hash) (bool, error) {
	var claimed bool
	err := p.ledger.View(ctx, func(tx types.Tx) error {
		claimed = tx.Bridge().IsClaimed(hash)
		return nil
	})
	return claimed, err
}

// Message returns an outbound message posted by the bridge.
func (p *Program) Message(ctx context.Context, sequence uint64) (types.PostedMessage, error) {
	var msg types.PostedMessage
	err := p.ledger.View(ctx, func(tx types.Tx) error {
		var err error
		msg, err = tx.Bridge().Message(sequence)
		return err
	})
	return msg, err
}

// Transfer returns a send or redeem recorded by this process.
func (p *Program) Transfer(hash string) (*types.TransferState, bool) {
	if p.transfers == nil {
		return nil, false
	}
	return p.transfers.Load(hash)
}

// Quote prices a transfer of mint to chain. toNativeAmount is in the token's
// smallest unit.
func (p *Program) Quote(ctx context.Context, chain types.ChainID, mint solana.PublicKey, toNativeAmount uint64) (Quote, error) {
	q := Quote{Chain: chain, Mint: mint}
	err := p.ledger.View(ctx, func(tx types.Tx) error {
		c, err := p.loadConfigs(tx)
		if err != nil {
			return err
		}
		token := p.registeredToken(tx, mint)
		if !token.IsRegistered {
			return types.ErrTokenNotRegistered
		}
		relayerFee, ok := tx.Accounts().RelayerFee(types.RelayerFeeAddress(p.id, chain))
		if !ok {
			return types.ErrRelayerFeeNotSet
		}
		info, err := tx.Token().Mint(mint)
		if err != nil {
			return err
		}
		q.Decimals = info.Decimals

		if q.RelayerFee, err = fees.TokenFee(
			relayerFee.Fee,
			info.Decimals,
			token.SwapRate,
			c.sender.SwapRatePrecision,
			c.sender.RelayerFeePrecision,
		); err != nil {
			return err
		}
		q.NormalizedRelayerFee = types.NormalizeAmount(q.RelayerFee, info.Decimals)

		// the native asset itself is never swapped
		if types.IsNative(mint) {
			return nil
		}
		native := p.registeredToken(tx, solana.WrappedSol)
		if !native.IsRegistered {
			return nil
		}
		nativeSwapRate, err := fees.NativeSwapRate(native.SwapRate, token.SwapRate, c.redeemer.SwapRatePrecision)
		if err != nil {
			return err
		}
		if q.MaxSwapAmountIn, err = fees.MaxSwapAmountIn(
			info.Decimals,
			nativeSwapRate,
			c.redeemer.SwapRatePrecision,
			token.MaxNativeSwapAmount,
			p.nativeDecimals,
		); err != nil {
			return err
		}
		q.Swap, err = fees.NativeSwapSplit(
			info.Decimals,
			types.TruncateAmount(toNativeAmount, info.Decimals),
			token.SwapRate,
			native.SwapRate,
			c.redeemer.SwapRatePrecision,
			token.MaxNativeSwapAmount,
			p.nativeDecimals,
		)
		return err
	})
	return q, err
}
