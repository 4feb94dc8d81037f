package relayer

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"

	"github.com/strangelove-ventures/token-bridge-relayer/fees"
	"github.com/strangelove-ventures/token-bridge-relayer/types"
)

type RedeemRequest struct {
	// Payer submits the redemption. It is the relayer unless the recipient
	// redeems for themselves.
	Payer       solana.PublicKey
	Recipient   solana.PublicKey
	MessageHash common.Hash
}

type RedeemResult struct {
	Mint            solana.PublicKey `json:"mint"`
	Amount          uint64           `json:"amount"`
	RelayerFee      uint64           `json:"relayer_fee"`
	TokenAmountIn   uint64           `json:"token_amount_in"`
	NativeAmountOut uint64           `json:"native_amount_out"`
	// RecipientAmount is what the recipient received, in tokens or, for
	// the wrapped gas asset, in lamports.
	RecipientAmount uint64 `json:"recipient_amount"`
	SelfRedeemed    bool   `json:"self_redeemed"`
}

// redeemPlan is what the preconditions of a redemption resolve to.
type redeemPlan struct {
	configs  configs
	transfer types.AttestedTransfer
	relay    *types.TransferWithRelay
	mint     types.MintInfo
	token    types.RegisteredToken
}

// checkRedeem validates req in order. nativeToken selects whether the
// transferred token must originate on the host chain or elsewhere.
func (p *Program) checkRedeem(tx types.Tx, req RedeemRequest, nativeToken bool) (redeemPlan, error) {
	var plan redeemPlan

	bridge := tx.Bridge()
	if bridge.IsClaimed(req.MessageHash) {
		return plan, types.ErrAlreadyRedeemed
	}

	c, err := p.loadConfigs(tx)
	if err != nil {
		return plan, err
	}
	transfer, err := bridge.AttestedTransfer(req.MessageHash)
	if err != nil {
		return plan, err
	}

	var mintAddr solana.PublicKey
	if nativeToken {
		if transfer.TokenChain != types.HostChainID {
			return plan, types.ErrInvalidTransferTokenChain
		}
		mintAddr = transfer.TokenAddress.PublicKey()
	} else {
		if transfer.TokenChain == types.HostChainID {
			return plan, types.ErrInvalidTransferTokenChain
		}
		var ok bool
		if mintAddr, ok = bridge.WrappedMint(transfer.TokenChain, transfer.TokenAddress); !ok {
			return plan, fmt.Errorf("%w: no wrapped mint for %s token %s", types.ErrInvalidMint, transfer.TokenChain, transfer.TokenAddress)
		}
	}
	mint, err := tx.Token().Mint(mintAddr)
	if err != nil {
		return plan, err
	}

	token := p.registeredToken(tx, mintAddr)
	if !token.IsRegistered {
		return plan, types.ErrTokenNotRegistered
	}

	relay, err := transfer.Relay()
	if err != nil {
		return plan, err
	}
	if relay.Recipient != types.AddressFromPublicKey(req.Recipient) {
		return plan, types.ErrInvalidRecipient
	}

	foreign, ok := tx.Accounts().ForeignContract(types.ForeignContractAddress(p.id, transfer.EmitterChain))
	if !ok || foreign.Address != transfer.FromAddress {
		return plan, types.ErrInvalidForeignContract
	}
	if transfer.ToChain != types.HostChainID {
		return plan, types.ErrInvalidTransferToChain
	}
	if transfer.To != types.AddressFromPublicKey(p.redeemerConfigAddress()) {
		return plan, types.ErrInvalidTransferToAddress
	}

	return redeemPlan{
		configs:  c,
		transfer: transfer,
		relay:    relay,
		mint:     mint,
		token:    token,
	}, nil
}

// RedeemNativeTransferWithPayload redeems a transfer of a token native to the
// host chain.
func (p *Program) RedeemNativeTransferWithPayload(ctx context.Context, req RedeemRequest) (RedeemResult, error) {
	return p.redeem(ctx, "redeem_native_transfer_with_payload", req, true)
}

// RedeemWrappedTransferWithPayload redeems a transfer of a token from another
// chain, minted here by the bridge.
func (p *Program) RedeemWrappedTransferWithPayload(ctx context.Context, req RedeemRequest) (RedeemResult, error) {
	return p.redeem(ctx, "redeem_wrapped_transfer_with_payload", req, false)
}

func (p *Program) redeem(ctx context.Context, instruction string, req RedeemRequest, nativeToken bool) (RedeemResult, error) {
	var (
		result   RedeemResult
		transfer types.AttestedTransfer
	)

	err := p.execute(ctx, instruction, func(tx types.Tx) error {
		plan, err := p.checkRedeem(tx, req, nativeToken)
		if err != nil {
			return err
		}
		transfer = plan.transfer

		var (
			token    = tx.Token()
			redeemer = p.redeemerConfigAddress()
			mint     = plan.mint.Address
			custody  = types.CustodyAddress(p.id, mint)
		)

		if err := token.InitializeAccount(custody, mint, redeemer); err != nil {
			return err
		}
		inbound := types.InboundTransfer{
			Payer:       req.Payer,
			MessageHash: req.MessageHash,
			Mint:        mint,
			To:          custody,
			Redeemer:    redeemer,
		}
		if nativeToken {
			err = tx.Bridge().CompleteNativeWithPayload(inbound)
		} else {
			err = tx.Bridge().CompleteWrappedWithPayload(inbound)
		}
		if err != nil {
			return err
		}

		amount, ok := types.DenormalizeAmount(plan.transfer.Amount, plan.mint.Decimals)
		if !ok {
			return types.ErrArithmeticOverflow
		}
		relayerFee, ok := types.DenormalizeAmount(plan.relay.TargetRelayerFee, plan.mint.Decimals)
		if !ok {
			return types.ErrArithmeticOverflow
		}
		result = RedeemResult{Mint: mint, Amount: amount, RelayerFee: relayerFee}

		if types.IsNative(mint) {
			return p.unwrapToRecipient(tx, req, custody, &result)
		}
		if req.Payer.Equals(req.Recipient) {
			if err := p.payRecipient(tx, req, custody, &result); err != nil {
				return err
			}
		} else if err := p.payWithSwap(tx, req, plan, custody, &result); err != nil {
			return err
		}
		return token.CloseAccount(custody, req.Payer, redeemer)
	}, "message_hash", req.MessageHash.Hex(), "recipient", req.Recipient.String())
	if err != nil {
		return result, err
	}

	if !result.SelfRedeemed {
		p.metrics.AddRelayerFee(result.Mint.String(), result.RelayerFee)
	}
	if result.NativeAmountOut > 0 {
		p.metrics.IncNativeSwap(result.Mint.String())
	}
	p.record(&types.TransferState{
		MessageHash:     req.MessageHash.Hex(),
		Direction:       types.Redeem,
		Status:          types.Redeemed,
		Mint:            result.Mint,
		Chain:           transfer.EmitterChain,
		Sequence:        transfer.Sequence,
		Amount:          result.Amount,
		RelayerFee:      result.RelayerFee,
		ToNativeAmount:  result.TokenAmountIn,
		NativeAmountOut: result.NativeAmountOut,
		Recipient:       types.AddressFromPublicKey(req.Recipient),
		Payer:           req.Payer,
	})
	p.logger.Info("Redeemed transfer", "mint", result.Mint.String(), "chain", transfer.EmitterChain.String(),
		"sequence", transfer.Sequence, "message_hash", req.MessageHash.Hex())
	return result, nil
}

// unwrapToRecipient closes the wrapped gas asset custody into the payer and,
// when a relayer is redeeming, forwards everything but the fee as lamports.
func (p *Program) unwrapToRecipient(tx types.Tx, req RedeemRequest, custody solana.PublicKey, result *RedeemResult) error {
	if err := tx.Token().CloseAccount(custody, req.Payer, p.redeemerConfigAddress()); err != nil {
		return err
	}
	if req.Payer.Equals(req.Recipient) {
		result.SelfRedeemed = true
		result.RelayerFee = 0
		result.RecipientAmount = result.Amount
		return nil
	}
	if result.RelayerFee > result.Amount {
		return fmt.Errorf("%w: relayer fee %d exceeds amount %d", types.ErrInsufficientFunds, result.RelayerFee, result.Amount)
	}
	result.RecipientAmount = result.Amount - result.RelayerFee
	return tx.System().Transfer(req.Payer, req.Recipient, result.RecipientAmount)
}

// payRecipient handles self-redemption: the full amount, no fee or swap.
func (p *Program) payRecipient(tx types.Tx, req RedeemRequest, custody solana.PublicKey, result *RedeemResult) error {
	recipientAccount, err := ensureTokenAccount(tx, req.Recipient, result.Mint)
	if err != nil {
		return err
	}
	result.SelfRedeemed = true
	result.RelayerFee = 0
	result.RecipientAmount = result.Amount
	return tx.Token().Transfer(custody, recipientAccount, p.redeemerConfigAddress(), result.Amount)
}

// payWithSwap pays the fee recipient the relayer fee plus the tokens swapped
// for native asset, the payer sends the native asset, and the recipient
// gets the remaining tokens.
func (p *Program) payWithSwap(tx types.Tx, req RedeemRequest, plan redeemPlan, custody solana.PublicKey, result *RedeemResult) error {
	toNative, ok := types.DenormalizeAmount(plan.relay.ToNativeTokenAmount, plan.mint.Decimals)
	if !ok {
		return types.ErrArithmeticOverflow
	}

	nativeToken := p.registeredToken(tx, solana.WrappedSol)
	swap, err := fees.NativeSwapSplit(
		plan.mint.Decimals,
		toNative,
		plan.token.SwapRate,
		nativeToken.SwapRate,
		plan.configs.redeemer.SwapRatePrecision,
		plan.token.MaxNativeSwapAmount,
		p.nativeDecimals,
	)
	if err != nil {
		return err
	}
	result.TokenAmountIn = swap.TokenAmountIn
	result.NativeAmountOut = swap.NativeAmountOut

	if swap.NativeAmountOut > 0 {
		if err := tx.System().Transfer(req.Payer, req.Recipient, swap.NativeAmountOut); err != nil {
			return err
		}
	}

	var (
		token    = tx.Token()
		redeemer = p.redeemerConfigAddress()
	)

	forFeeRecipient := swap.TokenAmountIn + result.RelayerFee
	if forFeeRecipient < swap.TokenAmountIn || forFeeRecipient > result.Amount {
		return fmt.Errorf("%w: fee and swap %d exceed amount %d", types.ErrInvalidSwapCalculation, forFeeRecipient, result.Amount)
	}
	if forFeeRecipient > 0 {
		feeAccount, err := ensureTokenAccount(tx, plan.configs.redeemer.FeeRecipient, result.Mint)
		if err != nil {
			return err
		}
		if err := token.Transfer(custody, feeAccount, redeemer, forFeeRecipient); err != nil {
			return err
		}
	}

	recipientAccount, err := ensureTokenAccount(tx, req.Recipient, result.Mint)
	if err != nil {
		return err
	}
	result.RecipientAmount = result.Amount - forFeeRecipient
	return token.Transfer(custody, recipientAccount, redeemer, result.RecipientAmount)
}
