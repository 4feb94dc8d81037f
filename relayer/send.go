package relayer

import (
	"context"
	"math/bits"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"

	"github.com/strangelove-ventures/token-bridge-relayer/fees"
	"github.com/strangelove-ventures/token-bridge-relayer/types"
)

type SendRequest struct {
	Payer               solana.PublicKey
	Mint                solana.PublicKey
	Amount              uint64
	ToNativeTokenAmount uint64
	RecipientChain      types.ChainID
	RecipientAddress    types.Address
	Nonce               uint32
	// WrapNative sends the payer's lamports instead of a token balance. Only
	// valid for native sends of the wrapped gas asset.
	WrapNative bool
}

type SendResult struct {
	Sequence       uint64                  `json:"sequence"`
	MessageAddress solana.PublicKey        `json:"message_address"`
	MessageHash    common.Hash             `json:"message_hash"`
	Amount         uint64                  `json:"amount"`
	RelayerFee     uint64                  `json:"relayer_fee"`
	Payload        types.TransferWithRelay `json:"payload"`
}

// sendPlan is what the preconditions of a send resolve to.
type sendPlan struct {
	foreign  types.ForeignContract
	amount   uint64
	tokenFee uint64
	relay    types.TransferWithRelay
}

// checkSend validates req in order and computes the transfer. It does not
// write to the ledger.
func (p *Program) checkSend(tx types.Tx, req SendRequest) (sendPlan, error) {
	var plan sendPlan

	c, err := p.loadConfigs(tx)
	if err != nil {
		return plan, err
	}
	if c.sender.Paused {
		return plan, types.ErrOutboundTransfersPaused
	}
	token := p.registeredToken(tx, req.Mint)
	if !token.IsRegistered {
		return plan, types.ErrTokenNotRegistered
	}
	if !req.RecipientChain.IsForeign() || req.RecipientAddress.IsZero() {
		return plan, types.ErrInvalidRecipient
	}

	accts := tx.Accounts()
	foreign, ok := accts.ForeignContract(types.ForeignContractAddress(p.id, req.RecipientChain))
	if !ok {
		return plan, types.ErrForeignContractNotRegistered
	}
	relayerFee, ok := accts.RelayerFee(types.RelayerFeeAddress(p.id, req.RecipientChain))
	if !ok {
		return plan, types.ErrRelayerFeeNotSet
	}

	mint, err := tx.Token().Mint(req.Mint)
	if err != nil {
		return plan, err
	}

	// Only whole multiples of the bridge's 8 decimals are bridged.
	truncated := types.TruncateAmount(req.Amount, mint.Decimals)
	if truncated == 0 {
		return plan, types.ErrZeroBridgeAmount
	}

	normalizedToNative := types.NormalizeAmount(req.ToNativeTokenAmount, mint.Decimals)
	if req.ToNativeTokenAmount != 0 && normalizedToNative == 0 {
		return plan, types.ErrInvalidToNativeAmount
	}

	tokenFee, err := fees.TokenFee(
		relayerFee.Fee,
		mint.Decimals,
		token.SwapRate,
		c.sender.SwapRatePrecision,
		c.sender.RelayerFeePrecision,
	)
	if err != nil {
		return plan, err
	}

	normalizedFee := types.NormalizeAmount(tokenFee, mint.Decimals)
	deductions, carry := bits.Add64(normalizedFee, normalizedToNative, 0)
	if carry != 0 || types.NormalizeAmount(req.Amount, mint.Decimals) <= deductions {
		return plan, types.ErrInsufficientFunds
	}

	if req.WrapNative && !types.IsNative(req.Mint) {
		return plan, types.ErrNativeMintRequired
	}

	return sendPlan{
		foreign:  foreign,
		amount:   truncated,
		tokenFee: tokenFee,
		relay: types.TransferWithRelay{
			TargetRelayerFee:    normalizedFee,
			ToNativeTokenAmount: normalizedToNative,
			Recipient:           req.RecipientAddress,
		},
	}, nil
}

// SendNativeTokensWithPayload bridges a token native to the host chain.
func (p *Program) SendNativeTokensWithPayload(ctx context.Context, req SendRequest) (SendResult, error) {
	return p.send(ctx, "send_native_tokens_with_payload", req, types.TokenBridge.TransferNativeWithPayload)
}

// SendWrappedTokensWithPayload bridges a bridge-wrapped token back out.
func (p *Program) SendWrappedTokensWithPayload(ctx context.Context, req SendRequest) (SendResult, error) {
	req.WrapNative = false
	return p.send(ctx, "send_wrapped_tokens_with_payload", req, types.TokenBridge.TransferWrappedWithPayload)
}

type bridgeTransfer func(types.TokenBridge, types.OutboundTransfer) (uint64, error)

func (p *Program) send(ctx context.Context, instruction string, req SendRequest, transfer bridgeTransfer) (SendResult, error) {
	var result SendResult

	err := p.execute(ctx, instruction, func(tx types.Tx) error {
		plan, err := p.checkSend(tx, req)
		if err != nil {
			return err
		}

		var (
			token   = tx.Token()
			bridge  = tx.Bridge()
			sender  = p.senderConfigAddress()
			custody = types.CustodyAddress(p.id, req.Mint)
		)

		// Stage the principal in the transfer-scoped custody account.
		if err := token.InitializeAccount(custody, req.Mint, sender); err != nil {
			return err
		}
		if req.WrapNative {
			if err := tx.System().Transfer(req.Payer, custody, plan.amount); err != nil {
				return err
			}
			if err := token.SyncNative(custody); err != nil {
				return err
			}
		} else {
			from, _, err := solana.FindAssociatedTokenAddress(req.Payer, req.Mint)
			if err != nil {
				return err
			}
			if err := token.Transfer(from, custody, req.Payer, plan.amount); err != nil {
				return err
			}
		}

		if err := token.Approve(custody, bridge.Outbound().AuthoritySigner, sender, plan.amount); err != nil {
			return err
		}

		messageAddress := types.BridgedMessageAddress(p.id, bridge.NextSequence())
		sequence, err := transfer(bridge, types.OutboundTransfer{
			Payer:          req.Payer,
			From:           custody,
			Mint:           req.Mint,
			Sender:         sender,
			Amount:         plan.amount,
			Nonce:          req.Nonce,
			ToChain:        req.RecipientChain,
			To:             plan.foreign.Address,
			Payload:        plan.relay.Encode(),
			MessageAddress: messageAddress,
		})
		if err != nil {
			return err
		}
		msg, err := bridge.Message(sequence)
		if err != nil {
			return err
		}

		if err := token.CloseAccount(custody, req.Payer, sender); err != nil {
			return err
		}

		result = SendResult{
			Sequence:       sequence,
			MessageAddress: messageAddress,
			MessageHash:    msg.Transfer.Hash(),
			Amount:         plan.amount,
			RelayerFee:     plan.tokenFee,
			Payload:        plan.relay,
		}
		return nil
	}, "mint", req.Mint.String(), "chain", req.RecipientChain.String(), "amount", req.Amount)
	if err != nil {
		return result, err
	}

	p.metrics.AddSent(req.Mint.String(), req.RecipientChain.String(), result.Amount)
	p.record(&types.TransferState{
		MessageHash:    result.MessageHash.Hex(),
		Direction:      types.Send,
		Status:         types.Sent,
		Mint:           req.Mint,
		Chain:          req.RecipientChain,
		Sequence:       result.Sequence,
		Amount:         result.Amount,
		RelayerFee:     result.RelayerFee,
		ToNativeAmount: req.ToNativeTokenAmount,
		Recipient:      req.RecipientAddress,
		Payer:          req.Payer,
	})
	p.logger.Info("Bridged tokens", "mint", req.Mint.String(), "chain", req.RecipientChain.String(),
		"sequence", result.Sequence, "message_hash", result.MessageHash.Hex())
	return result, nil
}

// record stores a transfer in the optional transfer map.
func (p *Program) record(state *types.TransferState) {
	if p.transfers == nil {
		return
	}
	now := time.Now()
	if existing, ok := p.transfers.Load(state.MessageHash); ok {
		state.Created = existing.Created
	} else {
		state.Created = now
	}
	state.Updated = now
	p.transfers.Store(state.MessageHash, state)
}
