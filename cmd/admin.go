package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/strangelove-ventures/token-bridge-relayer/fees"
	"github.com/strangelove-ventures/token-bridge-relayer/relayer"
	"github.com/strangelove-ventures/token-bridge-relayer/types"
)

// adminCmd groups the owner and assistant instructions. Each runs once
// against the configured store, signed by the configured keypair.
func adminCmd(a *AppState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Owner and assistant instructions",
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.InitAppState()
		},
	}

	cmd.AddCommand(
		initializeCmd(a),
		registerForeignContractCmd(a),
		registerTokenCmd(a),
		deregisterTokenCmd(a),
		updateRelayerFeeCmd(a),
		updatePrecisionCmd(a, "update-relayer-fee-precision", (*relayer.Program).UpdateRelayerFeePrecision),
		updatePrecisionCmd(a, "update-swap-rate-precision", (*relayer.Program).UpdateSwapRatePrecision),
		updateSwapRateCmd(a),
		updateMaxNativeSwapAmountCmd(a),
		setPauseCmd(a),
		updateFeeRecipientCmd(a),
		updateAssistantCmd(a),
		submitOwnershipTransferCmd(a),
		confirmOwnershipTransferCmd(a),
		cancelOwnershipTransferCmd(a),
	)
	return cmd
}

func initializeCmd(a *AppState) *cobra.Command {
	return &cobra.Command{
		Use:   "initialize [fee-recipient] [assistant]",
		Short: "Initialize the program with the signer as owner",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			feeRecipient, err := parsePublicKey("fee recipient", args[0])
			if err != nil {
				return err
			}
			assistant, err := parsePublicKey("assistant", args[1])
			if err != nil {
				return err
			}
			return runInstruction(a, cmd, func(ctx context.Context, p *relayer.Program, signer solana.PublicKey) error {
				return p.Initialize(ctx, signer, feeRecipient, assistant)
			})
		},
	}
}

func registerForeignContractCmd(a *AppState) *cobra.Command {
	return &cobra.Command{
		Use:   "register-foreign-contract [chain] [address]",
		Short: "Register or replace the relayer contract on a foreign chain",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := types.ParseChainID(args[0])
			if err != nil {
				return err
			}
			address, err := types.ParseAddress(args[1])
			if err != nil {
				return err
			}
			return runInstruction(a, cmd, func(ctx context.Context, p *relayer.Program, signer solana.PublicKey) error {
				return p.RegisterForeignContract(ctx, signer, chain, address)
			})
		},
	}
}

func registerTokenCmd(a *AppState) *cobra.Command {
	return &cobra.Command{
		Use:   "register-token [mint] [swap-rate-usd] [max-native-swap-amount]",
		Short: "Register a mint for transfers",
		Long:  "Register a mint for transfers. The swap rate is the token's USD price and the maximum native swap amount is in whole native units.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			mint, err := parsePublicKey("mint", args[0])
			if err != nil {
				return err
			}
			return runInstruction(a, cmd, func(ctx context.Context, p *relayer.Program, signer solana.PublicKey) error {
				cfg, err := p.Config(ctx)
				if err != nil {
					return err
				}
				swapRate, err := fees.ScaleUSD(args[1], cfg.Sender.SwapRatePrecision)
				if err != nil {
					return err
				}
				maxNative, err := fees.ScaleAmount(args[2], a.Config.NativeDecimals)
				if err != nil {
					return err
				}
				return p.RegisterToken(ctx, signer, mint, swapRate, maxNative)
			})
		},
	}
}

func deregisterTokenCmd(a *AppState) *cobra.Command {
	return &cobra.Command{
		Use:   "deregister-token [mint]",
		Short: "Stop accepting a mint for transfers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mint, err := parsePublicKey("mint", args[0])
			if err != nil {
				return err
			}
			return runInstruction(a, cmd, func(ctx context.Context, p *relayer.Program, signer solana.PublicKey) error {
				return p.DeregisterToken(ctx, signer, mint)
			})
		},
	}
}

func updateRelayerFeeCmd(a *AppState) *cobra.Command {
	return &cobra.Command{
		Use:   "update-relayer-fee [chain] [fee-usd]",
		Short: "Set the USD fee for relaying to a chain",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := types.ParseChainID(args[0])
			if err != nil {
				return err
			}
			return runInstruction(a, cmd, func(ctx context.Context, p *relayer.Program, signer solana.PublicKey) error {
				cfg, err := p.Config(ctx)
				if err != nil {
					return err
				}
				fee, err := fees.ScaleUSD(args[1], cfg.Sender.RelayerFeePrecision)
				if err != nil {
					return err
				}
				return p.UpdateRelayerFee(ctx, signer, chain, fee)
			})
		},
	}
}

type precisionUpdate func(p *relayer.Program, ctx context.Context, signer solana.PublicKey, precision uint32) error

func updatePrecisionCmd(a *AppState, use string, update precisionUpdate) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [precision]",
		Short: "Set a precision on both the sender and redeemer configs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			precision, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid precision %q: %w", args[0], err)
			}
			return runInstruction(a, cmd, func(ctx context.Context, p *relayer.Program, signer solana.PublicKey) error {
				return update(p, ctx, signer, uint32(precision))
			})
		},
	}
}

func updateSwapRateCmd(a *AppState) *cobra.Command {
	return &cobra.Command{
		Use:   "update-swap-rate [mint] [swap-rate-usd]",
		Short: "Set a registered token's USD price",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mint, err := parsePublicKey("mint", args[0])
			if err != nil {
				return err
			}
			return runInstruction(a, cmd, func(ctx context.Context, p *relayer.Program, signer solana.PublicKey) error {
				cfg, err := p.Config(ctx)
				if err != nil {
					return err
				}
				swapRate, err := fees.ScaleUSD(args[1], cfg.Sender.SwapRatePrecision)
				if err != nil {
					return err
				}
				return p.UpdateSwapRate(ctx, signer, mint, swapRate)
			})
		},
	}
}

func updateMaxNativeSwapAmountCmd(a *AppState) *cobra.Command {
	return &cobra.Command{
		Use:   "update-max-native-swap-amount [mint] [amount]",
		Short: "Set the most native asset, in whole units, a redemption of mint may receive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mint, err := parsePublicKey("mint", args[0])
			if err != nil {
				return err
			}
			amount, err := fees.ScaleAmount(args[1], a.Config.NativeDecimals)
			if err != nil {
				return err
			}
			return runInstruction(a, cmd, func(ctx context.Context, p *relayer.Program, signer solana.PublicKey) error {
				return p.UpdateMaxNativeSwapAmount(ctx, signer, mint, amount)
			})
		},
	}
}

func setPauseCmd(a *AppState) *cobra.Command {
	return &cobra.Command{
		Use:   "set-pause [true|false]",
		Short: "Pause or resume outbound transfers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paused, err := strconv.ParseBool(args[0])
			if err != nil {
				return err
			}
			return runInstruction(a, cmd, func(ctx context.Context, p *relayer.Program, signer solana.PublicKey) error {
				return p.SetPauseForTransfers(ctx, signer, paused)
			})
		},
	}
}

func updateFeeRecipientCmd(a *AppState) *cobra.Command {
	return &cobra.Command{
		Use:   "update-fee-recipient [fee-recipient]",
		Short: "Set the wallet that receives relayer fees",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			feeRecipient, err := parsePublicKey("fee recipient", args[0])
			if err != nil {
				return err
			}
			return runInstruction(a, cmd, func(ctx context.Context, p *relayer.Program, signer solana.PublicKey) error {
				return p.UpdateFeeRecipient(ctx, signer, feeRecipient)
			})
		},
	}
}

func updateAssistantCmd(a *AppState) *cobra.Command {
	return &cobra.Command{
		Use:   "update-assistant [assistant]",
		Short: "Set the assistant allowed to update fees and swap rates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assistant, err := parsePublicKey("assistant", args[0])
			if err != nil {
				return err
			}
			return runInstruction(a, cmd, func(ctx context.Context, p *relayer.Program, signer solana.PublicKey) error {
				return p.UpdateAssistant(ctx, signer, assistant)
			})
		},
	}
}

func submitOwnershipTransferCmd(a *AppState) *cobra.Command {
	return &cobra.Command{
		Use:   "submit-ownership-transfer [new-owner]",
		Short: "Propose a new owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			newOwner, err := parsePublicKey("new owner", args[0])
			if err != nil {
				return err
			}
			return runInstruction(a, cmd, func(ctx context.Context, p *relayer.Program, signer solana.PublicKey) error {
				return p.SubmitOwnershipTransferRequest(ctx, signer, newOwner)
			})
		},
	}
}

func confirmOwnershipTransferCmd(a *AppState) *cobra.Command {
	return &cobra.Command{
		Use:   "confirm-ownership-transfer",
		Short: "Accept ownership as the pending owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstruction(a, cmd, func(ctx context.Context, p *relayer.Program, signer solana.PublicKey) error {
				return p.ConfirmOwnershipTransferRequest(ctx, signer)
			})
		},
	}
}

func cancelOwnershipTransferCmd(a *AppState) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel-ownership-transfer",
		Short: "Withdraw a pending ownership transfer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstruction(a, cmd, func(ctx context.Context, p *relayer.Program, signer solana.PublicKey) error {
				return p.CancelOwnershipTransferRequest(ctx, signer)
			})
		},
	}
}
