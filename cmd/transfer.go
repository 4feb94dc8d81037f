package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/strangelove-ventures/token-bridge-relayer/fees"
	"github.com/strangelove-ventures/token-bridge-relayer/relayer"
	"github.com/strangelove-ventures/token-bridge-relayer/types"
)

func sendCmd(a *AppState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send [chain] [recipient] [mint] [amount]",
		Short: "Bridge tokens to a foreign chain with relay instructions",
		Long:  "Bridge tokens to a foreign chain with relay instructions. Amounts are in whole token units.",
		Args:  cobra.ExactArgs(4),
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.InitAppState()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := types.ParseChainID(args[0])
			if err != nil {
				return err
			}
			recipient, err := types.ParseAddress(args[1])
			if err != nil {
				return err
			}
			mint, err := parsePublicKey("mint", args[2])
			if err != nil {
				return err
			}
			toNative, err := cmd.Flags().GetString(flagToNative)
			if err != nil {
				return err
			}
			wrapNative, err := cmd.Flags().GetBool(flagWrapNative)
			if err != nil {
				return err
			}
			nonce, err := cmd.Flags().GetUint32(flagNonce)
			if err != nil {
				return err
			}
			wrapped, err := cmd.Flags().GetBool(flagWrapped)
			if err != nil {
				return err
			}

			return runInstruction(a, cmd, func(ctx context.Context, p *relayer.Program, signer solana.PublicKey) error {
				quote, err := p.Quote(ctx, chain, mint, 0)
				if err != nil {
					return err
				}
				req := relayer.SendRequest{
					Payer:            signer,
					Mint:             mint,
					RecipientChain:   chain,
					RecipientAddress: recipient,
					Nonce:            nonce,
					WrapNative:       wrapNative,
				}
				if req.Amount, err = fees.ScaleAmount(args[3], quote.Decimals); err != nil {
					return err
				}
				if req.ToNativeTokenAmount, err = fees.ScaleAmount(toNative, quote.Decimals); err != nil {
					return err
				}

				send := p.SendNativeTokensWithPayload
				if wrapped {
					send = p.SendWrappedTokensWithPayload
				}
				result, err := send(ctx, req)
				if err != nil {
					return err
				}
				return printJSON(cmd, result)
			})
		},
	}
	return addSendFlags(cmd)
}

func redeemCmd(a *AppState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "redeem [message-hash] [recipient]",
		Short: "Redeem an attested transfer, paying out fees and native gas",
		Args:  cobra.ExactArgs(2),
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.InitAppState()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := parseMessageHash(args[0])
			if err != nil {
				return err
			}
			recipient, err := parsePublicKey("recipient", args[1])
			if err != nil {
				return err
			}
			wrapped, err := cmd.Flags().GetBool(flagWrapped)
			if err != nil {
				return err
			}

			return runInstruction(a, cmd, func(ctx context.Context, p *relayer.Program, signer solana.PublicKey) error {
				req := relayer.RedeemRequest{Payer: signer, Recipient: recipient, MessageHash: hash}
				redeem := p.RedeemNativeTransferWithPayload
				if wrapped {
					redeem = p.RedeemWrappedTransferWithPayload
				}
				result, err := redeem(ctx, req)
				if err != nil {
					return err
				}
				return printJSON(cmd, result)
			})
		},
	}
	cmd.Flags().Bool(flagWrapped, false, "the transfer is of a token that is foreign to this chain")
	return cmd
}

func quoteCmd(a *AppState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote [chain] [mint]",
		Short: "Price the relayer fee and native swap for a transfer",
		Args:  cobra.ExactArgs(2),
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.InitAppState()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := types.ParseChainID(args[0])
			if err != nil {
				return err
			}
			mint, err := parsePublicKey("mint", args[1])
			if err != nil {
				return err
			}
			toNative, err := cmd.Flags().GetString(flagToNative)
			if err != nil {
				return err
			}
			jsn, err := cmd.Flags().GetBool(flagJSON)
			if err != nil {
				return err
			}

			p, _, closeStore, err := a.openProgram(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			// decimals come from a first quote without a swap
			quote, err := p.Quote(cmd.Context(), chain, mint, 0)
			if err != nil {
				return err
			}
			amount, err := fees.ScaleAmount(toNative, quote.Decimals)
			if err != nil {
				return err
			}
			if amount > 0 {
				if quote, err = p.Quote(cmd.Context(), chain, mint, amount); err != nil {
					return err
				}
			}

			if jsn {
				return printJSON(cmd, quote)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "relayer fee:          %s\n", fees.FormatAmount(quote.RelayerFee, quote.Decimals))
			fmt.Fprintf(out, "max swap amount in:   %s\n", fees.FormatAmount(quote.MaxSwapAmountIn, quote.Decimals))
			fmt.Fprintf(out, "swap amount in:       %s\n", fees.FormatAmount(quote.Swap.TokenAmountIn, quote.Decimals))
			fmt.Fprintf(out, "native amount out:    %s\n", fees.FormatAmount(quote.Swap.NativeAmountOut, a.Config.NativeDecimals))
			return nil
		},
	}
	cmd.Flags().String(flagToNative, "0", "amount of the token, in whole units, to swap for native gas")
	return addJsonFlag(cmd)
}

// queryCmd reads program accounts without signing.
func queryCmd(a *AppState) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "query",
		Aliases: []string{"q"},
		Short:   "Query program accounts",
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.InitAppState()
		},
	}

	query := func(use, short string, nargs int, fn func(ctx context.Context, p *relayer.Program, args []string) (any, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.ExactArgs(nargs),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, _, closeStore, err := a.openProgram(cmd.Context())
				if err != nil {
					return err
				}
				defer closeStore()

				res, err := fn(cmd.Context(), p, args)
				if err != nil {
					return err
				}
				return printJSON(cmd, res)
			},
		}
	}

	cmd.AddCommand(
		query("config", "Show the sender, redeemer and owner configs", 0, func(ctx context.Context, p *relayer.Program, _ []string) (any, error) {
			return p.Config(ctx)
		}),
		query("token [mint]", "Show a registered token", 1, func(ctx context.Context, p *relayer.Program, args []string) (any, error) {
			mint, err := parsePublicKey("mint", args[0])
			if err != nil {
				return nil, err
			}
			return p.RegisteredToken(ctx, mint)
		}),
		query("foreign-contract [chain]", "Show the registered contract for a chain", 1, func(ctx context.Context, p *relayer.Program, args []string) (any, error) {
			chain, err := types.ParseChainID(args[0])
			if err != nil {
				return nil, err
			}
			return p.ForeignContract(ctx, chain)
		}),
		query("relayer-fee [chain]", "Show the USD relayer fee for a chain", 1, func(ctx context.Context, p *relayer.Program, args []string) (any, error) {
			chain, err := types.ParseChainID(args[0])
			if err != nil {
				return nil, err
			}
			return p.RelayerFee(ctx, chain)
		}),
		query("message [sequence]", "Show an outbound bridge message", 1, func(ctx context.Context, p *relayer.Program, args []string) (any, error) {
			sequence, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return nil, err
			}
			return p.Message(ctx, sequence)
		}),
		query("redeemed [message-hash]", "Check whether a transfer was redeemed", 1, func(ctx context.Context, p *relayer.Program, args []string) (any, error) {
			hash, err := parseMessageHash(args[0])
			if err != nil {
				return nil, err
			}
			return p.IsRedeemed(ctx, hash)
		}),
	)
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
