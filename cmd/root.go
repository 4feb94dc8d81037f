package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/strangelove-ventures/token-bridge-relayer/ledger"
	"github.com/strangelove-ventures/token-bridge-relayer/relayer"
	"github.com/strangelove-ventures/token-bridge-relayer/store"
)

const (
	appName           = "token-bridge-relayer"
	defaultConfigPath = "./config.yaml"
)

// NewRootCmd returns the root command for the relayer.
func NewRootCmd(a *AppState) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "A token bridge relayer with native gas drop-off",
	}

	rootCmd.AddCommand(
		Start(a),
		adminCmd(a),
		sendCmd(a),
		redeemCmd(a),
		quoteCmd(a),
		queryCmd(a),
		configShowCmd(a),
		versionCmd(),
	)

	return addAppPersistantFlags(rootCmd, a)
}

func Execute() {
	a := NewAppState()
	if err := NewRootCmd(a).Execute(); err != nil {
		if a.Logger != nil {
			a.Logger.Error(err.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// openProgram opens the configured snapshot store and loads the ledger,
// writing genesis if the store is empty. The returned func closes the store.
func (a *AppState) openProgram(ctx context.Context, opts ...relayer.Option) (*relayer.Program, *ledger.Ledger, func(), error) {
	cfg := a.Config

	programID, err := solana.PublicKeyFromBase58(cfg.ProgramID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid program-id: %w", err)
	}

	genesis, err := ledger.GenesisFromConfig(cfg.Bridge, cfg.Genesis)
	if err != nil {
		return nil, nil, nil, err
	}

	snapshots, err := store.New(cfg.Store)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Backend, err)
	}
	closeStore := func() {
		if err := snapshots.Close(); err != nil {
			a.Logger.Error("Failed to close store", "err", err)
		}
	}

	l, err := ledger.New(ctx, a.Logger, snapshots, genesis)
	if err != nil {
		closeStore()
		return nil, nil, nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	opts = append([]relayer.Option{relayer.WithNativeDecimals(cfg.NativeDecimals)}, opts...)
	return relayer.NewProgram(l, programID, a.Logger, opts...), l, closeStore, nil
}

// runInstruction loads the signer and the program and runs fn once.
func runInstruction(a *AppState, cmd *cobra.Command, fn func(ctx context.Context, p *relayer.Program, signer solana.PublicKey) error) error {
	key, err := a.signer()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	p, _, closeStore, err := a.openProgram(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	return fn(ctx, p, key.PublicKey())
}

func parsePublicKey(name, s string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return key, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return key, nil
}
