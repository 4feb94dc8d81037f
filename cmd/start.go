package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/strangelove-ventures/token-bridge-relayer/relayer"
	"github.com/strangelove-ventures/token-bridge-relayer/types"
)

// State tracks the sends and redeems handled by this process.
var State = types.NewStateMap()

func Start(a *AppState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the relayer api over the configured ledger",
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.InitAppState()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := a.Logger
			cfg := a.Config

			flagBasedPort, err := cmd.Flags().GetInt16(flagMetricsPort)
			if err != nil {
				return err
			}
			port := cfg.MetricsPort
			if flagBasedPort != 0 {
				port = flagBasedPort
			}
			if port == 0 {
				port = 2112
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			metrics := relayer.InitPromMetrics(port)

			program, l, closeStore, err := a.openProgram(ctx,
				relayer.WithMetrics(metrics),
				relayer.WithTransfers(State),
			)
			if err != nil {
				return err
			}
			defer closeStore()

			if c, err := program.Config(ctx); err == nil {
				metrics.SetPaused(c.Sender.Paused)
			}

			router, err := NewRouter(program, logger, cfg.Api.TrustedProxies)
			if err != nil {
				return err
			}

			listen := cfg.Api.Listen
			if listen == "" {
				listen = "localhost:8000"
			}
			srv := &http.Server{
				Addr:              listen,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			go func() {
				logger.Info("Serving relayer api", "listen", listen, "program", program.ID().String(), "ledger_version", l.Version())
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("Api server stopped", "err", err)
					cancel()
				}
			}()

			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigs)

			select {
			case <-sigs:
			case <-ctx.Done():
			}

			logger.Info("Shutting down")
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	return addMetricsFlag(cmd)
}
