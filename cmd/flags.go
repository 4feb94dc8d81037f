package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	flagConfigPath  = "config"
	flagEnvFile     = "env-file"
	flagVerbose     = "verbose"
	flagLogLevel    = "log-level"
	flagJSON        = "json"
	flagMetricsPort = "metrics-port"

	flagToNative   = "to-native"
	flagWrapNative = "wrap-native"
	flagNonce      = "nonce"
	flagWrapped    = "wrapped"
)

func addAppPersistantFlags(cmd *cobra.Command, a *AppState) *cobra.Command {
	cmd.PersistentFlags().StringVar(&a.ConfigPath, flagConfigPath, defaultConfigPath, "file path of config file")
	cmd.PersistentFlags().StringVar(&a.EnvFile, flagEnvFile, ".env", "file path of an optional .env file")
	cmd.PersistentFlags().BoolVarP(&a.Debug, flagVerbose, "v", false, fmt.Sprintf("use this flag to set log level to `debug` (overrides %s flag)", flagLogLevel))
	cmd.PersistentFlags().StringVar(&a.LogLevel, flagLogLevel, "info", "log level (debug, info, warn, error)")
	return cmd
}

func addMetricsFlag(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().Int16P(flagMetricsPort, "p", 0, "customize Prometheus metrics port (overrides metrics-port in the config)")
	return cmd
}

func addJsonFlag(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().Bool(flagJSON, false, "return in json format")
	return cmd
}

func addSendFlags(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().String(flagToNative, "0", "amount of the token, in whole units, to swap for native gas on redemption")
	cmd.Flags().Bool(flagWrapNative, false, "send lamports instead of a wrapped native token balance")
	cmd.Flags().Uint32(flagNonce, 0, "bridge message nonce")
	cmd.Flags().Bool(flagWrapped, false, "the mint was created by the bridge for a foreign token")
	return cmd
}
