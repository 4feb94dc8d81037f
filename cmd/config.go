package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/strangelove-ventures/token-bridge-relayer/types"
)

// Command for printing current configuration
func configShowCmd(a *AppState) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "showConfig",
		Aliases: []string{"sc"},
		Short:   "Prints current configuration. By default it prints in yaml",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.InitAppState()
			return nil
		},
		Example: strings.TrimSpace(fmt.Sprintf(`
$ %s showConfig --config %s
$ %s sc`, appName, defaultConfigPath, appName)),
		RunE: func(cmd *cobra.Command, args []string) error {

			jsn, err := cmd.Flags().GetBool(flagJSON)
			if err != nil {
				return err
			}

			switch {
			case jsn:
				out, err := json.Marshal(a.Config)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			default:
				out, err := yaml.Marshal(a.Config)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}
		},
	}
	addJsonFlag(cmd)
	return cmd
}

// ParseConfig parses the app config file
func ParseConfig(file string) (*types.Config, error) {
	cfg, err := types.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("error parsing config %s: %w", file, err)
	}
	return &cfg, nil
}
