// Package config provides configuration management commands for walletops.
package config

import "github.com/spf13/cobra"

// NewConfigCmd creates the config parent command with all subcommands.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage walletops configuration.

Subcommands:
  init    Create or update config.toml
  show    Display current effective configuration with sources

Examples:
  # Interactive setup
  walletops config init

  # Show current configuration
  walletops config show`,
	}

	cmd.AddCommand(
		NewInitCmd(),
		NewShowCmd(),
	)

	return cmd
}
