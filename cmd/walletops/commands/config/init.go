package config

import (
	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/walletops/cmd/walletops/shared"
	"github.com/altuslabsxyz/walletops/internal/config"
	"github.com/altuslabsxyz/walletops/internal/domain/common"
)

var initForce bool

// NewInitCmd creates the config init subcommand.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize or reconfigure config.toml interactively",
		Long: `Initialize or reconfigure the config.toml file interactively.

If a config already exists, current values are shown as defaults.
Without a terminal, --force writes the default chain settings.

Examples:
  # Interactive configuration (creates/updates ~/.walletops/config.toml)
  walletops config init

  # Write defaults without prompting
  walletops config init --force`,
		Args: cobra.NoArgs,
		RunE: shared.RunE(runInit),
	}

	cmd.Flags().BoolVarP(&initForce, "force", "f", false,
		"Write default settings without prompting, overwriting an existing config")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	c, err := shared.Container(cmd)
	if err != nil {
		return err
	}
	logger := c.Logger()
	setup := config.NewInteractiveSetup(c.Config().Home.Value)

	if initForce {
		if err := setup.WriteConfig(setup.RunWithDefaults()); err != nil {
			return err
		}
		logger.Success("Configuration saved to %s", setup.Path())
		return nil
	}

	if !config.IsInteractive() {
		return common.NewOperationalError(
			"interactive mode requires a terminal",
			"Use --force to write the default configuration",
			nil,
		)
	}

	if setup.ConfigExists() {
		logger.Info("Existing configuration found. Current values will be shown as defaults.")
	}

	cfg, err := setup.Run()
	if err != nil {
		return err
	}
	if err := config.ValidateFileConfig(cfg); err != nil {
		return err
	}
	if err := setup.WriteConfig(cfg); err != nil {
		return err
	}

	logger.Success("Configuration saved to %s", setup.Path())
	return nil
}
