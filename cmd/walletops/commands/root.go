// Package commands provides the CLI command implementations for walletops.
// This file defines the root command and registers all subcommands.
package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	configcmd "github.com/altuslabsxyz/walletops/cmd/walletops/commands/config"
	"github.com/altuslabsxyz/walletops/cmd/walletops/commands/query"
	"github.com/altuslabsxyz/walletops/cmd/walletops/commands/tx"
	walletcmd "github.com/altuslabsxyz/walletops/cmd/walletops/commands/wallet"
	"github.com/altuslabsxyz/walletops/internal/config"
	"github.com/altuslabsxyz/walletops/internal/di"
	"github.com/altuslabsxyz/walletops/internal/output"
	"github.com/altuslabsxyz/walletops/internal/version"
)

// Command group IDs for organized help output.
const (
	GroupTx     = "tx"
	GroupQuery  = "query"
	GroupConfig = "config"
)

// Local variables for flag binding (Cobra requires pointers to local vars)
var (
	homeDir    string
	jsonMode   bool
	noColor    bool
	verbose    bool
	assumeYes  bool
	configPath string

	container *di.Container
)

// DefaultHomeDir returns the default home directory for walletops data.
func DefaultHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".walletops"
	}
	return filepath.Join(home, ".walletops")
}

// NewRootCmd creates the root command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "walletops",
		Short: "Vote, stake, swap and manage liquidity from a set of wallets",
		Long: `walletops signs and broadcasts wallet operations on a Cosmos SDK chain.

Every transaction is simulated first, its fee is shown for confirmation, and
sequence mismatches or out-of-gas results are retried automatically.

Examples:
  # Add a wallet (a new 24-word seed is generated)
  walletops wallet add main

  # Vote on a proposal in voting period
  walletops vote

  # Withdraw rewards, swap and delegate for every wallet
  walletops manage --action A

  # Delegate without the confirmation prompt
  walletops delegate --validator terravaloper1... --amount 1000000uluna --yes`,
		PersistentPreRunE: persistentPreRunE,
		SilenceErrors:     true,
	}

	// Global flags available on all commands
	cmd.PersistentFlags().StringVarP(&homeDir, "home", "H", DefaultHomeDir(),
		"Base directory for walletops data")
	cmd.PersistentFlags().BoolVar(&jsonMode, "json", false,
		"Output in JSON format")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable colored output")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose logging")
	cmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false,
		"Approve every transaction without prompting")
	cmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config.toml file")

	cmd.AddGroup(&cobra.Group{ID: GroupTx, Title: "Transaction Commands:"})
	cmd.AddGroup(&cobra.Group{ID: GroupQuery, Title: "Query Commands:"})
	cmd.AddGroup(&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"})

	registerCommands(cmd)

	return cmd
}

// persistentPreRunE builds the effective configuration and the dependency container.
// Priority: default < config.toml < env < flag
func persistentPreRunE(cmd *cobra.Command, args []string) error {
	output.DefaultLogger.SetNoColor(noColor)
	output.DefaultLogger.SetVerbose(verbose)

	searchHome := homeDir
	if !cmd.Flags().Changed("home") {
		if env := os.Getenv(config.EnvPrefix + "HOME"); env != "" {
			searchHome = env
		}
	}

	loader := config.NewConfigLoader(searchHome, configPath, output.DefaultLogger)
	fileCfg, configFilePath, err := loader.LoadFileConfig()
	if err != nil {
		return err
	}

	cfg := config.NewEffectiveConfig(DefaultHomeDir())
	if err := cfg.ApplyFile(fileCfg, configFilePath); err != nil {
		return err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}
	config.ApplyStringFlag(cmd, "home", &cfg.Home)
	config.ApplyBoolFlag(cmd, "verbose", &cfg.Verbose)
	config.ApplyBoolFlag(cmd, "json", &cfg.JSON)
	config.ApplyBoolFlag(cmd, "no-color", &cfg.NoColor)
	cfg.Finalize()

	if err := cfg.Validate(); err != nil {
		cmd.SilenceUsage = true
		return err
	}

	// Apply global configuration to logger
	output.DefaultLogger.SetNoColor(cfg.NoColor.Value)
	output.DefaultLogger.SetVerbose(cfg.Verbose.Value)
	output.DefaultLogger.SetJSONMode(cfg.JSON.Value)

	if configFilePath != "" {
		output.DefaultLogger.Debug("Using config file: %s", configFilePath)
	}

	container = di.New(cfg, di.WithLogger(output.DefaultLogger))
	cmd.SetContext(di.WithContainer(cmd.Context(), container))
	return nil
}

// Close releases the resources held by the container of the last command.
func Close() {
	if container == nil {
		return
	}
	if err := container.Close(); err != nil {
		output.DefaultLogger.Debug("Closing chain connection: %v", err)
	}
}

// registerCommands registers all subcommands with appropriate group assignments.
func registerCommands(rootCmd *cobra.Command) {
	txCmds := []*cobra.Command{
		tx.NewVoteCmd(),
		tx.NewDelegateCmd(),
		tx.NewWithdrawCmd(),
		tx.NewSwapCmd(),
		tx.NewPoolCmd(),
		tx.NewManageCmd(),
	}
	for _, c := range txCmds {
		c.GroupID = GroupTx
	}

	queryCmds := []*cobra.Command{
		query.NewProposalsCmd(),
		query.NewStatusCmd(),
		query.NewBalancesCmd(),
	}
	for _, c := range queryCmds {
		c.GroupID = GroupQuery
	}

	walletCmd := walletcmd.NewWalletCmd()
	walletCmd.GroupID = GroupConfig
	configCmd := configcmd.NewConfigCmd()
	configCmd.GroupID = GroupConfig

	rootCmd.AddCommand(txCmds...)
	rootCmd.AddCommand(queryCmds...)
	rootCmd.AddCommand(
		walletCmd,
		configCmd,
		version.NewCmd("walletops"),
	)
}
