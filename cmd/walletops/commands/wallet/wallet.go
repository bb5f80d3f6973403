// Package wallet provides the commands that manage the encrypted wallet file.
package wallet

import (
	"github.com/spf13/cobra"
)

// NewWalletCmd creates the wallet parent command with all subcommands.
func NewWalletCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Manage wallets",
		Long: `Manage the wallets stored in user_config.yml.

Seeds are encrypted with the wallet password. Every wallet in the file is
expected to share the same password.

Subcommands:
  add     Create or import a wallet
  list    List wallet names and addresses
  remove  Delete a wallet from the file`,
	}

	cmd.AddCommand(
		newAddCmd(),
		newListCmd(),
		newRemoveCmd(),
	)

	return cmd
}
