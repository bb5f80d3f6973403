package wallet

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/walletops/cmd/walletops/shared"
	"github.com/altuslabsxyz/walletops/internal/domain/common"
	"github.com/altuslabsxyz/walletops/internal/interactive"
	"github.com/altuslabsxyz/walletops/internal/wallet"
)

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a wallet from the file",
		Long: `Delete a wallet from user_config.yml.

The seed is gone for good unless you kept its recovery phrase.`,
		Args: cobra.ExactArgs(1),
		RunE: shared.RunE(func(cmd *cobra.Command, args []string) error {
			c, err := shared.Container(cmd)
			if err != nil {
				return err
			}
			store, err := c.WalletStore()
			if err != nil {
				return err
			}

			name := args[0]
			e, ok := store.Get(name)
			if !ok {
				return common.NewOperationalError(fmt.Sprintf("wallet %q not found", name),
					"run 'walletops wallet list' to see configured wallets", wallet.ErrNotFound)
			}

			if !shared.AssumeYes(cmd) {
				if !shared.IsTerminal() {
					return common.NewOperationalError("refusing to remove a wallet without confirmation", "pass --yes", nil)
				}
				ok, err := interactive.Confirm(fmt.Sprintf("Remove %s (%s)", e.Name, e.Address))
				if err != nil {
					return err
				}
				if !ok {
					c.Logger().Info("Nothing changed.")
					return nil
				}
			}

			if err := store.Remove(name); err != nil {
				return err
			}
			if err := store.Save(); err != nil {
				return err
			}
			c.Logger().Success("Removed wallet %s", name)
			return nil
		}),
	}
}
