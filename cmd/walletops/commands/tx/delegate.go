package tx

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/walletops/cmd/walletops/shared"
	"github.com/altuslabsxyz/walletops/internal/wallet"
	"github.com/altuslabsxyz/walletops/pkg/network"
	"github.com/altuslabsxyz/walletops/pkg/network/cosmos"
)

// NewDelegateCmd creates the delegate command.
func NewDelegateCmd() *cobra.Command {
	var (
		wallets   shared.WalletFlags
		validator string
		amount    string
	)

	cmd := &cobra.Command{
		Use:   "delegate",
		Short: "Delegate stake to a validator",
		Long: `Delegate stake from one or more wallets to a validator.

Examples:
  walletops delegate --validator terravaloper1... --amount 1000000uluna
  walletops delegate --validator terravaloper1... --amount 5000000uluna -w main --yes`,
		Args: cobra.NoArgs,
		RunE: shared.RunE(func(cmd *cobra.Command, args []string) error {
			c, err := shared.Container(cmd)
			if err != nil {
				return err
			}
			if validator == "" {
				return fmt.Errorf("--validator is required")
			}
			coin, err := cosmos.ParseAmount(amount)
			if err != nil {
				return fmt.Errorf("invalid --amount: %w", err)
			}

			selected, err := shared.UnlockWallets(cmd.Context(), c, wallets.Names, true)
			if err != nil {
				return err
			}

			req := network.DelegateRequest{Validator: validator, Amount: coin}
			return shared.RunForWallets(cmd, c, selected, func(context.Context, *wallet.Wallet) (network.OperationRequest, error) {
				return req, nil
			})
		}),
	}

	wallets.Register(cmd)
	cmd.Flags().StringVar(&validator, "validator", "", "Validator operator address")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "Amount with denom, e.g. 1000000uluna")

	return cmd
}
