package tx

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/walletops/cmd/walletops/shared"
	"github.com/altuslabsxyz/walletops/internal/planner"
	"github.com/altuslabsxyz/walletops/internal/wallet"
	"github.com/altuslabsxyz/walletops/pkg/network"
)

// NewWithdrawCmd creates the withdraw command.
func NewWithdrawCmd() *cobra.Command {
	var (
		wallets    shared.WalletFlags
		validators []string
		threshold  string
	)

	cmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Withdraw staking rewards",
		Long: `Withdraw staking rewards in one transaction per wallet.

Without --validator, every validator whose pending reward in the fee denom
is above --threshold is withdrawn from.

Examples:
  walletops withdraw
  walletops withdraw --threshold 1000000
  walletops withdraw --validator terravaloper1... -w main`,
		Args: cobra.NoArgs,
		RunE: shared.RunE(func(cmd *cobra.Command, args []string) error {
			c, err := shared.Container(cmd)
			if err != nil {
				return err
			}
			cfg := c.Config()
			if !cmd.Flags().Changed("threshold") {
				threshold = cfg.WithdrawThreshold.Value
			}
			minReward, ok := sdkmath.NewIntFromString(threshold)
			if !ok || minReward.IsNegative() {
				return fmt.Errorf("invalid --threshold %q", threshold)
			}

			selected, err := shared.UnlockWallets(cmd.Context(), c, wallets.Names, true)
			if err != nil {
				return err
			}
			client, err := c.ChainClient()
			if err != nil {
				return err
			}

			return shared.RunForWallets(cmd, c, selected, func(ctx context.Context, w *wallet.Wallet) (network.OperationRequest, error) {
				if len(validators) > 0 {
					return network.WithdrawRequest{Validators: validators}, nil
				}
				rewards, err := client.Rewards(ctx, w.Address)
				if err != nil {
					return nil, fmt.Errorf("query rewards: %w", err)
				}
				var eligible []string
				for _, r := range rewards {
					if planner.ExceedsThreshold(r.Amount.AmountOf(cfg.FeeDenom.Value).TruncateInt(), minReward) {
						eligible = append(eligible, r.Validator)
					}
				}
				if len(eligible) == 0 {
					c.Logger().Info("%s has no rewards above %s%s", w.Name, minReward, cfg.FeeDenom.Value)
					return nil, nil
				}
				return network.WithdrawRequest{Validators: eligible}, nil
			})
		}),
	}

	wallets.Register(cmd)
	cmd.Flags().StringSliceVar(&validators, "validator", nil, "Validator to withdraw from, repeatable")
	cmd.Flags().StringVar(&threshold, "threshold", "0", "Minimum reward in base units (default from planner.withdraw_threshold)")

	return cmd
}
