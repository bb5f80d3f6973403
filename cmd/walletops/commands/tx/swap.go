package tx

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/walletops/cmd/walletops/shared"
	"github.com/altuslabsxyz/walletops/internal/config"
	"github.com/altuslabsxyz/walletops/internal/domain/common"
	"github.com/altuslabsxyz/walletops/internal/wallet"
	"github.com/altuslabsxyz/walletops/pkg/network"
	"github.com/altuslabsxyz/walletops/pkg/network/cosmos"
)

// NewSwapCmd creates the swap command.
func NewSwapCmd() *cobra.Command {
	var (
		wallets     shared.WalletFlags
		offer       string
		ask         string
		pair        string
		maxSpread   string
		beliefPrice string
	)

	cmd := &cobra.Command{
		Use:   "swap",
		Short: "Swap coins through a pair contract",
		Long: `Swap coins through a CosmWasm pair contract.

The pair is looked up in [swap.pairs] of config.toml by "offer:ask" unless
--pair is given.

Examples:
  walletops swap --offer 1000000uusd --ask uluna
  walletops swap --offer 1000000uluna --ask uusd --pair terra1... --max-spread 0.005`,
		Args: cobra.NoArgs,
		RunE: shared.RunE(func(cmd *cobra.Command, args []string) error {
			c, err := shared.Container(cmd)
			if err != nil {
				return err
			}
			cfg := c.Config()

			coin, err := cosmos.ParseAmount(offer)
			if err != nil {
				return fmt.Errorf("invalid --offer: %w", err)
			}
			if ask == "" {
				ask = cfg.FeeDenom.Value
			}
			if pair == "" {
				var ok bool
				if pair, ok = cfg.Pair(coin.Denom, ask); !ok {
					return common.NewOperationalError(
						fmt.Sprintf("no pair contract configured for %s", config.PairKey(coin.Denom, ask)),
						fmt.Sprintf("add %q under [swap.pairs] in config.toml or pass --pair", config.PairKey(coin.Denom, ask)), nil)
				}
			}
			if !cmd.Flags().Changed("max-spread") {
				maxSpread = cfg.MaxSpread.Value
			}

			selected, err := shared.UnlockWallets(cmd.Context(), c, wallets.Names, true)
			if err != nil {
				return err
			}

			req := network.SwapRequest{
				Pair:        pair,
				Offer:       coin,
				AskDenom:    ask,
				MaxSpread:   maxSpread,
				BeliefPrice: beliefPrice,
			}
			return shared.RunForWallets(cmd, c, selected, func(context.Context, *wallet.Wallet) (network.OperationRequest, error) {
				return req, nil
			})
		}),
	}

	wallets.Register(cmd)
	cmd.Flags().StringVar(&offer, "offer", "", "Offered amount with denom, e.g. 1000000uusd")
	cmd.Flags().StringVar(&ask, "ask", "", "Denom to receive (default: the fee denom)")
	cmd.Flags().StringVar(&pair, "pair", "", "Pair contract address")
	cmd.Flags().StringVar(&maxSpread, "max-spread", "", "Maximum spread as a decimal (default from swap.max_spread)")
	cmd.Flags().StringVar(&beliefPrice, "belief-price", "", "Expected price as a decimal")

	return cmd
}
