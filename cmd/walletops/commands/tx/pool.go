package tx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	sdkmath "cosmossdk.io/math"
	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/walletops/cmd/walletops/shared"
	"github.com/altuslabsxyz/walletops/internal/config"
	"github.com/altuslabsxyz/walletops/internal/domain/common"
	"github.com/altuslabsxyz/walletops/internal/wallet"
	"github.com/altuslabsxyz/walletops/pkg/network"
	"github.com/altuslabsxyz/walletops/pkg/network/cosmos"
)

// NewPoolCmd creates the pool parent command.
func NewPoolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Provide or withdraw liquidity",
		Long: `Provide liquidity to, withdraw liquidity from, or inspect a pool contract.

Pools are referenced by their [pools.named] name in config.toml or by contract address.`,
	}

	cmd.AddCommand(
		newPoolJoinCmd(),
		newPoolExitCmd(),
		newPoolShowCmd(),
	)
	return cmd
}

// resolvePool finds a named pool, or treats ref as a contract address.
func resolvePool(cfg *config.EffectiveConfig, ref, lpToken string) (config.PoolConfig, error) {
	if ref == "" {
		return config.PoolConfig{}, fmt.Errorf("--pool is required")
	}
	p, ok := cfg.Pool(ref)
	if !ok {
		if !strings.HasPrefix(ref, cfg.Bech32Prefix.Value+"1") {
			return config.PoolConfig{}, common.NewOperationalError(
				fmt.Sprintf("pool %q is not configured", ref),
				fmt.Sprintf("add [pools.named.%s] to config.toml or pass the contract address", ref), nil)
		}
		p = config.PoolConfig{Contract: ref}
	}
	if lpToken != "" {
		p.LPToken = lpToken
	}
	return p, nil
}

func newPoolJoinCmd() *cobra.Command {
	var (
		wallets  shared.WalletFlags
		pool     string
		assets   string
		slippage string
	)

	cmd := &cobra.Command{
		Use:     "join",
		Short:   "Provide liquidity to a pool",
		Example: `  walletops pool join --pool luna-ustc --assets 1000000uluna,20000uusd`,
		Args:    cobra.NoArgs,
		RunE: shared.RunE(func(cmd *cobra.Command, args []string) error {
			c, err := shared.Container(cmd)
			if err != nil {
				return err
			}
			p, err := resolvePool(c.Config(), pool, "")
			if err != nil {
				return err
			}
			coins, err := cosmos.ParseAmounts(assets)
			if err != nil {
				return fmt.Errorf("invalid --assets: %w", err)
			}
			if !cmd.Flags().Changed("slippage") {
				slippage = c.Config().SlippageTolerance.Value
			}

			selected, err := shared.UnlockWallets(cmd.Context(), c, wallets.Names, true)
			if err != nil {
				return err
			}

			req := network.PoolJoinRequest{Pool: p.Contract, Assets: coins, SlippageTolerance: slippage}
			return shared.RunForWallets(cmd, c, selected, func(context.Context, *wallet.Wallet) (network.OperationRequest, error) {
				return req, nil
			})
		}),
	}

	wallets.Register(cmd)
	cmd.Flags().StringVar(&pool, "pool", "", "Pool name or contract address")
	cmd.Flags().StringVar(&assets, "assets", "", "Comma-separated amounts, e.g. 1000000uluna,20000uusd")
	cmd.Flags().StringVar(&slippage, "slippage", "", "Slippage tolerance as a decimal (default from pools.slippage_tolerance)")

	return cmd
}

func newPoolExitCmd() *cobra.Command {
	var (
		wallets shared.WalletFlags
		pool    string
		lpToken string
		amount  string
	)

	cmd := &cobra.Command{
		Use:     "exit",
		Short:   "Withdraw liquidity from a pool",
		Example: `  walletops pool exit --pool luna-ustc --amount 500000`,
		Args:    cobra.NoArgs,
		RunE: shared.RunE(func(cmd *cobra.Command, args []string) error {
			c, err := shared.Container(cmd)
			if err != nil {
				return err
			}
			p, err := resolvePool(c.Config(), pool, lpToken)
			if err != nil {
				return err
			}
			if p.LPToken == "" {
				return fmt.Errorf("the LP token of pool %s is unknown; pass --lp-token", pool)
			}
			lp, ok := sdkmath.NewIntFromString(amount)
			if !ok || !lp.IsPositive() {
				return fmt.Errorf("invalid --amount %q, expected a positive amount of LP tokens", amount)
			}

			selected, err := shared.UnlockWallets(cmd.Context(), c, wallets.Names, true)
			if err != nil {
				return err
			}

			req := network.PoolExitRequest{Pool: p.Contract, LPToken: p.LPToken, Amount: lp}
			return shared.RunForWallets(cmd, c, selected, func(context.Context, *wallet.Wallet) (network.OperationRequest, error) {
				return req, nil
			})
		}),
	}

	wallets.Register(cmd)
	cmd.Flags().StringVar(&pool, "pool", "", "Pool name or contract address")
	cmd.Flags().StringVar(&lpToken, "lp-token", "", "LP token contract (default from pools.named)")
	cmd.Flags().StringVar(&amount, "amount", "", "LP token amount in base units")

	return cmd
}

func newPoolShowCmd() *cobra.Command {
	var pool string

	cmd := &cobra.Command{
		Use:     "show",
		Short:   "Show the assets of a pool",
		Example: `  walletops pool show --pool luna-ustc`,
		Args:    cobra.NoArgs,
		RunE: shared.RunE(func(cmd *cobra.Command, args []string) error {
			c, err := shared.Container(cmd)
			if err != nil {
				return err
			}
			p, err := resolvePool(c.Config(), pool, "")
			if err != nil {
				return err
			}
			client, err := c.ChainClient()
			if err != nil {
				return err
			}
			state, err := client.PoolState(cmd.Context(), p.Contract)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if c.Logger().IsJSONMode() {
				return writePoolJSON(w, state)
			}

			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Pool:\t%s\n", state.Pool)
			for _, a := range state.Assets {
				fmt.Fprintf(tw, "  %s\t%s\n", a.Denom, a.Amount)
			}
			fmt.Fprintf(tw, "Total share:\t%s\n", state.TotalShare)
			return tw.Flush()
		}),
	}

	cmd.Flags().StringVar(&pool, "pool", "", "Pool name or contract address")
	return cmd
}

func writePoolJSON(w io.Writer, state *network.PoolState) error {
	type asset struct {
		Denom  string `json:"denom"`
		Amount string `json:"amount"`
	}
	out := struct {
		Pool       string  `json:"pool"`
		Assets     []asset `json:"assets"`
		TotalShare string  `json:"total_share"`
	}{Pool: state.Pool, TotalShare: state.TotalShare.String()}
	for _, a := range state.Assets {
		out.Assets = append(out.Assets, asset{Denom: a.Denom, Amount: a.Amount.String()})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
