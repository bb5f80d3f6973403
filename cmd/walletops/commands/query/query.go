// Package query provides the read-only commands of walletops.
package query

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/walletops/cmd/walletops/shared"
	"github.com/altuslabsxyz/walletops/internal/output"
	"github.com/altuslabsxyz/walletops/pkg/network"
	"github.com/altuslabsxyz/walletops/pkg/network/cosmos"
)

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

type proposalJSON struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	VotingStart time.Time `json:"voting_start"`
	VotingEnd   time.Time `json:"voting_end"`
}

// NewProposalsCmd creates the proposals command.
func NewProposalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proposals",
		Short: "List proposals in voting period",
		Args:  cobra.NoArgs,
		RunE: shared.RunE(func(cmd *cobra.Command, args []string) error {
			c, err := shared.Container(cmd)
			if err != nil {
				return err
			}
			client, err := c.ChainClient()
			if err != nil {
				return err
			}

			var proposals []network.Proposal
			err = output.Spin("Fetching proposals", func() error {
				var ferr error
				proposals, ferr = cosmos.AllProposals(cmd.Context(), client, network.ProposalStatusVotingPeriod)
				return ferr
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if c.Logger().IsJSONMode() {
				list := make([]proposalJSON, len(proposals))
				for i, p := range proposals {
					list[i] = proposalJSON{ID: p.ID, Title: p.Title, VotingStart: p.VotingStart, VotingEnd: p.VotingEnd}
				}
				return writeJSON(w, list)
			}

			if len(proposals) == 0 {
				c.Logger().Info("No proposals are in voting period.")
				return nil
			}
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tVOTING ENDS\tTITLE")
			for _, p := range proposals {
				end := "-"
				if !p.VotingEnd.IsZero() {
					end = p.VotingEnd.UTC().Format("2006-01-02 15:04")
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\n", p.ID, end, p.Title)
			}
			return tw.Flush()
		}),
	}
	return cmd
}

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the node version and current gas prices",
		Args:  cobra.NoArgs,
		RunE: shared.RunE(func(cmd *cobra.Command, args []string) error {
			c, err := shared.Container(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			cfg := c.Config()

			v, err := c.NodeVersion(ctx)
			if err != nil {
				return err
			}
			client, err := c.ChainClient()
			if err != nil {
				return err
			}
			prices, err := client.GasPrices(ctx)
			if err != nil {
				return err
			}
			legacy := c.LegacyGov(ctx)

			w := cmd.OutOrStdout()
			if c.Logger().IsJSONMode() {
				return writeJSON(w, map[string]interface{}{
					"chain_id":   cfg.ChainID.Value,
					"app":        v.AppName,
					"version":    v.Version,
					"height":     v.LastBlockHeight,
					"features":   v.Features,
					"legacy_gov": legacy,
					"gas_price":  prices.AmountOf(cfg.FeeDenom.Value).String(),
					"fee_denom":  cfg.FeeDenom.Value,
					"rpc":        cfg.RPCEndpoint.Value,
					"grpc":       cfg.GRPCEndpoint.Value,
				})
			}

			govVersion := "v1"
			if legacy {
				govVersion = "v1beta1"
			}
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Chain ID:\t%s\n", cfg.ChainID.Value)
			fmt.Fprintf(tw, "Node:\t%s %s\n", v.AppName, v.Version)
			fmt.Fprintf(tw, "Height:\t%d\n", v.LastBlockHeight)
			fmt.Fprintf(tw, "Gov messages:\t%s\n", govVersion)
			fmt.Fprintf(tw, "Gas price:\t%s%s\n", prices.AmountOf(cfg.FeeDenom.Value), cfg.FeeDenom.Value)
			fmt.Fprintf(tw, "RPC:\t%s\n", cfg.RPCEndpoint.Value)
			fmt.Fprintf(tw, "gRPC:\t%s\n", cfg.GRPCEndpoint.Value)
			return tw.Flush()
		}),
	}
	return cmd
}

// NewBalancesCmd creates the balances command.
func NewBalancesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Show balances and pending rewards of configured wallets",
		Long: `Show the balances and pending staking rewards of every configured wallet.

No password is needed: addresses are read from the wallet file.`,
		Args: cobra.NoArgs,
		RunE: shared.RunE(func(cmd *cobra.Command, args []string) error {
			c, err := shared.Container(cmd)
			if err != nil {
				return err
			}
			store, err := c.WalletStore()
			if err != nil {
				return err
			}
			client, err := c.ChainClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			denom := c.Config().FeeDenom.Value

			type row struct {
				Wallet   string `json:"wallet"`
				Address  string `json:"address"`
				Balances string `json:"balances"`
				Rewards  string `json:"rewards"`
			}
			var rows []row
			for _, e := range store.List() {
				balances, err := client.Balances(ctx, e.Address)
				if err != nil {
					return fmt.Errorf("balances of %s: %w", e.Name, err)
				}
				rewards, err := client.Rewards(ctx, e.Address)
				if err != nil {
					return fmt.Errorf("rewards of %s: %w", e.Name, err)
				}
				total := sumRewards(rewards)
				rows = append(rows, row{
					Wallet:   e.Name,
					Address:  e.Address,
					Balances: balances.String(),
					Rewards:  total.AmountOf(denom).TruncateInt().String() + denom,
				})
			}

			w := cmd.OutOrStdout()
			if c.Logger().IsJSONMode() {
				return writeJSON(w, rows)
			}
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "WALLET\tADDRESS\tBALANCES\tREWARDS")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Wallet, r.Address, r.Balances, r.Rewards)
			}
			return tw.Flush()
		}),
	}
	return cmd
}
