// Package tx provides the transaction commands of walletops.
package tx

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/walletops/cmd/walletops/shared"
	"github.com/altuslabsxyz/walletops/internal/interactive"
	"github.com/altuslabsxyz/walletops/internal/wallet"
	"github.com/altuslabsxyz/walletops/pkg/network"
	"github.com/altuslabsxyz/walletops/pkg/network/cosmos"
)

// NewVoteCmd creates the vote command.
func NewVoteCmd() *cobra.Command {
	var (
		wallets    shared.WalletFlags
		proposalID uint64
		option     string
	)

	cmd := &cobra.Command{
		Use:   "vote",
		Short: "Vote on a governance proposal",
		Long: `Vote on a governance proposal from one or more wallets.

Without --proposal the proposals in voting period are listed for selection.
Without --option the vote option is asked for.

Examples:
  # Pick the proposal and option interactively
  walletops vote

  # Vote yes on proposal 11870 from two wallets
  walletops vote --proposal 11870 --option yes -w main -w savings`,
		Args: cobra.NoArgs,
		RunE: shared.RunE(func(cmd *cobra.Command, args []string) error {
			c, err := shared.Container(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if option != "" {
				option = strings.ToLower(option)
				if !validVoteOption(option) {
					return fmt.Errorf("invalid --option %q, expected one of %s", option, strings.Join(cosmos.VoteOptions(), ", "))
				}
			}

			if proposalID == 0 {
				client, err := c.ChainClient()
				if err != nil {
					return err
				}
				id, err := selectProposal(ctx, client)
				if err != nil {
					return err
				}
				proposalID = id
			}
			if option == "" {
				if option, err = interactive.SelectVoteOption(); err != nil {
					return err
				}
			}

			selected, err := shared.UnlockWallets(ctx, c, wallets.Names, true)
			if err != nil {
				return err
			}

			req := network.VoteRequest{ProposalID: proposalID, Option: option}
			return shared.RunForWallets(cmd, c, selected, func(context.Context, *wallet.Wallet) (network.OperationRequest, error) {
				return req, nil
			})
		}),
	}

	wallets.Register(cmd)
	cmd.Flags().Uint64VarP(&proposalID, "proposal", "p", 0, "Proposal ID")
	cmd.Flags().StringVarP(&option, "option", "o", "", "Vote option: yes, no, abstain or no_with_veto")

	return cmd
}

func validVoteOption(option string) bool {
	for _, o := range cosmos.VoteOptions() {
		if o == option {
			return true
		}
	}
	return false
}

func selectProposal(ctx context.Context, client network.ChainClient) (uint64, error) {
	proposals, err := cosmos.AllProposals(ctx, client, network.ProposalStatusVotingPeriod)
	if err != nil {
		return 0, fmt.Errorf("list proposals: %w", err)
	}
	if len(proposals) == 0 {
		return 0, fmt.Errorf("there are no proposals in voting period")
	}
	if !shared.IsTerminal() {
		return 0, fmt.Errorf("%d proposals are in voting period; choose one with --proposal", len(proposals))
	}
	return interactive.SelectProposal(interactive.NewProposalItems(proposals))
}
