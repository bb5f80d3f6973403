package tx

import (
	"fmt"
	"strings"

	sdkmath "cosmossdk.io/math"
	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/walletops/cmd/walletops/shared"
	"github.com/altuslabsxyz/walletops/internal/config"
	"github.com/altuslabsxyz/walletops/internal/interactive"
	"github.com/altuslabsxyz/walletops/internal/output"
	"github.com/altuslabsxyz/walletops/internal/planner"
	"github.com/altuslabsxyz/walletops/internal/txengine"
	"github.com/altuslabsxyz/walletops/internal/wallet"
)

// NewManageCmd creates the manage command.
func NewManageCmd() *cobra.Command {
	var (
		wallets shared.WalletFlags
		action  string
	)

	cmd := &cobra.Command{
		Use:   "manage",
		Short: "Withdraw, swap and delegate for a set of wallets",
		Long: `Withdraw rewards, swap and delegate for each selected wallet in one batch.

Actions:
  W   withdraw rewards above the wallet threshold
  S   swap the whole swap denom balance for the stake denom
  D   delegate the configured share of the balance, keeping the remainder
  WD  withdraw, then delegate
  SD  swap, then delegate
  A   withdraw, swap, then delegate

Per-wallet thresholds, delegation amounts and swap permission come from the
wallet file; planner.* in config.toml supplies the defaults.

The batch is confirmed once. Every transaction still shows its fee.

Examples:
  walletops manage --action A
  walletops manage --action WD -w main -w savings --yes`,
		Args: cobra.NoArgs,
		RunE: shared.RunE(func(cmd *cobra.Command, args []string) error {
			c, err := shared.Container(cmd)
			if err != nil {
				return err
			}
			cfg := c.Config()
			logger := c.Logger()
			ctx := cmd.Context()

			act, err := chooseAction(action)
			if err != nil {
				return err
			}

			selected, err := shared.UnlockWallets(ctx, c, wallets.Names, true)
			if err != nil {
				return err
			}
			p, err := c.Planner()
			if err != nil {
				return err
			}

			var items []txengine.BatchItem
			for _, w := range selected {
				policy, err := policyFor(cfg, w.Entry)
				if err != nil {
					logger.Warn("Skipping %s: %v", w.Name, err)
					continue
				}
				signer, err := c.Signer(w)
				if err != nil {
					return err
				}
				items = append(items, txengine.BatchItem{Wallet: w.Name, Signer: signer, Steps: p.Steps(act, policy)})
			}
			if len(items) == 0 {
				return fmt.Errorf("no wallet left to process")
			}

			logger.Info("You are about to %s for %s.", act.Describe(cfg.SwapDenom.Value, cfg.FeeDenom.Value), walletNames(items))
			if !shared.AssumeYes(cmd) {
				ok, err := interactive.Confirm("Do you want to continue")
				if err != nil {
					return err
				}
				if !ok {
					logger.Info("Nothing was sent.")
					return nil
				}
			}

			approver := interactive.NewAutoApprover(logger.Writer())
			if logger.IsJSONMode() {
				approver = interactive.NewAutoApprover(nil)
			}
			runner, err := c.Runner(ctx, approver)
			if err != nil {
				return err
			}

			results, runErr := runner.RunBatch(ctx, items)
			progress := output.NewProgress(len(results))
			progress.SetOutput(logger.Writer())
			progress.SetJSONMode(logger.IsJSONMode())
			failed, succeeded := 0, 0
			for _, res := range results {
				progress.Stage(res.Wallet)
				if res.Err != nil {
					shared.RenderError(logger, res.Wallet, "manage", res.Err)
					failed++
				}
				if res.Err == nil && len(res.Outcomes) == 0 {
					progress.Skip("no action needed")
				}
				for _, out := range res.Outcomes {
					shared.RenderOutcome(logger, res.Wallet, out)
					if out.Success {
						succeeded++
					}
				}
				failed += res.Failed()
			}
			progress.Done(succeeded, failed)
			if runErr != nil {
				return runErr
			}
			if failed > 0 {
				return fmt.Errorf("%d operations failed: %w", failed, shared.ErrReported)
			}
			logger.Success("Processed %d wallet(s)", len(results))
			return nil
		}),
	}

	wallets.Register(cmd)
	cmd.Flags().StringVarP(&action, "action", "a", "", "W, S, D, WD, SD or A (prompts when omitted)")

	return cmd
}

func chooseAction(flag string) (planner.Action, error) {
	if flag != "" {
		return planner.ParseAction(flag)
	}
	if !shared.IsTerminal() {
		return "", fmt.Errorf("--action is required without a terminal")
	}
	return interactive.SelectAction()
}

// policyFor merges the wallet's delegation settings over the [planner] defaults.
// Wallets without a delegations entry are never delegated from.
func policyFor(cfg *config.EffectiveConfig, e *wallet.Entry) (planner.Policy, error) {
	threshold := cfg.WithdrawThreshold.Value
	if e.Delegations != nil && e.Delegations.Threshold != "" {
		threshold = e.Delegations.Threshold
	}
	minReward, ok := sdkmath.NewIntFromString(strings.TrimSpace(threshold))
	if !ok || minReward.IsNegative() {
		return planner.Policy{}, fmt.Errorf("invalid withdrawal threshold %q", threshold)
	}

	policy := planner.Policy{Threshold: minReward, AllowSwaps: e.SwapsAllowed()}
	if e.Delegations != nil {
		redelegate := e.Delegations.Redelegate
		if redelegate == "" {
			redelegate = cfg.Delegate.Value
		}
		spec, err := planner.ParseAmountSpec(redelegate)
		if err != nil {
			return planner.Policy{}, fmt.Errorf("invalid redelegate amount: %w", err)
		}
		policy.Delegate = &spec
		policy.Validator = e.Delegations.Validator
	}
	return policy, nil
}

func walletNames(items []txengine.BatchItem) string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Wallet
	}
	return strings.Join(names, ", ")
}
