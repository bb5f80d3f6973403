package shared

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/walletops/internal/di"
	"github.com/altuslabsxyz/walletops/internal/domain/common"
	"github.com/altuslabsxyz/walletops/internal/interactive"
	"github.com/altuslabsxyz/walletops/internal/output"
	"github.com/altuslabsxyz/walletops/internal/txengine"
	"github.com/altuslabsxyz/walletops/internal/wallet"
	"github.com/altuslabsxyz/walletops/pkg/network"
)

// BuildFunc builds the request for one wallet. A nil request skips the wallet.
type BuildFunc func(ctx context.Context, w *wallet.Wallet) (network.OperationRequest, error)

// AssumeYes reports whether --yes was given.
func AssumeYes(cmd *cobra.Command) bool {
	yes, _ := cmd.Flags().GetBool("yes")
	return yes
}

// Approver prompts for every transaction unless --yes was given.
func Approver(cmd *cobra.Command, logger *output.Logger) network.Approver {
	if AssumeYes(cmd) {
		if logger.IsJSONMode() {
			return interactive.NewAutoApprover(nil)
		}
		return interactive.NewAutoApprover(logger.Writer())
	}
	return interactive.NewPromptApprover(logger.Writer(), nil)
}

// RunForWallets executes one request per wallet, each in its own session,
// and renders every outcome.
func RunForWallets(cmd *cobra.Command, c *di.Container, wallets []*wallet.Wallet, build BuildFunc) error {
	ctx := cmd.Context()
	logger := c.Logger()

	runner, err := c.Runner(ctx, Approver(cmd, logger))
	if err != nil {
		return err
	}

	progress := output.NewProgress(len(wallets))
	progress.SetOutput(logger.Writer())
	progress.SetJSONMode(logger.IsJSONMode() || len(wallets) == 1)

	failed, succeeded := 0, 0
	for _, w := range wallets {
		if err := ctx.Err(); err != nil {
			return err
		}
		progress.Stage(w.Name)

		req, err := build(ctx, w)
		if err != nil {
			logger.Warn("Skipping %s: %v", w.Name, err)
			failed++
			continue
		}
		if req == nil {
			progress.Skip("nothing to do")
			continue
		}

		signer, err := c.Signer(w)
		if err != nil {
			return err
		}
		session, err := runner.Open(ctx, signer)
		if err != nil {
			RenderError(logger, w.Name, req.Kind(), err)
			failed++
			continue
		}

		out, err := session.Execute(ctx, req)
		if out != nil {
			RenderOutcome(logger, w.Name, out)
			if out.Err() != nil {
				failed++
			} else if out.Success {
				succeeded++
			}
		}
		if err != nil {
			return err
		}
	}
	progress.Done(succeeded, failed)

	if failed > 0 {
		return fmt.Errorf("%d of %d transactions failed: %w", failed, len(wallets), ErrReported)
	}
	return nil
}

// RenderOutcome prints a transaction outcome.
func RenderOutcome(logger *output.Logger, walletName string, out *txengine.Outcome) {
	op := string(out.Kind)
	if op == "" {
		op = "plan"
	}
	switch {
	case out.Declined:
		logger.Info("Transaction for %s was not sent.", walletName)
	case out.Success:
		info := &output.TxResultInfo{
			Wallet:    walletName,
			Operation: op,
			TxHash:    out.TxHash,
			Height:    out.Height,
			Sent:      out.Sent.String(),
			Received:  out.Received.String(),
			Attempts:  out.Attempts,
		}
		if out.Fee.Denom != "" {
			info.Fee = out.Fee.String()
		}
		if out.Attempts > 1 {
			info.Notes = append(info.Notes, fmt.Sprintf("Retried with gas adjustment %.2f", out.GasAdjustment))
		}
		logger.PrintTxResult(info)
	default:
		logger.PrintTxError(&output.TxErrorInfo{
			Wallet:    walletName,
			Operation: op,
			Kind:      out.ErrorKind.String(),
			Message:   out.ErrorMessage,
			Code:      out.Code,
			RawLog:    out.RawLog,
			TxHash:    out.TxHash,
			Hint:      common.GetRecoveryHint(out.Err()),
			Attempts:  out.Attempts,
		})
	}
}

// RenderError prints a failure that happened before a transaction was built.
func RenderError(logger *output.Logger, walletName string, kind network.OperationKind, err error) {
	logger.PrintTxError(&output.TxErrorInfo{
		Wallet:    walletName,
		Operation: string(kind),
		Kind:      txengine.KindOf(err).String(),
		Message:   common.GetUserMessage(err),
		Hint:      common.GetRecoveryHint(err),
	})
}
