package txengine

import (
	"context"
	"fmt"

	"github.com/altuslabsxyz/walletops/pkg/network"
)

// Step produces the next request of a batch from the current account state.
// A nil request with a nil error skips the step.
type Step func(ctx context.Context, account network.AccountState) (network.OperationRequest, error)

// BatchItem is the ordered work for one wallet.
type BatchItem struct {
	Wallet string
	Signer network.Signer
	Steps  []Step
}

// BatchResult collects the outcomes of one BatchItem.
type BatchResult struct {
	Wallet   string
	Outcomes []*Outcome
	// Err is set when the wallet could not be processed at all.
	Err error
}

// Failed counts outcomes that ended in error.
func (r *BatchResult) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err() != nil {
			n++
		}
	}
	return n
}

// RunBatch processes items one wallet at a time, each under its own session.
// A failed step does not stop the remaining steps of the wallet.
func (r *Runner) RunBatch(ctx context.Context, items []BatchItem) ([]BatchResult, error) {
	results := make([]BatchResult, 0, len(items))

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res := BatchResult{Wallet: item.Wallet}
		r.logger.Info("Processing wallet %s", item.Wallet)

		session, err := r.Open(ctx, item.Signer)
		if err != nil {
			res.Err = fmt.Errorf("open session for %s: %w", item.Wallet, err)
			r.logger.Warn("Skipping wallet %s: %v", item.Wallet, err)
			results = append(results, res)
			continue
		}

		for i, step := range item.Steps {
			req, err := step(ctx, session.Account())
			if err != nil {
				r.logger.Warn("Step %d for %s: %v", i+1, item.Wallet, err)
				out := &Outcome{SessionID: session.ID(), Sender: item.Signer.Address()}
				res.Outcomes = append(res.Outcomes, out.fail(SessionState{Account: session.Account()}, classify("plan", err)))
				continue
			}
			if req == nil {
				continue
			}

			out, err := session.Execute(ctx, req)
			if out != nil {
				res.Outcomes = append(res.Outcomes, out)
			}
			if err != nil {
				results = append(results, res)
				return results, err
			}
		}

		results = append(results, res)
	}

	return results, nil
}
