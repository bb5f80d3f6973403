package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/altuslabsxyz/walletops/pkg/network"
)

// ConfirmFunc asks a yes/no question.
type ConfirmFunc func(label string) (bool, error)

// PromptApprover shows each transaction preview and asks before signing.
type PromptApprover struct {
	out     io.Writer
	confirm ConfirmFunc
}

// NewPromptApprover creates a PromptApprover writing to out. confirm may be nil
// to use a promptui confirmation.
func NewPromptApprover(out io.Writer, confirm ConfirmFunc) *PromptApprover {
	if out == nil {
		out = os.Stdout
	}
	if confirm == nil {
		confirm = Confirm
	}
	return &PromptApprover{out: out, confirm: confirm}
}

// Approve implements network.Approver.
func (a *PromptApprover) Approve(ctx context.Context, preview *network.Preview) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprint(a.out, FormatPreview(preview))

	ok, err := a.confirm("Do you want to continue")
	if err != nil {
		return false, handleInterruptError(err)
	}
	return ok, nil
}

// AutoApprover approves everything. Used with --yes and after a batch was confirmed.
type AutoApprover struct {
	out io.Writer
}

// NewAutoApprover creates an AutoApprover. A nil out prints nothing.
func NewAutoApprover(out io.Writer) *AutoApprover {
	return &AutoApprover{out: out}
}

// Approve implements network.Approver.
func (a *AutoApprover) Approve(ctx context.Context, preview *network.Preview) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if a.out != nil {
		fmt.Fprint(a.out, FormatPreview(preview))
	}
	return true, nil
}

// FormatPreview renders what is about to be signed.
func FormatPreview(p *network.Preview) string {
	if p == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "  Operation: %s\n", p.Kind)
	fmt.Fprintf(&sb, "  Wallet:    %s\n", p.Sender)

	switch r := p.Request.(type) {
	case network.VoteRequest:
		fmt.Fprintf(&sb, "  Proposal:  #%d\n", r.ProposalID)
		fmt.Fprintf(&sb, "  Vote:      %s\n", strings.ToUpper(r.Option))
	case network.DelegateRequest:
		fmt.Fprintf(&sb, "  Validator: %s\n", r.Validator)
		fmt.Fprintf(&sb, "  Amount:    %s\n", r.Amount)
	case network.WithdrawRequest:
		for _, v := range r.Validators {
			fmt.Fprintf(&sb, "  Validator: %s\n", v)
		}
	case network.SwapRequest:
		fmt.Fprintf(&sb, "  Offer:     %s\n", r.Offer)
		fmt.Fprintf(&sb, "  Ask:       %s\n", r.AskDenom)
		fmt.Fprintf(&sb, "  Pair:      %s\n", r.Pair)
	case network.PoolJoinRequest:
		fmt.Fprintf(&sb, "  Pool:      %s\n", r.Pool)
		fmt.Fprintf(&sb, "  Assets:    %s\n", r.Assets)
	case network.PoolExitRequest:
		fmt.Fprintf(&sb, "  Pool:      %s\n", r.Pool)
		fmt.Fprintf(&sb, "  LP amount: %s\n", r.Amount)
	}

	if p.Messages > 1 {
		fmt.Fprintf(&sb, "  Messages:  %d\n", p.Messages)
	}
	fmt.Fprintf(&sb, "  Fee:       %s\n", p.Fee)
	sb.WriteString("\n")
	return sb.String()
}

// handleInterruptError converts promptui errors to appropriate error types.
func handleInterruptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) {
		return &CancellationError{Message: "Operation cancelled"}
	}
	if errors.Is(err, promptui.ErrEOF) {
		return &CancellationError{Message: "Operation cancelled (EOF)"}
	}
	return err
}

// CancellationError indicates the user cancelled the operation.
type CancellationError struct {
	Message string
}

func (e *CancellationError) Error() string {
	return e.Message
}

// IsCancellation returns true if the error is a cancellation error.
func IsCancellation(err error) bool {
	var ce *CancellationError
	return errors.As(err, &ce)
}
