package interactive

import (
	"fmt"
	"time"

	"github.com/altuslabsxyz/walletops/pkg/network"
)

// WalletItem is a wallet row in the selection menus.
type WalletItem struct {
	Name    string
	Address string
	// Balance is preformatted, e.g. "1200.5 LUNC". Empty when unknown.
	Balance string
	// Control marks the "all" and "done" rows of a multi-select.
	Control string
}

// String returns display string for promptui.
func (w WalletItem) String() string {
	if w.Control != "" {
		return w.Control
	}
	if w.Balance == "" {
		return fmt.Sprintf("%s (%s)", w.Name, w.Address)
	}
	return fmt.Sprintf("%s (%s) %s", w.Name, w.Address, w.Balance)
}

// ProposalItem is a proposal row in the selection menu.
type ProposalItem struct {
	ID        uint64
	Title     string
	VotingEnd time.Time
}

// NewProposalItems converts proposals for display.
func NewProposalItems(proposals []network.Proposal) []ProposalItem {
	items := make([]ProposalItem, len(proposals))
	for i, p := range proposals {
		items[i] = ProposalItem{ID: p.ID, Title: p.Title, VotingEnd: p.VotingEnd}
	}
	return items
}

// String returns display string for promptui.
func (p ProposalItem) String() string {
	if p.VotingEnd.IsZero() {
		return fmt.Sprintf("#%d %s", p.ID, p.Title)
	}
	return fmt.Sprintf("#%d %s (voting ends %s)", p.ID, p.Title, p.VotingEnd.UTC().Format("2006-01-02 15:04"))
}

// OptionItem is a labelled choice.
type OptionItem struct {
	Value string
	Label string
}

// VoteOptions are the vote choices in menu order.
var VoteOptions = []OptionItem{
	{Value: "yes", Label: "Yes"},
	{Value: "no", Label: "No"},
	{Value: "abstain", Label: "Abstain"},
	{Value: "no_with_veto", Label: "No with veto"},
}
