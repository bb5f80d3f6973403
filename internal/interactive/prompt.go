package interactive

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/altuslabsxyz/walletops/internal/planner"
)

const (
	allWalletsOption = "[All wallets]"
	doneOption       = "[Continue]"
)

// Confirm asks a yes/no question. Enter means yes.
func Confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Default:   "y",
	}

	_, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SelectWallet prompts for a single wallet and returns its index.
func SelectWallet(label string, wallets []WalletItem) (int, error) {
	if len(wallets) == 0 {
		return 0, fmt.Errorf("no wallets available")
	}
	if len(wallets) == 1 {
		return 0, nil
	}

	prompt := promptui.Select{
		Label: label,
		Items: wallets,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "▸ {{ .Name | cyan }} {{ .Address | faint }} {{ .Balance }}",
			Inactive: "  {{ .Name }} {{ .Address | faint }} {{ .Balance }}",
			Selected: "✓ Wallet: {{ .Name | green }}",
		},
		Size:     10,
		Searcher: walletSearcher(wallets),
	}

	index, _, err := prompt.Run()
	if err != nil {
		return 0, handleInterruptError(err)
	}
	return index, nil
}

// SelectWallets lets the user pick wallets one at a time, or all of them,
// and returns the chosen indexes in menu order.
func SelectWallets(label string, wallets []WalletItem) ([]int, error) {
	if len(wallets) == 0 {
		return nil, fmt.Errorf("no wallets available")
	}
	if len(wallets) == 1 {
		return []int{0}, nil
	}

	chosen := make(map[int]bool)
	for {
		var items []WalletItem
		var indexes []int
		items = append(items, WalletItem{Control: allWalletsOption})
		indexes = append(indexes, -1)
		for i, w := range wallets {
			if !chosen[i] {
				items = append(items, w)
				indexes = append(indexes, i)
			}
		}
		if len(chosen) > 0 {
			items = append(items, WalletItem{Control: doneOption})
			indexes = append(indexes, -2)
		}

		prompt := promptui.Select{
			Label: fmt.Sprintf("%s (%d selected)", label, len(chosen)),
			Items: items,
			Templates: &promptui.SelectTemplates{
				Label:    "{{ . }}",
				Active:   "{{ if .Control }}▸ {{ .Control | magenta }}{{ else }}▸ {{ .Name | cyan }} {{ .Address | faint }} {{ .Balance }}{{ end }}",
				Inactive: "{{ if .Control }}  {{ .Control | faint }}{{ else }}  {{ .Name }} {{ .Address | faint }} {{ .Balance }}{{ end }}",
				Selected: "{{ if .Control }}✓ {{ .Control }}{{ else }}✓ Added {{ .Name | green }}{{ end }}",
			},
			Size: 10,
		}

		index, _, err := prompt.Run()
		if err != nil {
			return nil, handleInterruptError(err)
		}

		switch indexes[index] {
		case -1:
			all := make([]int, len(wallets))
			for i := range wallets {
				all[i] = i
			}
			return all, nil
		case -2:
			return sortedKeys(chosen), nil
		default:
			chosen[indexes[index]] = true
			if len(chosen) == len(wallets) {
				return sortedKeys(chosen), nil
			}
		}
	}
}

func sortedKeys(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for i := 0; len(out) < len(m); i++ {
		if m[i] {
			out = append(out, i)
		}
	}
	return out
}

func walletSearcher(wallets []WalletItem) func(string, int) bool {
	return func(input string, index int) bool {
		input = strings.ToLower(strings.TrimSpace(input))
		w := wallets[index]
		return strings.Contains(strings.ToLower(w.Name), input) || strings.Contains(w.Address, input)
	}
}

// SelectProposal prompts for a proposal and returns its id.
func SelectProposal(proposals []ProposalItem) (uint64, error) {
	if len(proposals) == 0 {
		return 0, fmt.Errorf("no proposals in voting period")
	}

	prompt := promptui.Select{
		Label: "Select a proposal",
		Items: proposals,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "▸ {{ .ID | cyan }} {{ .Title }}",
			Inactive: "  {{ .ID }} {{ .Title | faint }}",
			Selected: "✓ Proposal #{{ .ID | green }}",
			Details: `
--------- Proposal ----------
{{ "ID:" | faint }}      {{ .ID }}
{{ "Title:" | faint }}   {{ .Title }}
{{ if not .VotingEnd.IsZero }}{{ "Ends:" | faint }}    {{ .VotingEnd.Format "2006-01-02 15:04:05" }}{{ end }}`,
		},
		Size: 10,
		Searcher: func(input string, index int) bool {
			input = strings.ToLower(strings.TrimSpace(input))
			p := proposals[index]
			return strings.Contains(strings.ToLower(p.Title), input) || strings.Contains(fmt.Sprint(p.ID), input)
		},
	}

	index, _, err := prompt.Run()
	if err != nil {
		return 0, handleInterruptError(err)
	}
	return proposals[index].ID, nil
}

// SelectOption prompts for one of options and returns its value.
func SelectOption(label string, options []OptionItem) (string, error) {
	prompt := promptui.Select{
		Label: label,
		Items: options,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "▸ {{ .Label | cyan }}",
			Inactive: "  {{ .Label }}",
			Selected: "✓ {{ .Label | green }}",
		},
		Size: 8,
	}

	index, _, err := prompt.Run()
	if err != nil {
		return "", handleInterruptError(err)
	}
	return options[index].Value, nil
}

// SelectVoteOption prompts for yes, no, abstain or no_with_veto.
func SelectVoteOption() (string, error) {
	return SelectOption("How do you want to vote", VoteOptions)
}

// ActionOptions lists the manage actions for SelectOption.
func ActionOptions() []OptionItem {
	actions := planner.Actions()
	items := make([]OptionItem, len(actions))
	for i, a := range actions {
		items[i] = OptionItem{Value: string(a), Label: fmt.Sprintf("(%s) %s", a, a.Label())}
	}
	return items
}

// SelectAction prompts for a manage action.
func SelectAction() (planner.Action, error) {
	v, err := SelectOption("Pick an option", ActionOptions())
	if err != nil {
		return "", err
	}
	return planner.ParseAction(v)
}

// PromptText asks for a line of text. validate may be nil.
func PromptText(label, defaultValue string, validate promptui.ValidateFunc) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Default:  defaultValue,
		Validate: validate,
		Templates: &promptui.PromptTemplates{
			Prompt:  "{{ . }}: ",
			Valid:   "{{ . | green }}: ",
			Invalid: "{{ . | red }}: ",
			Success: "✓ {{ . }}: ",
		},
	}

	result, err := prompt.Run()
	if err != nil {
		return "", handleInterruptError(err)
	}
	return strings.TrimSpace(result), nil
}

// PromptAmountSpec asks for "100%" or a base-unit amount.
func PromptAmountSpec(label, defaultValue string) (planner.AmountSpec, error) {
	s, err := PromptText(label, defaultValue, func(input string) error {
		_, err := planner.ParseAmountSpec(input)
		return err
	})
	if err != nil {
		return planner.AmountSpec{}, err
	}
	return planner.ParseAmountSpec(s)
}
