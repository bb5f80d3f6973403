package wallet

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/walletops/cmd/walletops/shared"
	"github.com/altuslabsxyz/walletops/internal/wallet"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List wallet names and addresses",
		Args:  cobra.NoArgs,
		RunE: shared.RunE(func(cmd *cobra.Command, args []string) error {
			c, err := shared.Container(cmd)
			if err != nil {
				return err
			}
			store, err := c.WalletStore()
			if err != nil {
				return err
			}

			entries := store.List()
			if c.Logger().IsJSONMode() {
				return writeEntriesJSON(cmd.OutOrStdout(), entries)
			}
			if len(entries) == 0 {
				c.Logger().Info("No wallets in %s", store.Path())
				return nil
			}
			writeEntries(cmd.OutOrStdout(), entries)
			return nil
		}),
	}
}

type entryJSON struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	Threshold  string `json:"threshold,omitempty"`
	Redelegate string `json:"redelegate,omitempty"`
	Validator  string `json:"validator,omitempty"`
	AllowSwaps bool   `json:"allow_swaps"`
}

func toEntryJSON(e *wallet.Entry) entryJSON {
	out := entryJSON{Name: e.Name, Address: e.Address, AllowSwaps: e.SwapsAllowed()}
	if e.Delegations != nil {
		out.Threshold = e.Delegations.Threshold
		out.Redelegate = e.Delegations.Redelegate
		out.Validator = e.Delegations.Validator
	}
	return out
}

func writeEntriesJSON(w io.Writer, entries []*wallet.Entry) error {
	list := make([]entryJSON, len(entries))
	for i, e := range entries {
		list[i] = toEntryJSON(e)
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeEntries(w io.Writer, entries []*wallet.Entry) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tADDRESS\tREDELEGATE\tSWAPS")
	for _, e := range entries {
		j := toEntryJSON(e)
		redelegate := "-"
		if j.Redelegate != "" {
			redelegate = j.Redelegate
		}
		swaps := "yes"
		if !j.AllowSwaps {
			swaps = "no"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", j.Name, j.Address, redelegate, swaps)
	}
	tw.Flush()
}
