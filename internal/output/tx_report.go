package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// TxResultInfo describes a transaction the chain accepted.
type TxResultInfo struct {
	Wallet    string   `json:"wallet,omitempty"`
	Operation string   `json:"operation"`
	TxHash    string   `json:"tx_hash"`
	Height    int64    `json:"height,omitempty"`
	Fee       string   `json:"fee,omitempty"`
	Sent      string   `json:"sent,omitempty"`
	Received  string   `json:"received,omitempty"`
	Attempts  int      `json:"attempts"`
	Notes     []string `json:"notes,omitempty"`
}

// TxErrorInfo describes a transaction that ended in failure.
type TxErrorInfo struct {
	Wallet    string `json:"wallet,omitempty"`
	Operation string `json:"operation"`
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	Code      uint32 `json:"code,omitempty"`
	RawLog    string `json:"raw_log,omitempty"`
	TxHash    string `json:"tx_hash,omitempty"`
	Hint      string `json:"hint,omitempty"`
	Attempts  int    `json:"attempts,omitempty"`
}

// PrintTxResult renders a successful transaction, or a JSON line in JSON mode.
func (l *Logger) PrintTxResult(info *TxResultInfo) {
	if info == nil {
		return
	}
	if l.jsonMode {
		l.printJSON("success", info)
		return
	}

	green := color.New(color.FgGreen)
	if info.Wallet != "" {
		green.Fprintf(l.out, "✓ %s on %s completed\n", info.Operation, info.Wallet)
	} else {
		green.Fprintf(l.out, "✓ %s completed\n", info.Operation)
	}
	if info.Sent != "" {
		fmt.Fprintf(l.out, "  Sent:     %s\n", info.Sent)
	}
	if info.Received != "" {
		fmt.Fprintf(l.out, "  Received: %s\n", info.Received)
	}
	if info.Fee != "" {
		fmt.Fprintf(l.out, "  Fee:      %s\n", info.Fee)
	}
	for _, note := range info.Notes {
		fmt.Fprintf(l.out, "  %s\n", note)
	}
	fmt.Fprintf(l.out, "  Tx Hash:  %s\n", info.TxHash)
	if l.verbose {
		fmt.Fprintf(l.out, "  Height:   %d (%d attempt(s))\n", info.Height, info.Attempts)
	}
}

// PrintTxError renders a failed transaction with its chain code and raw log.
func (l *Logger) PrintTxError(info *TxErrorInfo) {
	if info == nil {
		return
	}
	if l.jsonMode {
		l.printJSON("failure", info)
		return
	}

	red := color.New(color.FgRed)
	fmt.Fprintln(l.errOut, RedSeparator())
	if info.Wallet != "" {
		red.Fprintf(l.errOut, "✗ %s on %s failed\n", info.Operation, info.Wallet)
	} else {
		red.Fprintf(l.errOut, "✗ %s failed\n", info.Operation)
	}
	fmt.Fprintf(l.errOut, "  %s\n", info.Message)
	if info.Code != 0 {
		fmt.Fprintf(l.errOut, "  Code:    %d\n", info.Code)
	}
	if info.RawLog != "" && !strings.Contains(info.Message, info.RawLog) {
		fmt.Fprintf(l.errOut, "  Raw log: %s\n", info.RawLog)
	}
	if info.TxHash != "" {
		fmt.Fprintf(l.errOut, "  Tx Hash: %s\n", info.TxHash)
	}
	if info.Hint != "" {
		color.New(color.FgYellow).Fprintf(l.errOut, "  Hint: %s\n", info.Hint)
	}
	fmt.Fprintln(l.errOut, RedSeparator())
}

func (l *Logger) printJSON(status string, v interface{}) {
	data, err := json.Marshal(struct {
		Status string      `json:"status"`
		Result interface{} `json:"result"`
	}{status, v})
	if err != nil {
		fmt.Fprintf(l.errOut, "failed to encode result: %v\n", err)
		return
	}
	fmt.Fprintln(l.out, string(data))
}
