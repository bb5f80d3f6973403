package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/altuslabsxyz/walletops/cmd/walletops/shared"
	"github.com/altuslabsxyz/walletops/internal/domain/common"
	"github.com/altuslabsxyz/walletops/internal/interactive"
	"github.com/altuslabsxyz/walletops/internal/output"
)

// ReportError prints a command error with its user-facing message and recovery hint.
func ReportError(err error) {
	if err == nil || errors.Is(err, shared.ErrReported) {
		return
	}
	logger := output.DefaultLogger
	if interactive.IsCancellation(err) || errors.Is(err, context.Canceled) {
		logger.Info("Operation cancelled.")
		return
	}

	message := common.GetUserMessage(err)
	hint := common.GetRecoveryHint(err)

	if logger.IsJSONMode() {
		data, _ := json.Marshal(struct {
			Status string `json:"status"`
			Error  string `json:"error"`
			Hint   string `json:"hint,omitempty"`
		}{"error", message, hint})
		fmt.Fprintln(logger.ErrWriter(), string(data))
		return
	}

	logger.Error("%s", message)
	if hint != "" {
		fmt.Fprintf(logger.ErrWriter(), "\nHint: %s\n", hint)
	}
}
