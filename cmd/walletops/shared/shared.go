// Package shared provides the helpers every walletops command uses: access to the
// dependency container, wallet unlocking and selection, and outcome rendering.
package shared

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/walletops/internal/di"
	"github.com/altuslabsxyz/walletops/internal/domain/common"
	"github.com/altuslabsxyz/walletops/internal/interactive"
)

// ErrReported marks a failure whose details were already printed.
var ErrReported = errors.New("errors were reported above")

// Container returns the dependency container built by the root command.
func Container(cmd *cobra.Command) (*di.Container, error) {
	c := di.FromContext(cmd.Context())
	if c == nil {
		return nil, fmt.Errorf("configuration was not loaded")
	}
	return c, nil
}

// HandleError silences cobra's usage output for failures that are not
// caused by the command line.
func HandleError(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	if interactive.IsCancellation(err) || common.ShouldSilenceUsage(err) || errors.Is(err, ErrReported) {
		cmd.SilenceUsage = true
	}
	return err
}

// RunE adapts fn so its errors pass through HandleError.
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return HandleError(cmd, fn(cmd, args))
	}
}
