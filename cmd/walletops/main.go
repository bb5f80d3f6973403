package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/altuslabsxyz/walletops/cmd/walletops/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := commands.NewRootCmd()
	err := rootCmd.ExecuteContext(ctx)

	// os.Exit skips defers
	commands.Close()
	stop()

	if err != nil {
		commands.ReportError(err)
		os.Exit(1)
	}
}
