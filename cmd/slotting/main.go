package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"slotting.dev/slotting/internal/cli"
	slotErrors "slotting.dev/slotting/internal/errors"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Interrupting a solve stops the search and keeps the best assignment
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	rootCmd := cli.NewRootCmd(version, commit, date)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		// a timed-out solve has already reported itself
		if !errors.Is(err, slotErrors.ErrTimedOut) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(cli.ExitCode(err))
	}
}
