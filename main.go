package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"stylec/colors"
	"stylec/internal/cli"
)

const version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(version).ExecuteContext(ctx); err != nil {
		// diagnostics for failed stylesheets are already on stderr
		if !errors.Is(err, cli.ErrFailed) {
			colors.RED.Fprintf(os.Stderr, "error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
