package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/colin4124/knitkit/internal/cli"
)

func main() {
	// Interrupting stops generation and provisioning between steps
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := cli.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprint(os.Stderr, cli.FormatError(err))
		stop()
		os.Exit(1)
	}
}
