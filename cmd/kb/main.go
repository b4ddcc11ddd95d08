// kb is a command-line front end for a minimal triple store.
//
// Usage:
//
//	kb add "Rex type Dog" "Rex owner Alice"
//	kb query --var x "?x type Dog" "?x owner Alice"
//	kb about Rex
//	kb test ./scenarios
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/minikb/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
