// Command wordharvest extracts every distinct alphanumeric word from the
// text files under a directory and writes them, one per line, in the order
// they were first seen.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "wordharvest:", err)
		}
		stop()
		os.Exit(1)
	}
}
