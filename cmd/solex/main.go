package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/solconf/solconf/internal/cli"
)

func main() {
	os.Exit(run(os.Stdout, os.Stderr, os.Args[1:]))
}

// run wires the command tree to the process: streams, signal-aware
// context, exit code. Kept apart from main so tests can call it.
func run(stdout, stderr io.Writer, args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.New(stdout, stderr)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		// An interrupted watch is a clean shutdown, not a failure.
		if errors.Is(err, context.Canceled) {
			return 0
		}
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}
