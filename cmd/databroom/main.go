// Command databroom cleans tabular data files and generates the Python or R
// code that reproduces the cleaning.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/databroom/databroom/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.New(os.Stderr, cli.LogInfo).Run(ctx, os.Args[1:])
	cancel()
	os.Exit(code)
}
