// Package main is the entry point for the grimoire launcher.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/runger/grimoire/internal/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
