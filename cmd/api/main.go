//	@title			Car Dealership API
//	@version		1.0
//	@description	Inventory service for cars and their images.
//
//	@host		localhost:8080
//	@BasePath	/api/v1

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("command failed", "error", err)
		stop()
		os.Exit(1)
	}
}
