package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"vendorhub/internal/app/bootstrap"
)

// Worker process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring.
// 3) Relay both outboxes to the bus and keep the role cache consumer
//    subscribed until SIGINT/SIGTERM.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.BuildWorker()
	if err != nil {
		slog.Error("bootstrap worker failed",
			"event", "bootstrap_worker_failed",
			"module", "cmd/worker",
			"layer", "platform",
			"error", err.Error(),
		)
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			slog.Warn("worker shutdown close failed",
				"event", "worker_close_failed",
				"module", "cmd/worker",
				"layer", "platform",
				"error", err.Error(),
			)
		}
	}()

	if err := app.Run(ctx); err != nil {
		slog.Error("vendorhub worker stopped with error",
			"event", "worker_stopped_with_error",
			"module", "cmd/worker",
			"layer", "platform",
			"error", err.Error(),
		)
		_ = app.Close()
		os.Exit(1)
	}
}
