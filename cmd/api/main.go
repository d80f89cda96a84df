package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"vendorhub/internal/app/bootstrap"
)

// API process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (ports + adapters + use cases).
// 3) Serve HTTP until SIGINT/SIGTERM, then drain and close stores.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.BuildAPI()
	if err != nil {
		slog.Error("bootstrap api failed",
			"event", "bootstrap_api_failed",
			"module", "cmd/api",
			"layer", "platform",
			"error", err.Error(),
		)
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			slog.Warn("api shutdown close failed",
				"event", "api_close_failed",
				"module", "cmd/api",
				"layer", "platform",
				"error", err.Error(),
			)
		}
	}()

	if err := app.Run(ctx); err != nil {
		slog.Error("vendorhub api stopped with error",
			"event", "api_stopped_with_error",
			"module", "cmd/api",
			"layer", "platform",
			"error", err.Error(),
		)
		_ = app.Close()
		os.Exit(1)
	}
}
