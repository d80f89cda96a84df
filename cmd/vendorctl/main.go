package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Operator console entrypoint.
// Data flow:
// 1) Load config (API URL, session secret) from env/.env.
// 2) Sign the operator in from a bearer token.
// 3) Run one console action against the API: list vendors, close a deal,
//    or resolve whether the session holds the admin role.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "vendorctl:", err)
		}
		stop()
		os.Exit(1)
	}
}
