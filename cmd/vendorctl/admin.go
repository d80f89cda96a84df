package main

import (
	"context"
	"fmt"
	"time"

	vendorconsole "vendorhub/contexts/vendor-marketplace/vendor-console"
	"vendorhub/contexts/vendor-marketplace/vendor-console/adapters/identity"
	"vendorhub/contexts/vendor-marketplace/vendor-console/adapters/notify"

	"github.com/spf13/cobra"
)

func newAdminCmd(opts *options) *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin role helpers",
	}

	var timeout time.Duration
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Resolve whether the signed-in session holds the admin role",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session := identity.NewSession(opts.secret)
			console := vendorconsole.NewHTTPModule(opts.apiURL, session, notify.Logger{Logger: opts.logger}, nil, opts.logger)

			runCtx, cancel := context.WithCancel(cmd.Context())
			done := make(chan error, 1)
			go func() { done <- console.Admin.Run(runCtx, session.Identities()) }()
			defer func() {
				cancel()
				<-done
			}()

			// A missing or invalid token signs the session out, which resolves to denied.
			if err := session.SignIn(opts.token); err != nil {
				opts.logger.Warn("session sign-in failed",
					"event", "console_sign_in_failed",
					"module", "cmd/vendorctl",
					"layer", "cli",
					"error", err.Error(),
				)
			}

			waitCtx, cancelWait := context.WithTimeout(cmd.Context(), timeout)
			defer cancelWait()
			state, err := console.Admin.Wait(waitCtx)
			if err != nil {
				return fmt.Errorf("admin status unresolved: %w", err)
			}

			line := "admin: " + state.Status.String()
			if state.SubjectID != "" {
				line += " (" + state.SubjectID + ")"
			}
			if state.Failed {
				line += " - role lookup failed"
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
			return nil
		},
	}
	statusCmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "how long to wait for the role lookup")

	adminCmd.AddCommand(statusCmd)
	return adminCmd
}
