package main

import (
	"context"
	"errors"
	"fmt"

	vendorconsole "vendorhub/contexts/vendor-marketplace/vendor-console"
	"vendorhub/contexts/vendor-marketplace/vendor-console/adapters/identity"
	"vendorhub/contexts/vendor-marketplace/vendor-console/adapters/notify"
	"vendorhub/contexts/vendor-marketplace/vendor-console/domain/entities"

	"github.com/spf13/cobra"
)

// errReported marks failures the console already showed to the operator.
var errReported = errors.New("reported")

func newDealCmd(opts *options) *cobra.Command {
	dealCmd := &cobra.Command{
		Use:   "deal",
		Short: "Deal actions",
	}

	closeCmd := &cobra.Command{
		Use:   "close <vendor_id> <value>",
		Short: "Close a vendor deal; the value accepts a comma decimal (150,50)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.requireToken(); err != nil {
				return err
			}
			session := identity.NewSession(opts.secret)
			defer session.Close()
			if err := session.SignIn(opts.token); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			notifier := notify.Fanout{notify.NewTerminal(out), notify.Logger{Logger: opts.logger}}
			console := vendorconsole.NewHTTPModule(opts.apiURL, session, notifier, nil, opts.logger)

			vendorID := args[0]
			console.DealForm.OnRefresh = func(ctx context.Context) {
				vendors, err := console.Vendors.ListVendors(ctx, "")
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "refresh failed: %v\n", err)
					return
				}
				for _, vendor := range vendors {
					if vendor.VendorID == vendorID {
						printVendors(out, []entities.VendorSummary{vendor})
						return
					}
				}
			}

			console.DealForm.SetInput(args[1])
			outcome := console.DealForm.Submit(cmd.Context(), vendorID)
			if !outcome.Succeeded() {
				return fmt.Errorf("%w: %v", errReported, outcome.Err)
			}
			return nil
		},
	}

	dealCmd.AddCommand(closeCmd)
	return dealCmd
}
