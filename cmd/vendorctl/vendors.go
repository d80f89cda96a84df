package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"vendorhub/contexts/vendor-marketplace/vendor-console/adapters/httpclient"
	"vendorhub/contexts/vendor-marketplace/vendor-console/domain/entities"

	"github.com/spf13/cobra"
)

func newVendorsCmd(opts *options) *cobra.Command {
	vendorsCmd := &cobra.Command{
		Use:   "vendors",
		Short: "Browse vendor cards",
	}

	var category string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List vendor cards, optionally by category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.requireToken(); err != nil {
				return err
			}
			client := httpclient.New(opts.apiURL, func() string { return opts.token }, opts.logger)
			vendors, err := client.ListVendors(cmd.Context(), category)
			if err != nil {
				return err
			}
			printVendors(cmd.OutOrStdout(), vendors)
			return nil
		},
	}
	listCmd.Flags().StringVar(&category, "category", "", "category slug, or \"all\"")

	vendorsCmd.AddCommand(listCmd)
	return vendorsCmd
}

func printVendors(out io.Writer, vendors []entities.VendorSummary) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tRATING\tDEAL")
	for _, vendor := range vendors {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			vendor.VendorID,
			vendor.Name,
			vendor.Category,
			stars(vendor),
			dealColumn(vendor),
		)
	}
	_ = w.Flush()
}

func stars(vendor entities.VendorSummary) string {
	return strings.Repeat("★", vendor.FullStars) +
		strings.Repeat("½", vendor.HalfStars) +
		strings.Repeat("☆", vendor.EmptyStars)
}

func dealColumn(vendor entities.VendorSummary) string {
	if !vendor.DealClosed {
		return "-"
	}
	if vendor.DealValue == nil {
		return "fechado"
	}
	return fmt.Sprintf("fechado R$ %.2f", *vendor.DealValue)
}
