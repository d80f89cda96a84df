package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"vendorhub/internal/platform/config"

	"github.com/spf13/cobra"
)

type options struct {
	apiURL string
	token  string
	secret string
	logger *slog.Logger
}

func newRootCmd(out io.Writer, errOut io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "vendorctl",
		Short:         "vendorhub operator console",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			if !cmd.Flags().Changed("api") {
				opts.apiURL = cfg.APIURL
			}
			if !cmd.Flags().Changed("secret") {
				opts.secret = cfg.JWTSecret
			}
			if !cmd.Flags().Changed("token") {
				opts.token = strings.TrimSpace(os.Getenv("VENDORHUB_TOKEN"))
			}
			opts.logger = slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&opts.apiURL, "api", "", "API base URL (default VENDORHUB_API_URL)")
	root.PersistentFlags().StringVar(&opts.token, "token", "", "bearer token (default VENDORHUB_TOKEN)")
	root.PersistentFlags().StringVar(&opts.secret, "secret", "", "session signing secret (default JWT_SECRET)")

	root.AddCommand(
		newTokenCmd(opts),
		newVendorsCmd(opts),
		newDealCmd(opts),
		newAdminCmd(opts),
	)
	return root
}

func (o *options) requireToken() error {
	if o.token == "" {
		return fmt.Errorf("not signed in; pass --token or set VENDORHUB_TOKEN (see 'vendorctl token issue')")
	}
	return nil
}
