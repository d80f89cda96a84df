package main

import (
	"errors"
	"fmt"
	"time"

	"vendorhub/internal/platform/auth"

	"github.com/spf13/cobra"
)

func newTokenCmd(opts *options) *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Session token helpers",
	}

	var (
		subject string
		ttl     time.Duration
	)
	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Sign a session token for a subject",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.secret == "" {
				return errors.New("a signing secret is required; pass --secret or set JWT_SECRET")
			}
			token, err := auth.IssueToken(opts.secret, subject, ttl, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	issueCmd.Flags().StringVar(&subject, "subject", "", "subject id placed in the sub claim")
	issueCmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime")
	_ = issueCmd.MarkFlagRequired("subject")

	tokenCmd.AddCommand(issueCmd)
	return tokenCmd
}
