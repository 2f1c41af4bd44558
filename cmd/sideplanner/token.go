package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MohammadOTaha/side-planner/internal/auth"
)

// newTokenCmd mints a bearer token with the configured secret, for local
// development against an instance that shares it.
func newTokenCmd(load configLoader) *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Print a signed bearer token for user-id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			token, err := auth.NewVerifier(cfg.Auth).Issue(args[0], ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
