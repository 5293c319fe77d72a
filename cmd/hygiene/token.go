package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nexuscrm/hygiene/pkg/auth"
	"github.com/nexuscrm/hygiene/pkg/constants"
)

func (a *App) tokenCommand() *cobra.Command {
	var (
		subject string
		scope   string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API token signed with auth.jwt_secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if ttl <= 0 {
				return fmt.Errorf("--ttl must be positive, got %s", ttl)
			}
			token, err := auth.NewIssuer(a.cfg.Auth.JWTSecret).GenerateToken(subject, scope, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "token subject, e.g. the calling service")
	cmd.Flags().StringVar(&scope, "scope", "", "optional scope claim")
	cmd.Flags().DurationVar(&ttl, "ttl", constants.TokenDefaultTTL, "token lifetime")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
