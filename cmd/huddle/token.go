package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/huddleai/huddle/internal/auth"
	"github.com/huddleai/huddle/internal/config"
)

// newTokenCommand mints an admin JWT for the introspection endpoints.
func newTokenCommand() *cobra.Command {
	var subject string
	var expiresIn time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Generate an admin token for the plugin introspection API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.NewDefault(defaultOwner)
			if err := config.LoadFile(resolveConfigPath(), cfg); err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.HTTP.JWTSecret == "" {
				return fmt.Errorf("http.jwt_secret is not set; admin endpoints are unauthenticated")
			}
			token, expiresAt, err := auth.GenerateToken(subject, cfg.HTTP.JWTSecret, expiresIn)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "admin", "token subject")
	cmd.Flags().DurationVar(&expiresIn, "expires-in", 24*time.Hour, "token lifetime")
	return cmd
}
