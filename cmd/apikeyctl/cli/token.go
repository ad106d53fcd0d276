package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dimitrije/socketkey-api/internal/config"
	"github.com/dimitrije/socketkey-api/internal/services"
)

func newTokenCmd() *cobra.Command {
	var (
		userID string
		email  string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a JWT access token for local testing",
		Long:  "Sign an access token with JWT_SECRET so POST /api/v1/keys can be exercised without the identity provider.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			id := uuid.New()
			if userID != "" {
				if id, err = uuid.Parse(userID); err != nil {
					return fmt.Errorf("invalid --user: %w", err)
				}
			}

			token, err := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry).GenerateAccessToken(id, email)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user uuid (random when omitted)")
	cmd.Flags().StringVar(&email, "email", "", "email claim")

	return cmd
}
