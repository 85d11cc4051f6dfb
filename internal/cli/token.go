package cli

import (
	"fmt"
	"time"

	"maidmatch_backend/internal/auth"
	"maidmatch_backend/internal/models"

	"github.com/spf13/cobra"
)

// newTokenCommand mints a bearer token for local testing.
func newTokenCommand() *cobra.Command {
	var (
		userID string
		role   string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Args:  cobra.NoArgs,
		Short: "Issue a signed bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := models.UserRole(role)
			if !r.Valid() {
				return fmt.Errorf("invalid role %q", role)
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if ttl == 0 {
				ttl = time.Duration(cfg.JWT.TTL) * time.Minute
			}

			token, err := auth.GenerateToken(cfg.JWT.Secret, userID, r, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "", "user id (required)")
	cmd.Flags().StringVarP(&role, "role", "r", string(models.UserRoleRequester), "provider, requester or admin")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default jwt.ttl minutes)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
