package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dimitrije/socketkey-api/internal/services"
	"github.com/dimitrije/socketkey-api/internal/store"
)

// errKeyNotFound makes the process exit non-zero for absent keys.
var errKeyNotFound = errors.New("api key not found")

func newIssueCmd(opts *options) *cobra.Command {
	var (
		userID  string
		key     string
		timeout int64
	)

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue an API key for a user",
		Long:  "Store a key for a user. Without --timeout the configured default keep-alive timeout applies.",
		Example: `  apikeyctl issue --user user-42
  apikeyctl issue --user user-42 --timeout 300
  apikeyctl issue --user user-42 --key my-fixed-key`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer sess.close()

			if key == "" {
				if key, err = services.NewAPIKey(); err != nil {
					return err
				}
			}

			expiry := sess.cfg.DefaultKeepAliveTimeout
			if cmd.Flags().Changed("timeout") {
				if expiry, err = services.TimeoutFromSeconds(timeout); err != nil {
					return fmt.Errorf("invalid --timeout: %w", err)
				}
				err = sess.service.StoreAPIKey(cmd.Context(), key, userID, expiry)
			} else {
				_, err = sess.service.GenerateAPIKey(cmd.Context(), key, userID)
			}
			if err != nil {
				return fmt.Errorf("issue api key: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Key:     %s\n", key)
			fmt.Fprintf(out, "User:    %s\n", userID)
			fmt.Fprintf(out, "Expires: %s\n", time.Now().Add(expiry).UTC().Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id to bind the key to (required)")
	cmd.Flags().StringVar(&key, "key", "", "use this key instead of generating one")
	cmd.Flags().Int64Var(&timeout, "timeout", 0, "lifetime in seconds")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <key>",
		Short: "Check whether a key is live",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer sess.close()

			valid, err := sess.service.ValidateAPIKey(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !valid {
				fmt.Fprintln(cmd.OutOrStdout(), "invalid")
				return errKeyNotFound
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}
}

func newInfoCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info <key>",
		Short: "Show the user and expiry of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer sess.close()

			rec, found, err := sess.service.GetAPIKeyInfo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !found {
				return errKeyNotFound
			}

			now := time.Now()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "User:      %s\n", rec.UserID)
			fmt.Fprintf(out, "Expires:   %s\n", rec.ExpiresAt.UTC().Format(time.RFC3339))
			if rec.Expired(now) {
				fmt.Fprintln(out, "Remaining: expiring")
			} else {
				fmt.Fprintf(out, "Remaining: %s\n", rec.TTL(now).Round(time.Second))
			}
			return nil
		},
	}
}

func newExtendCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "extend <key>",
		Short: "Reset a key to the default keep-alive timeout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer sess.close()

			rec, extended, err := sess.service.RenewAPIKey(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !extended {
				return errKeyNotFound
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Expires: %s\n", rec.ExpiresAt.UTC().Format(time.RFC3339))
			return nil
		},
	}
}

func newCleanupCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove expired entries from backends that emulate TTL",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer sess.close()

			sweeper, ok := sess.store.(store.Sweeper)
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s expires keys natively, nothing to do\n", sess.cfg.Store.Backend)
				return nil
			}
			removed, err := sweeper.CleanupExpired(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired keys\n", removed)
			return nil
		},
	}
}
