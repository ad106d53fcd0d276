package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dimitrije/socketkey-api/internal/config"
	"github.com/dimitrije/socketkey-api/internal/services"
	"github.com/dimitrije/socketkey-api/internal/store"
)

// options holds the persistent flag values shared by every subcommand.
type options struct {
	backend string
	verbose bool
}

func Execute(version string) error {
	return NewRootCmd(version).Execute()
}

func NewRootCmd(version string) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "apikeyctl",
		Short: "Inspect and manage socket API keys",
		Long: `apikeyctl talks to the same TTL store as the socketkey-api server, using the
same environment configuration (.env is honored). Use it to issue keys by hand,
check them, or renew them without going through the HTTP API.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.backend, "backend", "", "store backend override (redis, postgres, bolt, memory)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log store activity to stderr")

	cmd.AddCommand(newIssueCmd(opts))
	cmd.AddCommand(newValidateCmd(opts))
	cmd.AddCommand(newInfoCmd(opts))
	cmd.AddCommand(newExtendCmd(opts))
	cmd.AddCommand(newCleanupCmd(opts))
	cmd.AddCommand(newTokenCmd())

	return cmd
}

// session bundles what a key subcommand needs. close must be called.
type session struct {
	cfg     *config.Config
	store   store.Store
	service *services.APIKeyService
}

func (s *session) close() {
	_ = s.store.Close()
}

func openSession(ctx context.Context, opts *options) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.backend != "" {
		cfg.Store.Backend = opts.backend
	}

	logger := zap.NewNop()
	if opts.verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return nil, fmt.Errorf("create logger: %w", err)
		}
	}

	s, err := store.Open(ctx, store.Options{
		Backend:        cfg.Store.Backend,
		RedisURL:       cfg.Store.RedisURL,
		RedisKeyPrefix: cfg.Store.RedisKeyPrefix,
		DatabaseURL:    cfg.Store.DatabaseURL,
		BoltPath:       cfg.Store.BoltPath,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &session{
		cfg:     cfg,
		store:   s,
		service: services.NewAPIKeyService(s, cfg.DefaultKeepAliveTimeout, logger),
	}, nil
}
