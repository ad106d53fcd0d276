package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dimitrije/socketkey-api/internal/database"
)

const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendBolt     = "bolt"
	BackendMemory   = "memory"
)

type Options struct {
	Backend        string
	RedisURL       string
	RedisKeyPrefix string
	DatabaseURL    string
	BoltPath       string
}

// Open connects the configured backend and returns it instrumented.
func Open(ctx context.Context, opts Options, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		s   Store
		err error
	)
	switch opts.Backend {
	case BackendRedis:
		s, err = OpenRedis(ctx, opts.RedisURL, opts.RedisKeyPrefix)
	case BackendPostgres:
		s, err = openPostgres(ctx, opts.DatabaseURL)
	case BackendBolt:
		s, err = OpenBolt(opts.BoltPath, "")
	case BackendMemory:
		s = NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("store opened", zap.String("backend", opts.Backend))
	return Instrument(s, opts.Backend), nil
}

func openPostgres(ctx context.Context, url string) (*PostgresStore, error) {
	db, err := database.New(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return NewPostgresStore(db), nil
}
