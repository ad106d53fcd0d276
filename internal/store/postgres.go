package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dimitrije/socketkey-api/internal/database"
	"github.com/dimitrije/socketkey-api/internal/models"
)

// PostgresStore emulates native expiry with a ttl_expires_at column computed
// by the database from the TTL at write time. Reads ignore rows past it and
// CleanupExpired deletes them.
type PostgresStore struct {
	db *database.DB
}

func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Set(ctx context.Context, key string, rec models.APIKeyRecord, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidTTL
	}
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO api_keys (key, user_id, expires_at, ttl_expires_at)
		VALUES ($1, $2, $3, NOW() + make_interval(secs => $4))
		ON CONFLICT (key) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			expires_at = EXCLUDED.expires_at,
			ttl_expires_at = EXCLUDED.ttl_expires_at,
			created_at = NOW()
	`, key, rec.UserID, rec.ExpiresAt, ttl.Seconds())
	if err != nil {
		return fmt.Errorf("postgres set: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (*models.APIKeyRecord, error) {
	rec := models.APIKeyRecord{Key: key}
	err := s.db.Pool.QueryRow(ctx, `
		SELECT user_id, expires_at FROM api_keys
		WHERE key = $1 AND ttl_expires_at > NOW()
	`, key).Scan(&rec.UserID, &rec.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres get: %w", err)
	}
	return &rec, nil
}

func (s *PostgresStore) Exists(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM api_keys WHERE key = $1 AND ttl_expires_at > NOW())
	`, key).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("postgres exists: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) CleanupExpired(ctx context.Context) (int64, error) {
	result, err := s.db.Pool.Exec(ctx, `DELETE FROM api_keys WHERE ttl_expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("postgres cleanup: %w", err)
	}
	return result.RowsAffected(), nil
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
