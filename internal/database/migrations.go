package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS api_keys (
		key VARCHAR(255) PRIMARY KEY,
		user_id VARCHAR(255) NOT NULL,
		expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	// The store's own expiry clock, set from the TTL duration at write time.
	// expires_at is the record payload and is never used for liveness checks.
	`ALTER TABLE api_keys ADD COLUMN IF NOT EXISTS ttl_expires_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()`,

	`CREATE INDEX IF NOT EXISTS idx_api_keys_ttl_expires_at ON api_keys(ttl_expires_at)`,
	`CREATE INDEX IF NOT EXISTS idx_api_keys_user_id ON api_keys(user_id)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
