// Package store holds the TTL key-value backends that API key records live in.
//
// Every backend enforces expiry itself: a record written with a TTL is
// reported absent by Get and Exists once that TTL has elapsed, regardless of
// the ExpiresAt value carried in the payload.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dimitrije/socketkey-api/internal/models"
)

var (
	ErrNotFound      = errors.New("store: key not found")
	ErrCorruptRecord = errors.New("store: corrupt record")
	ErrInvalidTTL    = errors.New("store: ttl must be positive")
)

// Store is a TTL-capable key-value client for API key records.
// Implementations must be safe for concurrent use by multiple goroutines.
type Store interface {
	// Set writes rec under key, replacing any existing entry, with a native
	// expiry of ttl.
	Set(ctx context.Context, key string, rec models.APIKeyRecord, ttl time.Duration) error
	// Get returns the live record under key, or ErrNotFound.
	Get(ctx context.Context, key string) (*models.APIKeyRecord, error)
	// Exists reports whether a live entry is held under key.
	Exists(ctx context.Context, key string) (bool, error)
	Close() error
}

// Sweeper is implemented by backends that emulate TTL and need dead entries
// removed periodically.
type Sweeper interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

func encodeRecord(rec models.APIKeyRecord) ([]byte, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return data, nil
}

func decodeRecord(key string, data []byte) (*models.APIKeyRecord, error) {
	var rec models.APIKeyRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: key %q: %v", ErrCorruptRecord, key, err)
	}
	rec.Key = key
	return &rec, nil
}
