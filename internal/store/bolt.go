package store

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/dimitrije/socketkey-api/internal/models"
)

const defaultBoltBucket = "api_keys"

// maxBoltExpiry is the last instant UnixNano can represent.
var maxBoltExpiry = time.Unix(0, math.MaxInt64)

// BoltStore is a single-file persistent backend. Each value is laid out as
// 8 bytes big endian expiry (unix nanoseconds) followed by the JSON record.
type BoltStore struct {
	db     *bolt.DB
	bucket []byte
	now    func() time.Time
}

// OpenBolt initializes or opens a BoltStore at path. An empty bucket name
// selects the default.
func OpenBolt(path, bucket string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}
	if bucket == "" {
		bucket = defaultBoltBucket
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}
	return &BoltStore{db: db, bucket: []byte(bucket), now: time.Now}, nil
}

// WithClock replaces the time source. Intended for tests.
func (s *BoltStore) WithClock(now func() time.Time) *BoltStore {
	s.now = now
	return s
}

func (s *BoltStore) Set(_ context.Context, key string, rec models.APIKeyRecord, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidTTL
	}
	payload, err := encodeRecord(rec)
	if err != nil {
		return err
	}

	buf := make([]byte, 8+len(payload))
	binary.BigEndian.PutUint64(buf[:8], uint64(expiryNanos(s.now().Add(ttl))))
	copy(buf[8:], payload)

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(key), buf)
	})
}

func (s *BoltStore) Get(_ context.Context, key string) (*models.APIKeyRecord, error) {
	var (
		payload []byte
		found   bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(s.bucket).Get([]byte(key))
		if !s.live(v) {
			return nil
		}
		found = true
		// v is only valid for the life of the transaction
		payload = append([]byte(nil), v[8:]...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("bolt get: %w", err)
	}
	if !found {
		return nil, ErrNotFound
	}
	return decodeRecord(key, payload)
}

func (s *BoltStore) Exists(_ context.Context, key string) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		found = s.live(tx.Bucket(s.bucket).Get([]byte(key)))
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("bolt exists: %w", err)
	}
	return found, nil
}

func (s *BoltStore) CleanupExpired(_ context.Context) (int64, error) {
	var removed int64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		var dead [][]byte
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if !s.live(v) {
				dead = append(dead, append([]byte(nil), k...))
			}
		}
		for _, k := range dead {
			if err := b.Delete(k); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("bolt cleanup: %w", err)
	}
	return removed, nil
}

// expiryNanos encodes t for the value header. Instants past 2262 saturate.
func expiryNanos(t time.Time) int64 {
	if t.After(maxBoltExpiry) {
		return math.MaxInt64
	}
	return t.UnixNano()
}

// live reports whether a raw value exists and its expiry is still ahead.
// Values too short to carry the expiry header are treated as dead.
func (s *BoltStore) live(v []byte) bool {
	if len(v) < 8 {
		return false
	}
	expiresAt := int64(binary.BigEndian.Uint64(v[:8]))
	return s.now().UnixNano() < expiresAt
}

func (s *BoltStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
