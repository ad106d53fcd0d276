package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/dimitrije/socketkey-api/internal/metrics"
	"github.com/dimitrije/socketkey-api/internal/models"
	"github.com/dimitrije/socketkey-api/internal/store"
)

var ErrInvalidTimeout = errors.New("timeout out of range")

const (
	apiKeyPrefix    = "sk_"
	apiKeyRandomLen = 32

	// MaxTimeoutSeconds is the longest whole-second timeout a time.Duration holds.
	MaxTimeoutSeconds = math.MaxInt64 / int64(time.Second)
)

// TimeoutFromSeconds converts a caller-supplied lifetime, rejecting values
// that are not positive or would overflow a time.Duration.
func TimeoutFromSeconds(seconds int64) (time.Duration, error) {
	if seconds <= 0 || seconds > MaxTimeoutSeconds {
		return 0, ErrInvalidTimeout
	}
	return time.Duration(seconds) * time.Second, nil
}

// APIKeyService issues, validates and renews API keys held in a TTL store.
// It keeps no mutable state, so one instance can be shared by any number of
// goroutines. The read-then-write in ExtendAPIKeyExpiration is not atomic:
// concurrent extends of one key race and the last write wins.
type APIKeyService struct {
	store          store.Store
	defaultTimeout time.Duration
	logger         *zap.Logger
	now            func() time.Time
}

func NewAPIKeyService(s store.Store, defaultTimeout time.Duration, logger *zap.Logger) *APIKeyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIKeyService{
		store:          s,
		defaultTimeout: defaultTimeout,
		logger:         logger,
		now:            time.Now,
	}
}

// WithClock replaces the time source used to compute ExpiresAt.
func (s *APIKeyService) WithClock(now func() time.Time) *APIKeyService {
	s.now = now
	return s
}

func (s *APIKeyService) DefaultTimeout() time.Duration {
	return s.defaultTimeout
}

// NewAPIKey returns a fresh opaque key: sk_<64 hex chars>.
// The service never generates keys itself; callers pass them in.
func NewAPIKey() (string, error) {
	randomBytes := make([]byte, apiKeyRandomLen)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate api key: %w", err)
	}
	return apiKeyPrefix + hex.EncodeToString(randomBytes), nil
}

// GenerateAPIKey stores key for userID with the default timeout and returns
// key unchanged.
func (s *APIKeyService) GenerateAPIKey(ctx context.Context, key, userID string) (string, error) {
	if err := s.StoreAPIKey(ctx, key, userID, s.defaultTimeout); err != nil {
		return "", err
	}
	return key, nil
}

// StoreAPIKey writes a record expiring timeout from now, replacing any
// existing record under key. The store TTL and ExpiresAt are set together.
func (s *APIKeyService) StoreAPIKey(ctx context.Context, key, userID string, timeout time.Duration) error {
	if timeout <= 0 {
		metrics.RecordKeyOperation("store", "invalid")
		return ErrInvalidTimeout
	}

	if _, err := s.write(ctx, key, userID, timeout); err != nil {
		metrics.RecordKeyOperation("store", "error")
		return fmt.Errorf("failed to store api key: %w", err)
	}

	metrics.RecordKeyOperation("store", "ok")
	s.logger.Debug("api key stored",
		zap.String("key", maskKey(key)),
		zap.String("user_id", userID),
		zap.Duration("timeout", timeout),
	)
	return nil
}

// ValidateAPIKey reports whether the store holds a live entry under key.
// ExpiresAt is never consulted: presence in the store means not expired.
func (s *APIKeyService) ValidateAPIKey(ctx context.Context, key string) (bool, error) {
	ok, err := s.store.Exists(ctx, key)
	if err != nil {
		metrics.RecordKeyOperation("validate", "error")
		return false, fmt.Errorf("failed to validate api key: %w", err)
	}
	if !ok {
		metrics.RecordKeyOperation("validate", "absent")
		return false, nil
	}
	metrics.RecordKeyOperation("validate", "ok")
	return true, nil
}

// HasAPIKey is an alias of ValidateAPIKey.
func (s *APIKeyService) HasAPIKey(ctx context.Context, key string) (bool, error) {
	return s.ValidateAPIKey(ctx, key)
}

// ExtendAPIKeyExpiration resets the key to expire the default timeout from
// now, keeping its user. Any custom timeout set by StoreAPIKey is discarded.
// A missing key is left alone and reported as false with a nil error.
func (s *APIKeyService) ExtendAPIKeyExpiration(ctx context.Context, key string) (bool, error) {
	_, extended, err := s.RenewAPIKey(ctx, key)
	return extended, err
}

// RenewAPIKey does what ExtendAPIKeyExpiration does and also returns the
// record that was written.
func (s *APIKeyService) RenewAPIKey(ctx context.Context, key string) (*models.APIKeyRecord, bool, error) {
	current, err := s.store.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		metrics.RecordKeyOperation("extend", "absent")
		return nil, false, nil
	}
	if err != nil {
		metrics.RecordKeyOperation("extend", "error")
		return nil, false, fmt.Errorf("failed to read api key: %w", err)
	}

	rec, err := s.write(ctx, key, current.UserID, s.defaultTimeout)
	if err != nil {
		metrics.RecordKeyOperation("extend", "error")
		return nil, false, fmt.Errorf("failed to extend api key: %w", err)
	}

	metrics.RecordKeyOperation("extend", "ok")
	s.logger.Debug("api key extended",
		zap.String("key", maskKey(key)),
		zap.String("user_id", rec.UserID),
		zap.Time("expires_at", rec.ExpiresAt),
	)
	return rec, true, nil
}

// GetAPIKeyInfo returns the live record under key. found is false when the
// key is missing or expired.
func (s *APIKeyService) GetAPIKeyInfo(ctx context.Context, key string) (rec *models.APIKeyRecord, found bool, err error) {
	rec, err = s.store.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		metrics.RecordKeyOperation("info", "absent")
		return nil, false, nil
	}
	if err != nil {
		metrics.RecordKeyOperation("info", "error")
		return nil, false, fmt.Errorf("failed to get api key: %w", err)
	}
	metrics.RecordKeyOperation("info", "ok")
	return rec, true, nil
}

func (s *APIKeyService) write(ctx context.Context, key, userID string, timeout time.Duration) (*models.APIKeyRecord, error) {
	rec := models.APIKeyRecord{
		Key:       key,
		UserID:    userID,
		ExpiresAt: s.now().Add(timeout),
	}
	if err := s.store.Set(ctx, key, rec, timeout); err != nil {
		return nil, err
	}
	return &rec, nil
}

// maskKey keeps enough of a key to correlate log lines without leaking it.
func maskKey(key string) string {
	if len(key) <= 8 {
		return "..."
	}
	return key[:8] + "..."
}
