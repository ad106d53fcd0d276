package handlers

import (
	"context"
	"time"

	"github.com/dimitrije/socketkey-api/internal/models"
)

// APIKeyServiceInterface defines the methods used by handlers from APIKeyService
type APIKeyServiceInterface interface {
	GenerateAPIKey(ctx context.Context, key, userID string) (string, error)
	StoreAPIKey(ctx context.Context, key, userID string, timeout time.Duration) error
	ValidateAPIKey(ctx context.Context, key string) (bool, error)
	RenewAPIKey(ctx context.Context, key string) (*models.APIKeyRecord, bool, error)
	GetAPIKeyInfo(ctx context.Context, key string) (*models.APIKeyRecord, bool, error)
	DefaultTimeout() time.Duration
}
