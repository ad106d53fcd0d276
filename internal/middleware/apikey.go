package middleware

import (
	"context"
	"strings"

	"github.com/m1z23r/drift/pkg/drift"

	"github.com/dimitrije/socketkey-api/internal/models"
)

const (
	APIKeyHeader    = "X-API-Key"
	APIKeyKey       = "api_key"
	APIKeyUserIDKey = "api_key_user_id"
)

// APIKeyServiceInterface defines the methods needed by the API key middleware
type APIKeyServiceInterface interface {
	GetAPIKeyInfo(ctx context.Context, key string) (*models.APIKeyRecord, bool, error)
	ExtendAPIKeyExpiration(ctx context.Context, key string) (bool, error)
}

// APIKeyAuth authenticates requests carrying an API key in X-API-Key, or as
// an "ApiKey <key>" Authorization header. With keepAlive set, every accepted
// request resets the key to the default expiry window.
func APIKeyAuth(apiKeyService APIKeyServiceInterface, keepAlive bool) drift.HandlerFunc {
	return func(c *drift.Context) {
		key := APIKeyFromRequest(c)
		if key == "" {
			c.Unauthorized("missing api key")
			return
		}

		ctx := c.Request.Context()

		rec, found, err := apiKeyService.GetAPIKeyInfo(ctx, key)
		if err != nil {
			c.InternalServerError("failed to check api key")
			return
		}
		if !found {
			c.Unauthorized("invalid or expired api key")
			return
		}

		if keepAlive {
			extended, err := apiKeyService.ExtendAPIKeyExpiration(ctx, key)
			if err != nil {
				c.InternalServerError("failed to extend api key")
				return
			}
			// expired between the two store calls
			if !extended {
				c.Unauthorized("invalid or expired api key")
				return
			}
		}

		c.Set(APIKeyKey, key)
		c.Set(APIKeyUserIDKey, rec.UserID)
		c.Next()
	}
}

// APIKeyFromRequest reads the key from X-API-Key, falling back to an
// "ApiKey <key>" Authorization header. Empty when neither is present.
func APIKeyFromRequest(c *drift.Context) string {
	if key := strings.TrimSpace(c.GetHeader(APIKeyHeader)); key != "" {
		return key
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "apikey") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// GetAPIKeyUserID retrieves the user bound to the presented API key
func GetAPIKeyUserID(c *drift.Context) string {
	if id, ok := c.Get(APIKeyUserIDKey); ok {
		if uid, ok := id.(string); ok {
			return uid
		}
	}
	return ""
}

// GetAPIKey retrieves the presented API key
func GetAPIKey(c *drift.Context) string {
	if key, ok := c.Get(APIKeyKey); ok {
		if k, ok := key.(string); ok {
			return k
		}
	}
	return ""
}
