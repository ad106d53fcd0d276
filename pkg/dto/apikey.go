package dto

type CreateAPIKeyRequest struct {
	TimeoutSeconds int64 `json:"timeout_seconds"`
}

// LoginResponse is returned when a key is issued to an authenticated user.
type LoginResponse struct {
	APIKey    string `json:"api_key"`
	ExpiresAt string `json:"expires_at"`
}

type APIKeyInfoResponse struct {
	UserID           string `json:"user_id"`
	ExpiresAt        string `json:"expires_at"`
	ExpiresInSeconds int64  `json:"expires_in_seconds"`
}

type APIKeyValidityResponse struct {
	Valid bool `json:"valid"`
}

type SessionResponse struct {
	UserID string `json:"user_id"`
}

type APIKeyExtendResponse struct {
	Message   string `json:"message"`
	ExpiresAt string `json:"expires_at"`
}
