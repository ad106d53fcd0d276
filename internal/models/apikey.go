package models

import "time"

// APIKeyRecord is the value held in the TTL store under an API key.
// Key is the lookup key and is not part of the stored payload.
type APIKeyRecord struct {
	Key       string    `json:"-"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the record's payload expiry has passed at t.
// Liveness is decided by the store TTL; this is for display only.
func (r *APIKeyRecord) Expired(t time.Time) bool {
	return !t.Before(r.ExpiresAt)
}

// TTL returns the time remaining until ExpiresAt, floored at zero.
func (r *APIKeyRecord) TTL(t time.Time) time.Duration {
	if d := r.ExpiresAt.Sub(t); d > 0 {
		return d
	}
	return 0
}
