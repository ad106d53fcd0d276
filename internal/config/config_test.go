package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 3600*time.Second, cfg.DefaultKeepAliveTimeout)
	assert.True(t, cfg.KeepAliveOnUse)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_KeepAliveTimeout(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DEFAULT_KEEP_ALIVE_TIMEOUT_SECONDS", "120")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, cfg.DefaultKeepAliveTimeout)
}

func TestLoad_InvalidKeepAliveTimeout(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	for _, value := range []string{"0", "-5", "ten", "18446744083"} {
		t.Run(value, func(t *testing.T) {
			t.Setenv("DEFAULT_KEEP_ALIVE_TIMEOUT_SECONDS", value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_StoreSettings(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/keys")
	t.Setenv("ENV", "production")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Store.Backend)
	assert.Equal(t, "postgres://localhost/keys", cfg.Store.DatabaseURL)
	assert.True(t, cfg.IsProduction())
}
