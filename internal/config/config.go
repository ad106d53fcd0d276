package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultKeepAliveTimeoutSeconds = 3600

type Config struct {
	Port string
	Env  string

	// DefaultKeepAliveTimeout is the lifetime given to new keys and the
	// window every extension resets to. Read once; never changes.
	DefaultKeepAliveTimeout time.Duration
	// KeepAliveOnUse slides a key's expiry each time it authenticates a request.
	KeepAliveOnUse bool

	Store           StoreConfig
	CleanupInterval time.Duration

	JWTSecret       string
	JWTAccessExpiry time.Duration

	Log LogConfig
}

type StoreConfig struct {
	Backend        string
	RedisURL       string
	RedisKeyPrefix string
	DatabaseURL    string
	BoltPath       string
}

type LogConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	timeoutSeconds, err := strconv.Atoi(getEnv("DEFAULT_KEEP_ALIVE_TIMEOUT_SECONDS", strconv.Itoa(defaultKeepAliveTimeoutSeconds)))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_KEEP_ALIVE_TIMEOUT_SECONDS: %w", err)
	}
	if timeoutSeconds <= 0 || int64(timeoutSeconds) > math.MaxInt64/int64(time.Second) {
		return nil, fmt.Errorf("DEFAULT_KEEP_ALIVE_TIMEOUT_SECONDS out of range, got %d", timeoutSeconds)
	}

	keepAliveOnUse, err := strconv.ParseBool(getEnv("KEEP_ALIVE_ON_USE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid KEEP_ALIVE_ON_USE: %w", err)
	}

	accessExpiry, err := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	cleanupInterval, err := time.ParseDuration(getEnv("CLEANUP_INTERVAL", "1h"))
	if err != nil {
		cleanupInterval = time.Hour
	}

	jwtSecret, err := requireEnv("JWT_SECRET")
	if err != nil {
		return nil, err
	}

	return &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		DefaultKeepAliveTimeout: time.Duration(timeoutSeconds) * time.Second,
		KeepAliveOnUse:          keepAliveOnUse,

		Store: StoreConfig{
			Backend:        getEnv("STORE_BACKEND", "redis"),
			RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),
			RedisKeyPrefix: getEnv("REDIS_KEY_PREFIX", ""),
			DatabaseURL:    getEnv("DATABASE_URL", ""),
			BoltPath:       getEnv("BOLT_PATH", "socketkey.db"),
		},
		CleanupInterval: cleanupInterval,

		JWTSecret:       jwtSecret,
		JWTAccessExpiry: accessExpiry,

		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func requireEnv(key string) (string, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", fmt.Errorf("required environment variable not set: %s", key)
	}
	return value, nil
}
