package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedKeys = []string{
	"APP_ENV",
	"LOG_LEVEL",
	"SERVER_PORT",
	"STORAGE_DRIVER",
	"REDIS_URL",
	"SEED_ORDER_COUNT",
	"TRACKING_POLL_INTERVAL",
	"TRACKING_HEARTBEAT_INTERVAL",
	"ADMIN_USERNAME",
	"ADMIN_PASSWORD",
	"AUTH_JWT_SECRET",
	"AUTH_TOKEN_TTL",
}

func clearEnv() {
	for _, k := range managedKeys {
		os.Unsetenv(k)
	}
}

// TestLoad_Defaults verifies that default values are used when env vars are missing.
func TestLoad_Defaults(t *testing.T) {
	clearEnv()
	os.Setenv("AUTH_JWT_SECRET", "secret")
	defer clearEnv()

	cfg, err := Load(".")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, StorageDriverRedis, cfg.Storage.Driver)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Storage.RedisURL)
	assert.Equal(t, 5, cfg.Tracking.SeedOrderCount)
	assert.Equal(t, 10*time.Second, cfg.Tracking.PollInterval)
	assert.Equal(t, 15*time.Second, cfg.Tracking.HeartbeatInterval)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
}

// TestLoad_EnvVars verifies that environment variables override defaults.
func TestLoad_EnvVars(t *testing.T) {
	clearEnv()
	os.Setenv("APP_ENV", "production")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("STORAGE_DRIVER", "memory")
	os.Setenv("SEED_ORDER_COUNT", "3")
	os.Setenv("TRACKING_POLL_INTERVAL", "2s")
	os.Setenv("TRACKING_HEARTBEAT_INTERVAL", "5s")
	os.Setenv("ADMIN_USERNAME", "root")
	os.Setenv("AUTH_JWT_SECRET", "s3cr3t")
	os.Setenv("AUTH_TOKEN_TTL", "30m")
	defer clearEnv()

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 3, cfg.Tracking.SeedOrderCount)
	assert.Equal(t, 2*time.Second, cfg.Tracking.PollInterval)
	assert.Equal(t, 5*time.Second, cfg.Tracking.HeartbeatInterval)
	assert.Equal(t, "root", cfg.Admin.Username)
	assert.Equal(t, "s3cr3t", cfg.Auth.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
}

// TestLoad_File verifies that values are loaded from a .env file.
func TestLoad_File(t *testing.T) {
	clearEnv()
	content := []byte(`
APP_ENV=staging
LOG_LEVEL=warn
SERVER_PORT=7070
REDIS_URL=redis://cache:6379/2
AUTH_JWT_SECRET=file-secret
`)
	err := os.WriteFile(".env", content, 0644)
	require.NoError(t, err)
	defer os.Remove(".env")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 7070, cfg.ServerPort)
	assert.Equal(t, "redis://cache:6379/2", cfg.Storage.RedisURL)
	assert.Equal(t, "file-secret", cfg.Auth.JWTSecret)
}

// TestLoad_ValidationFailure verifies that missing required fields return an error.
func TestLoad_ValidationFailure(t *testing.T) {
	clearEnv()

	cfg, err := Load(".")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "missing required configuration: AUTH_JWT_SECRET")
}

func TestLoad_InvalidDriver(t *testing.T) {
	clearEnv()
	os.Setenv("AUTH_JWT_SECRET", "secret")
	os.Setenv("STORAGE_DRIVER", "postgres")
	defer clearEnv()

	cfg, err := Load(".")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "invalid STORAGE_DRIVER")
}
