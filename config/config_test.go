package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("RECIPE_DB_USER", "recipe")
	t.Setenv("RECIPE_DB_NAME", "recipes")
	t.Setenv("RECIPE_JWT_SECRET", "a-secret-long-enough")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "us-east-1", cfg.S3Region)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.LogJSON)
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("RECIPE_SERVER_PORT", "9090")
	t.Setenv("RECIPE_DB_SSL_MODE", "require")
	t.Setenv("RECIPE_REDIS_URL", "redis://cache:6379/1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "require", cfg.DBSSLMode)
	assert.Equal(t, "redis://cache:6379/1", cfg.RedisURL)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			DBUser:    "recipe",
			DBName:    "recipes",
			DBSSLMode: "disable",
			JWTSecret: "a-secret-long-enough",
		}
	}

	assert.NoError(t, Validate(base()))

	cfg := base()
	cfg.DBUser = ""
	assert.Error(t, Validate(cfg))

	cfg = base()
	cfg.DBName = ""
	assert.Error(t, Validate(cfg))

	cfg = base()
	cfg.JWTSecret = ""
	assert.Error(t, Validate(cfg))

	cfg = base()
	cfg.JWTSecret = "short"
	assert.Error(t, Validate(cfg))

	cfg = base()
	cfg.DBSSLMode = "maybe"
	assert.Error(t, Validate(cfg))
}
