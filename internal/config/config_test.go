package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "account-service", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 15, cfg.Auth.AccessTokenTTLMinutes)
	assert.Equal(t, 7, cfg.Auth.RefreshTokenTTLDays)
	assert.Equal(t, 24, cfg.Auth.ResetTokenWindowHours)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, "noreply@example.com", cfg.Mail.From)
	assert.Equal(t, "http://localhost:3000", cfg.Frontend.BaseURL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "5")
	t.Setenv("AUTH_REFRESH_TOKEN_TTL_DAYS", "30")
	t.Setenv("FRONTEND_BASE_URL", "https://accounts.example.com")
	t.Setenv("REDIS_PROFILE_TTL_SECONDS", "120")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, 30*24*time.Hour, cfg.Auth.RefreshTokenTTL())
	assert.Equal(t, "https://accounts.example.com", cfg.Frontend.BaseURL)
	assert.Equal(t, 2*time.Minute, cfg.Redis.ProfileTTL())
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("AUTH_BCRYPT_COST", "high")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
}
