package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "ACCESS_TTL_MINUTES", "REFRESH_TTL_DAYS", "RELEASE_TABLE_ON_CLOSE", "JWT_SECRET", "GIN_MODE", "REVOCATION_SWEEP_INTERVAL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 30*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTTL)
	assert.Equal(t, time.Hour, cfg.RevocationSweep)
	assert.True(t, cfg.ReleaseTableOnClose)
	assert.Equal(t, []byte(devJWTSecret), cfg.JWTSecret)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ACCESS_TTL_MINUTES", "5")
	t.Setenv("RELEASE_TABLE_ON_CLOSE", "false")
	t.Setenv("REVOCATION_SWEEP_INTERVAL", "15m")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("LOGIN_RATE_PER_MINUTE", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret"), cfg.JWTSecret)
	assert.Equal(t, 5*time.Minute, cfg.AccessTTL)
	assert.False(t, cfg.ReleaseTableOnClose)
	assert.Equal(t, 15*time.Minute, cfg.RevocationSweep)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 5, cfg.LoginRatePerMin)
}

func TestLoadRequiresSecretInRelease(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestInitDBRejectsUnknownDriver(t *testing.T) {
	_, err := InitDB(&Config{DBDriver: "oracle"})
	assert.Error(t, err)
}
