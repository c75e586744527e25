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

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 25, cfg.Database.MaxConns)
	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "config/analysis.yaml", cfg.Analysis.SettingsPath)
	assert.Empty(t, cfg.Analysis.RefreshCron)
	assert.Equal(t, 12*time.Hour, cfg.Analysis.CacheTTL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("ENV", "production")
	t.Setenv("DB_MAX_CONNS", "50")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("ANALYSIS_REFRESH_CRON", "0 18 * * 1-5")
	t.Setenv("ANALYSIS_CACHE_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 50, cfg.Database.MaxConns)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "0 18 * * 1-5", cfg.Analysis.RefreshCron)
	assert.Equal(t, 30*time.Minute, cfg.Analysis.CacheTTL)
}

func TestLoad_InvalidEnvRejected(t *testing.T) {
	t.Setenv("ENV", "sandbox")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid ENV")
}

func TestGetEnvHelpers_FallbackOnGarbage(t *testing.T) {
	t.Setenv("SOME_INT", "not-a-number")
	t.Setenv("SOME_BOOL", "maybe")
	t.Setenv("SOME_DURATION", "eventually")

	assert.Equal(t, 7, getEnvInt("SOME_INT", 7))
	assert.True(t, getEnvBool("SOME_BOOL", true))
	assert.Equal(t, time.Minute, getEnvDuration("SOME_DURATION", time.Minute))
}
