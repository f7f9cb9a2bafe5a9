package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivee/bidprice-service/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "super-secret-key", cfg.SecretKey)
	assert.Equal(t, 200, cfg.ScanPoints)
	assert.Equal(t, "file", cfg.HistoryBackend)
	assert.False(t, cfg.AllowStubFallback)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "from-env")
	t.Setenv("PRICING_SCAN_POINTS", "10")
	t.Setenv("PRICING_ML_ALLOW_STUB_FALLBACK", "true")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.SecretKey)
	assert.Equal(t, 20, cfg.ScanPoints) // floored at the hard minimum
	assert.True(t, cfg.AllowStubFallback)
}

func TestLoadRejectsPostgresBackendWithoutDSN(t *testing.T) {
	t.Setenv("PRICING_HISTORY_BACKEND", "postgres")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoadAcceptsPostgresBackendWithDSN(t *testing.T) {
	t.Setenv("PRICING_HISTORY_BACKEND", "postgres")
	t.Setenv("PRICING_HISTORY_DSN", "postgres://localhost/test")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.HistoryBackend)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("PRICING_HISTORY_BACKEND", "sqlite")
	_, err := config.Load()
	assert.Error(t, err)
}
