package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, "https://v6.exchangerate-api.com/v6", cfg.Provider.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, 10, cfg.Analytics.RecentLimit)
	assert.Equal(t, "60-M", cfg.RateLimit.Rate)
	assert.Empty(t, cfg.Export.Bucket)
	assert.Error(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FXLEDGER_PROVIDER_APIKEY", "secret-key")
	t.Setenv("FXLEDGER_PROVIDER_TIMEOUT", "2s")
	t.Setenv("FXLEDGER_AUTH_JWTSECRET", "jwt")
	t.Setenv("FXLEDGER_ANALYTICS_RECENTLIMIT", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "secret-key", cfg.Provider.APIKey)
	assert.Equal(t, 2*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, 5, cfg.Analytics.RecentLimit)
	assert.NoError(t, cfg.Validate())
}
