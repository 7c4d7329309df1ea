package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 3, cfg.Fetch.RetryMax)
	assert.Equal(t, 1*time.Second, cfg.Fetch.RetryWaitMin)
	assert.Equal(t, 30*time.Second, cfg.Fetch.RetryWaitMax)
	assert.Equal(t, "scraped_data", cfg.Store.Dir)
	assert.Equal(t, 4, cfg.Batch.Workers)

	assert.Equal(t, 1.0, cfg.Extract.NAVMin)
	assert.Equal(t, 10000.0, cfg.Extract.NAVMax)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("FETCH_RETRY_MAX", "5")
	t.Setenv("NAV_MAX", "20000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Fetch.RetryMax)
	assert.Equal(t, 20000.0, cfg.Extract.NAVMax)
}

func TestLoadDefaultsWhenUnset(t *testing.T) {
	os.Unsetenv("PORT")
	os.Unsetenv("FETCH_TIMEOUT")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
}

func TestBoundsConversion(t *testing.T) {
	cfg := Default()
	b := cfg.Extract.Bounds()

	assert.Equal(t, cfg.Extract.NAVMin, b.NAVMin)
	assert.Equal(t, cfg.Extract.NAVMax, b.NAVMax)
	assert.Equal(t, cfg.Extract.PEMax, b.PEMax)
	assert.Equal(t, cfg.Extract.PBMin, b.PBMin)
}
