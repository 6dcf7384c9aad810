package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileDefaults(t *testing.T) {
	cfg, err := LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, "GB", cfg.Spotify.Market)
	assert.Equal(t, 100*time.Millisecond, cfg.Retry.RateLimitJitter)
	assert.Equal(t, 2, cfg.Retry.ServerRetries)
	assert.Equal(t, 10*time.Minute, cfg.Cache.ArtistTTL)
	assert.Equal(t, 3, cfg.Discovery.FanOutLimit)
	assert.Equal(t, 24, cfg.Discovery.ThenNow.CutoffMonths)
	assert.Equal(t, 36, cfg.Discovery.ThenNow.RelaxedCutoffMonths)
	assert.Equal(t, 35, cfg.DefaultSettings().PopularityBias)
	assert.False(t, cfg.HasCredentials())
}

func TestLoadFileLayering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlDoc := `
spotify:
  market: SE
retry:
  backoff_base: 2s
  backoff_cap: 8s
discovery:
  then_now:
    cutoff_months: 12
    relaxed_cutoff_months: 18
logging:
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o600))

	t.Setenv("SPOTIFY_MARKET", "US")
	t.Setenv("SPOTIFY_ACCESS_TOKEN", "tok")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "US", cfg.Spotify.Market, "env overrides file")
	assert.Equal(t, 2*time.Second, cfg.Retry.BackoffBase)
	assert.Equal(t, 12, cfg.Discovery.ThenNow.CutoffMonths)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.HasCredentials())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad market", func(c *Config) { c.Spotify.Market = "GBR" }},
		{"lowercase market", func(c *Config) { c.Spotify.Market = "gb" }},
		{"cap below base", func(c *Config) { c.Retry.BackoffCap = time.Millisecond }},
		{"batch too large", func(c *Config) { c.Cache.BatchSize = 51 }},
		{"relaxed tighter than cutoff", func(c *Config) { c.Discovery.ThenNow.RelaxedCutoffMonths = 1 }},
		{"bias out of range", func(c *Config) { c.Settings.PopularityBias = 101 }},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	assert.Equal(t, "retry.server_retries", envTransformFunc("SPOTIFY_MAX_RETRIES"))
	assert.Equal(t, "", envTransformFunc("PATH"))
}
