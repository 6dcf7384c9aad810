// Package config loads runtime configuration from defaults, an optional YAML
// file and environment variables, in that order of precedence.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ewilliams-labs/cratedig/internal/core/domain"
)

// Config is the root configuration tree.
type Config struct {
	Spotify   SpotifyConfig   `koanf:"spotify"`
	Retry     RetryConfig     `koanf:"retry"`
	Cache     CacheConfig     `koanf:"cache"`
	Discovery DiscoveryConfig `koanf:"discovery"`
	Settings  SettingsConfig  `koanf:"settings"`
	Server    ServerConfig    `koanf:"server"`
	Storage   StorageConfig   `koanf:"storage"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// SpotifyConfig configures the catalog client and its credential source.
// AccessToken takes precedence over the client-credentials pair.
type SpotifyConfig struct {
	BaseURL      string `koanf:"base_url" validate:"required,url"`
	TokenURL     string `koanf:"token_url" validate:"required,url"`
	Market       string `koanf:"market" validate:"required,len=2,alpha,uppercase"`
	AccessToken  string `koanf:"access_token"`
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
}

// RetryConfig holds the resilient request client's backoff parameters.
type RetryConfig struct {
	RateLimitJitter time.Duration `koanf:"rate_limit_jitter" validate:"gte=0"`
	ServerRetries   int           `koanf:"server_retries" validate:"gte=0,lte=10"`
	BackoffBase     time.Duration `koanf:"backoff_base" validate:"gt=0"`
	BackoffCap      time.Duration `koanf:"backoff_cap" validate:"gtefield=BackoffBase"`
}

type CacheConfig struct {
	ArtistTTL time.Duration `koanf:"artist_ttl" validate:"gt=0"`
	TasteTTL  time.Duration `koanf:"taste_ttl" validate:"gt=0"`
	BatchSize int           `koanf:"batch_size" validate:"gte=1,lte=50"`
}

type DiscoveryConfig struct {
	FanOutLimit int           `koanf:"fan_out_limit" validate:"gte=1"`
	ThenNow     ThenNowConfig `koanf:"then_now"`
}

// ThenNowConfig carries the empirically chosen then/now thresholds.
type ThenNowConfig struct {
	WidenYears          int `koanf:"widen_years" validate:"gte=0"`
	MinAnchors          int `koanf:"min_anchors" validate:"gte=1"`
	Anchors             int `koanf:"anchors" validate:"gte=1"`
	CutoffMonths        int `koanf:"cutoff_months" validate:"gte=1"`
	RelaxedCutoffMonths int `koanf:"relaxed_cutoff_months" validate:"gtefield=CutoffMonths"`
	AnalogsPerAnchor    int `koanf:"analogs_per_anchor" validate:"gte=1"`
	CandidateWindow     int `koanf:"candidate_window" validate:"gte=1,lte=50"`
}

// SettingsConfig seeds the settings store on first run.
type SettingsConfig struct {
	PopularityBias    int `koanf:"popularity_bias"`
	FreshnessDays     int `koanf:"freshness_days"`
	ObscurityMinScore int `koanf:"obscurity_min_score"`
}

type ServerConfig struct {
	Addr              string        `koanf:"addr" validate:"required"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout" validate:"gt=0"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// StorageConfig selects the settings store. An empty Path keeps settings in memory.
type StorageConfig struct {
	Path string `koanf:"path"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Spotify: SpotifyConfig{
			BaseURL:  "https://api.spotify.com/v1",
			TokenURL: "https://accounts.spotify.com/api/token",
			Market:   "GB",
		},
		Retry: RetryConfig{
			RateLimitJitter: 100 * time.Millisecond,
			ServerRetries:   2,
			BackoffBase:     time.Second,
			BackoffCap:      5 * time.Second,
		},
		Cache: CacheConfig{
			ArtistTTL: 10 * time.Minute,
			TasteTTL:  time.Hour,
			BatchSize: 50,
		},
		Discovery: DiscoveryConfig{
			FanOutLimit: 3,
			ThenNow: ThenNowConfig{
				WidenYears:          1,
				MinAnchors:          3,
				Anchors:             3,
				CutoffMonths:        24,
				RelaxedCutoffMonths: 36,
				AnalogsPerAnchor:    2,
				CandidateWindow:     30,
			},
		},
		Settings: SettingsConfig{
			PopularityBias:    35,
			FreshnessDays:     30,
			ObscurityMinScore: 0,
		},
		Server: ServerConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: 15 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// DefaultSettings converts the seeded settings section into the domain type.
func (c *Config) DefaultSettings() domain.Settings {
	return domain.Settings{
		PopularityBias:    c.Settings.PopularityBias,
		FreshnessDays:     c.Settings.FreshnessDays,
		ObscurityMinScore: c.Settings.ObscurityMinScore,
	}
}

// HasCredentials reports whether a credential source can be built.
func (c *Config) HasCredentials() bool {
	return c.Spotify.AccessToken != "" || (c.Spotify.ClientID != "" && c.Spotify.ClientSecret != "")
}

// Validate checks struct constraints and the seeded settings.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.DefaultSettings().Validate(); err != nil {
		return fmt.Errorf("config: settings: %w", err)
	}
	return nil
}
