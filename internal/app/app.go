// Package app wires configuration into the adapters and the discovery
// service. Both binaries build their dependency graph here.
package app

import (
	"fmt"
	"net/http"

	"github.com/ewilliams-labs/cratedig/internal/adapters/auth"
	"github.com/ewilliams-labs/cratedig/internal/adapters/spotify"
	"github.com/ewilliams-labs/cratedig/internal/adapters/sqlite"
	"github.com/ewilliams-labs/cratedig/internal/cache"
	"github.com/ewilliams-labs/cratedig/internal/config"
	"github.com/ewilliams-labs/cratedig/internal/core/services"
	"github.com/ewilliams-labs/cratedig/internal/logging"
)

// App is the assembled dependency graph.
type App struct {
	Config      *config.Config
	Credentials *auth.TokenStore
	Catalog     *spotify.Client
	Settings    *sqlite.Adapter
	Discovery   *services.Discovery
}

// New builds every adapter from cfg. httpClient may be nil.
func New(cfg *config.Config, httpClient *http.Client) (*App, error) {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	log := logging.With("app")

	creds := Credentials(cfg.Spotify, httpClient)
	if !cfg.HasCredentials() {
		log.Warn().Msg("no Spotify credentials configured; catalog calls will fail with session expired")
	}

	store, err := sqlite.NewAdapter(storagePath(cfg.Storage), cfg.DefaultSettings())
	if err != nil {
		return nil, fmt.Errorf("app: failed to open settings store: %w", err)
	}

	catalog := spotify.NewClient(httpClient, cfg.Spotify.BaseURL, creds,
		spotify.WithMarket(cfg.Spotify.Market),
		spotify.WithRetryPolicy(RetryPolicy(cfg.Retry)),
	)
	resolver := cache.NewArtistResolver(catalog, cfg.Cache.ArtistTTL, cfg.Cache.BatchSize, nil)
	svc := services.NewDiscovery(catalog, resolver, store, services.WithConfig(DiscoveryConfig(cfg)))

	// a rejected credential invalidates everything fetched under it
	creds.OnExpire(svc.Reset)

	log.Info().
		Str("market", catalog.Market()).
		Str("storage", storagePath(cfg.Storage)).
		Int("fan_out_limit", cfg.Discovery.FanOutLimit).
		Msg("cratedig wired")

	return &App{
		Config:      cfg,
		Credentials: creds,
		Catalog:     catalog,
		Settings:    store,
		Discovery:   svc,
	}, nil
}

// Close releases the settings store.
func (a *App) Close() error {
	return a.Settings.Close()
}

// Credentials picks the credential source: a configured access token wins
// over the client-credentials pair.
func Credentials(cfg config.SpotifyConfig, httpClient *http.Client) *auth.TokenStore {
	if cfg.AccessToken == "" && cfg.ClientID != "" && cfg.ClientSecret != "" {
		return auth.NewClientCredentials(cfg.ClientID, cfg.ClientSecret, cfg.TokenURL, httpClient)
	}
	return auth.NewStatic(cfg.AccessToken)
}

// RetryPolicy converts the retry section.
func RetryPolicy(cfg config.RetryConfig) spotify.RetryPolicy {
	return spotify.RetryPolicy{
		RateLimitJitter: cfg.RateLimitJitter,
		ServerRetries:   cfg.ServerRetries,
		BackoffBase:     cfg.BackoffBase,
		BackoffCap:      cfg.BackoffCap,
	}
}

// DiscoveryConfig converts the discovery and cache sections.
func DiscoveryConfig(cfg *config.Config) services.Config {
	out := services.DefaultConfig()
	out.FanOutLimit = cfg.Discovery.FanOutLimit
	out.TasteTTL = cfg.Cache.TasteTTL
	tn := cfg.Discovery.ThenNow
	out.ThenNow = services.ThenNow{
		WidenYears:          tn.WidenYears,
		MinAnchors:          tn.MinAnchors,
		Anchors:             tn.Anchors,
		CutoffMonths:        tn.CutoffMonths,
		RelaxedCutoffMonths: tn.RelaxedCutoffMonths,
		AnalogsPerAnchor:    tn.AnalogsPerAnchor,
		CandidateWindow:     tn.CandidateWindow,
	}
	return out
}

func storagePath(cfg config.StorageConfig) string {
	if cfg.Path == "" {
		return sqlite.MemoryPath
	}
	return cfg.Path
}
