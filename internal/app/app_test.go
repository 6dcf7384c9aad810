package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewilliams-labs/cratedig/internal/config"
	"github.com/ewilliams-labs/cratedig/internal/core/domain"
	"github.com/ewilliams-labs/cratedig/internal/core/ports"
)

func newCatalogServer(t *testing.T, revoked *atomic.Bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	guard := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if revoked.Load() || r.Header.Get("Authorization") != "Bearer tok" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			next(w, r)
		}
	}
	mux.HandleFunc("/v1/me", guard(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"u1","display_name":"Digger","country":"GB","product":"premium"}`))
	}))
	mux.HandleFunc("/v1/me/top/artists", guard(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"id":"a1","name":"Quiet Band","genres":["slowcore"],"popularity":12,"followers":{"total":900}}],"next":null}`))
	}))
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func testConfig(baseURL string) *config.Config {
	cfg := config.Defaults()
	cfg.Spotify.BaseURL = baseURL
	cfg.Spotify.AccessToken = "tok"
	return &cfg
}

func TestNew_ChecksAgainstCatalog(t *testing.T) {
	var revoked atomic.Bool
	ts := newCatalogServer(t, &revoked)

	a, err := New(testConfig(ts.URL+"/v1"), ts.Client())
	require.NoError(t, err)
	defer a.Close()

	res, err := a.Discovery.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", res.User.ID)
	assert.Equal(t, "Digger", res.User.DisplayName)
	assert.Equal(t, 1, res.TopArtists)

	s, err := a.Settings.CurrentSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), s)
}

func TestNew_RejectedCredentialResetsSession(t *testing.T) {
	var revoked atomic.Bool
	ts := newCatalogServer(t, &revoked)

	a, err := New(testConfig(ts.URL+"/v1"), ts.Client())
	require.NoError(t, err)
	defer a.Close()

	ctx := context.Background()
	top, err := a.Discovery.TopArtists(ctx)
	require.NoError(t, err)
	require.Len(t, top, 1)

	revoked.Store(true)
	_, err = a.Discovery.Check(ctx)
	require.ErrorIs(t, err, ports.ErrAuth)
	assert.False(t, a.Credentials.LoggedIn())

	// the cached top artists went with the credential
	_, err = a.Discovery.TopArtists(ctx)
	assert.ErrorIs(t, err, ports.ErrAuth)
}

func TestCredentials(t *testing.T) {
	tests := []struct {
		name         string
		cfg          config.SpotifyConfig
		wantLoggedIn bool
	}{
		{name: "access token", cfg: config.SpotifyConfig{AccessToken: "tok"}, wantLoggedIn: true},
		{name: "client credentials", cfg: config.SpotifyConfig{ClientID: "id", ClientSecret: "secret", TokenURL: "http://127.0.0.1/token"}, wantLoggedIn: true},
		{name: "nothing configured", cfg: config.SpotifyConfig{}, wantLoggedIn: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantLoggedIn, Credentials(tt.cfg, nil).LoggedIn())
		})
	}
}

func TestDiscoveryConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Discovery.FanOutLimit = 5
	cfg.Cache.TasteTTL = 2 * time.Hour
	cfg.Discovery.ThenNow.CutoffMonths = 12

	got := DiscoveryConfig(&cfg)
	assert.Equal(t, 5, got.FanOutLimit)
	assert.Equal(t, 2*time.Hour, got.TasteTTL)
	assert.Equal(t, 12, got.ThenNow.CutoffMonths)
	assert.Equal(t, 36, got.ThenNow.RelaxedCutoffMonths)
	assert.InDelta(t, 0.7, got.Obscurity.Popularity, 1e-9)
}

func TestRetryPolicy(t *testing.T) {
	got := RetryPolicy(config.Defaults().Retry)
	assert.Equal(t, 2, got.ServerRetries)
	assert.Equal(t, time.Second, got.BackoffBase)
	assert.Equal(t, 5*time.Second, got.BackoffCap)
}
