// Package auth implements the credential source port on top of
// golang.org/x/oauth2 token sources.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/ewilliams-labs/cratedig/internal/core/ports"
	"github.com/ewilliams-labs/cratedig/internal/logging"
)

// TokenStore holds the session credential. A store built from a static
// access token is logged out for good once expired, until SetToken supplies
// a new one. A client-credentials store drops its cached token on expiry and
// exchanges a new one on the next call.
type TokenStore struct {
	mu        sync.Mutex
	src       oauth2.TokenSource
	refresh   func() oauth2.TokenSource
	observers []func()
}

// compile-time interface assertion
var _ ports.CredentialSource = (*TokenStore)(nil)

// NewStatic wraps an access token obtained elsewhere, typically by the
// browser login flow. An empty token yields a logged-out store.
func NewStatic(accessToken string) *TokenStore {
	s := &TokenStore{}
	if accessToken != "" {
		s.src = staticSource(accessToken)
	}
	return s
}

// NewClientCredentials exchanges the app's client id and secret at tokenURL.
// httpClient may be nil.
func NewClientCredentials(clientID, clientSecret, tokenURL string, httpClient *http.Client) *TokenStore {
	cfg := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	ctx := context.Background()
	if httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	}
	refresh := func() oauth2.TokenSource {
		return oauth2.ReuseTokenSource(nil, cfg.TokenSource(ctx))
	}
	return &TokenStore{src: refresh(), refresh: refresh}
}

func staticSource(token string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
}

// Token returns a bearer token, or an error matching ports.ErrAuth when the
// store is logged out or the exchange fails.
func (s *TokenStore) Token(_ context.Context) (string, error) {
	s.mu.Lock()
	src := s.src
	s.mu.Unlock()

	if src == nil {
		return "", ports.ErrAuth
	}
	tok, err := src.Token()
	if err != nil {
		return "", fmt.Errorf("auth: token exchange failed: %w", &ports.APIError{Kind: ports.KindAuth, Path: "token", Err: err})
	}
	if tok.AccessToken == "" {
		return "", ports.ErrAuth
	}
	return tok.AccessToken, nil
}

// Expire drops the current credential and notifies observers.
func (s *TokenStore) Expire() {
	s.mu.Lock()
	if s.refresh != nil {
		s.src = s.refresh()
	} else {
		s.src = nil
	}
	observers := append([]func(){}, s.observers...)
	s.mu.Unlock()

	log := logging.With("auth")
	log.Info().Int("observers", len(observers)).Msg("credential expired")
	for _, fn := range observers {
		fn()
	}
}

// SetToken installs a fresh access token after the user reconnects.
func (s *TokenStore) SetToken(accessToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if accessToken == "" {
		s.src = nil
		return
	}
	s.src = staticSource(accessToken)
	s.refresh = nil
}

// LoggedIn reports whether a credential is held.
func (s *TokenStore) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src != nil
}

// OnExpire registers fn to run after every Expire.
func (s *TokenStore) OnExpire(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}
