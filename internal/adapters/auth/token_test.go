package auth

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewilliams-labs/cratedig/internal/core/ports"
	"github.com/ewilliams-labs/cratedig/internal/logging"
)

func TestStaticTokenStore(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		wantToken string
		wantErr   error
	}{
		{name: "holds token", token: "abc", wantToken: "abc"},
		{name: "empty is logged out", token: "", wantErr: ports.ErrAuth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStatic(tt.token)
			got, err := s.Token(context.Background())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, s.LoggedIn())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, got)
		})
	}
}

func TestTokenStore_ExpireNotifiesObservers(t *testing.T) {
	s := NewStatic("abc")
	var calls int
	s.OnExpire(func() { calls++ })
	s.OnExpire(func() { calls++ })

	s.Expire()

	assert.Equal(t, 2, calls)
	_, err := s.Token(context.Background())
	assert.ErrorIs(t, err, ports.ErrAuth)

	s.SetToken("fresh")
	got, err := s.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", got)
}

func TestTokenStore_ExpireLogsWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logging.Init(logging.Config{Level: "info", Format: "json", Output: &buf})
	t.Cleanup(func() { logging.Init(logging.Config{Level: "info", Format: "json"}) })

	s := NewStatic("abc")
	s.OnExpire(func() {})
	s.Expire()

	out := buf.String()
	assert.Contains(t, out, `"component":"auth"`)
	assert.Contains(t, out, `"observers":1`)
	assert.Contains(t, out, `"message":"credential expired"`)
}

func TestClientCredentialsTokenStore(t *testing.T) {
	var exchanges atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := exchanges.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if n == 1 {
			_, _ = w.Write([]byte(`{"access_token":"first","token_type":"bearer","expires_in":3600}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"second","token_type":"bearer","expires_in":3600}`))
	}))
	defer ts.Close()

	s := NewClientCredentials("id", "secret", ts.URL, ts.Client())
	ctx := context.Background()

	got, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", got)

	// cached until expired
	got, err = s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", got)
	assert.Equal(t, int32(1), exchanges.Load())

	s.Expire()
	assert.True(t, s.LoggedIn())
	got, err = s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", got)
	assert.Equal(t, int32(2), exchanges.Load())
}

func TestClientCredentialsExchangeFailureIsAuth(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	defer ts.Close()

	s := NewClientCredentials("id", "bad", ts.URL, ts.Client())
	_, err := s.Token(context.Background())
	assert.ErrorIs(t, err, ports.ErrAuth)
}
