package ports

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIErrorIs(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want error
	}{
		{KindAuth, ErrAuth},
		{KindRateLimited, ErrRateLimited},
		{KindServer, ErrServer},
		{KindClient, ErrClient},
	}
	all := []error{ErrAuth, ErrRateLimited, ErrServer, ErrClient}

	for _, tt := range tests {
		wrapped := fmt.Errorf("strategy: %w", &APIError{Kind: tt.kind, Status: 418, Path: "/x"})
		for _, sentinel := range all {
			assert.Equal(t, sentinel == tt.want, errors.Is(wrapped, sentinel), "kind %d vs %v", tt.kind, sentinel)
		}
	}
}

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{Kind: KindClient, Status: 404, Path: "/artists/x", Body: `{"error":"missing"}`}
	assert.Equal(t, `404 on /artists/x: {"error":"missing"}`, err.Error())
	assert.Equal(t, "not authenticated", NewAuthError("/me").Error())
}

func TestGenreQuery(t *testing.T) {
	assert.Equal(t, `genre:"indie folk"`, GenreQuery("indie folk"))
	assert.Equal(t, `genre:"a b"`, GenreQuery(`a "b"`))
}
