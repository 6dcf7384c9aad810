package ports

import (
	"errors"
	"fmt"
)

// Sentinels for the catalog failure taxonomy. Match with errors.Is.
var (
	// ErrAuth: credential missing or expired. Never retried.
	ErrAuth = errors.New("not authenticated")
	// ErrRateLimited: a 429 survived the single retry.
	ErrRateLimited = errors.New("rate limited")
	// ErrServer: a 5xx survived the backoff retries, or the transport failed.
	ErrServer = errors.New("catalog server error")
	// ErrClient: any other non-2xx response. Not retried.
	ErrClient = errors.New("catalog client error")
)

// ErrorKind classifies an APIError.
type ErrorKind int

const (
	KindAuth ErrorKind = iota + 1
	KindRateLimited
	KindServer
	KindClient
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindAuth:
		return ErrAuth
	case KindRateLimited:
		return ErrRateLimited
	case KindServer:
		return ErrServer
	default:
		return ErrClient
	}
}

// APIError describes a failed catalog call.
type APIError struct {
	Kind   ErrorKind
	Status int // 0 when no response was received
	Path   string
	Body   string
	Err    error // underlying transport error, if any
}

func (e *APIError) Error() string {
	switch {
	case e.Kind == KindAuth && e.Status == 0:
		return ErrAuth.Error()
	case e.Kind == KindAuth:
		return "session expired: please reconnect to Spotify"
	case e.Status == 0 && e.Err != nil:
		return fmt.Sprintf("%s on %s: %v", e.Kind.sentinel(), e.Path, e.Err)
	case e.Body != "":
		return fmt.Sprintf("%d on %s: %s", e.Status, e.Path, e.Body)
	default:
		return fmt.Sprintf("%d on %s", e.Status, e.Path)
	}
}

func (e *APIError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAuthError is returned when no credential is available.
func NewAuthError(path string) *APIError {
	return &APIError{Kind: KindAuth, Path: path}
}
