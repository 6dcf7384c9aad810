package spotify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/ewilliams-labs/cratedig/internal/core/ports"
	"github.com/ewilliams-labs/cratedig/internal/metrics"
)

const defaultRetryAfter = time.Second

// RetryPolicy holds the backoff parameters of the request client.
type RetryPolicy struct {
	// RateLimitJitter is added to every Retry-After wait.
	RateLimitJitter time.Duration
	// ServerRetries is the number of additional attempts after a 5xx.
	ServerRetries int
	BackoffBase   time.Duration
	BackoffCap    time.Duration
}

// DefaultRetryPolicy: 100ms jitter, two 5xx retries at 1s then 2s, capped at 5s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		RateLimitJitter: 100 * time.Millisecond,
		ServerRetries:   2,
		BackoffBase:     time.Second,
		BackoffCap:      5 * time.Second,
	}
}

// backoff returns the wait before server retry number attempt (0-based).
func (p RetryPolicy) backoff(attempt int) time.Duration {
	d := p.BackoffBase << attempt
	if d <= 0 || (p.BackoffCap > 0 && d > p.BackoffCap) {
		return p.BackoffCap
	}
	return d
}

// doWithRetry runs the request loop: one retry after a 429, up to
// ServerRetries retries after a 5xx, no retry for anything else.
func (c *Client) doWithRetry(ctx context.Context, target, rel, token string) ([]byte, error) {
	rateLimited := false
	serverAttempt := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("spotify adapter: request canceled: %w", err)
		}

		resp, err := c.do(ctx, target, token)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("spotify adapter: request canceled: %w", ctxErr)
			}
			return nil, &ports.APIError{Kind: ports.KindServer, Path: rel, Err: err}
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			body := readErrorBody(resp)
			wait := parseRetryAfter(resp)
			_ = resp.Body.Close()
			if rateLimited {
				return nil, &ports.APIError{Kind: ports.KindRateLimited, Status: resp.StatusCode, Path: rel, Body: body}
			}
			rateLimited = true
			wait += c.retry.RateLimitJitter
			c.log.Warn().Str("path", rel).Dur("wait", wait).Msg("rate limited, retrying once")
			metrics.RecordRetry("rate_limited")
			if err := c.sleep(ctx, wait); err != nil {
				return nil, err
			}

		case resp.StatusCode == http.StatusUnauthorized:
			body := readErrorBody(resp)
			_ = resp.Body.Close()
			c.creds.Expire()
			c.log.Warn().Str("path", rel).Msg("credential rejected, session expired")
			return nil, &ports.APIError{Kind: ports.KindAuth, Status: resp.StatusCode, Path: rel, Body: body}

		case resp.StatusCode >= http.StatusInternalServerError:
			body := readErrorBody(resp)
			_ = resp.Body.Close()
			if serverAttempt >= c.retry.ServerRetries {
				return nil, &ports.APIError{Kind: ports.KindServer, Status: resp.StatusCode, Path: rel, Body: body}
			}
			wait := c.retry.backoff(serverAttempt)
			serverAttempt++
			c.log.Warn().Str("path", rel).Int("status", resp.StatusCode).
				Int("attempt", serverAttempt).Int("max", c.retry.ServerRetries).Dur("wait", wait).
				Msg("server error, backing off")
			metrics.RecordRetry("server_error")
			if err := c.sleep(ctx, wait); err != nil {
				return nil, err
			}

		case resp.StatusCode < 200 || resp.StatusCode > 299:
			body := readErrorBody(resp)
			_ = resp.Body.Close()
			return nil, &ports.APIError{Kind: ports.KindClient, Status: resp.StatusCode, Path: rel, Body: body}

		default:
			body, err := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if err != nil {
				return nil, &ports.APIError{Kind: ports.KindServer, Status: resp.StatusCode, Path: rel, Err: err}
			}
			return body, nil
		}
	}
}

// parseRetryAfter reads Retry-After as seconds or an HTTP date, defaulting to one second.
func parseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return defaultRetryAfter
	}

	retryAfter := resp.Header.Get("Retry-After")
	if retryAfter == "" {
		return defaultRetryAfter
	}

	if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}

	if when, err := http.ParseTime(retryAfter); err == nil {
		if until := time.Until(when); until > 0 {
			return until
		}
		return 0
	}

	return defaultRetryAfter
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, ports.ErrAuth):
		return "auth"
	case errors.Is(err, ports.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ports.ErrServer):
		return "server_error"
	case errors.Is(err, ports.ErrClient):
		return "client_error"
	default:
		return "canceled"
	}
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("spotify adapter: request canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
