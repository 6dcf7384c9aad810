// Package spotify implements the catalog port against the Spotify Web API.
package spotify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/cratedig/internal/core/ports"
	"github.com/ewilliams-labs/cratedig/internal/logging"
	"github.com/ewilliams-labs/cratedig/internal/metrics"
)

const (
	defaultMarket = "GB"
	defaultLimit  = 50
	// maxBatchIDs is the catalog ceiling for multi-id lookups.
	maxBatchIDs = 50
)

// Client is the resilient request client for the catalog API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	basePath   string
	market     string
	creds      ports.CredentialSource
	retry      RetryPolicy
	sleep      func(ctx context.Context, d time.Duration) error
	log        zerolog.Logger
}

var _ ports.Catalog = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithMarket sets the two-letter market code passed verbatim on catalog
// queries.
func WithMarket(market string) Option {
	return func(c *Client) {
		if market != "" {
			c.market = market
		}
	}
}

// WithRetryPolicy replaces the default backoff parameters.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

// WithSleep replaces the backoff sleeper. Tests use it to avoid real waits.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Client) { c.sleep = sleep }
}

// NewClient constructs a catalog client rooted at baseURL.
func NewClient(httpClient *http.Client, baseURL string, creds ports.CredentialSource, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	baseURL = strings.TrimRight(baseURL, "/")
	c := &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		market:     defaultMarket,
		creds:      creds,
		retry:      DefaultRetryPolicy(),
		sleep:      sleepWithContext,
		log:        logging.With("spotify"),
	}
	if u, err := url.Parse(baseURL); err == nil {
		c.basePath = strings.TrimRight(u.Path, "/")
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Market returns the configured market code.
func (c *Client) Market() string {
	return c.market
}

// Get issues an authenticated GET for path and decodes the JSON body into out.
// path may be relative to the API root or an absolute cursor URL returned by
// a previous page. Failures are *ports.APIError values.
func (c *Client) Get(ctx context.Context, path string, params url.Values, out any) error {
	rel := c.relativePath(path)

	if c.creds == nil {
		return ports.NewAuthError(rel)
	}
	token, err := c.creds.Token(ctx)
	if err != nil || token == "" {
		return &ports.APIError{Kind: ports.KindAuth, Path: rel, Err: err}
	}

	target, err := c.buildURL(rel, params)
	if err != nil {
		return fmt.Errorf("spotify adapter: invalid url for %s: %w", rel, err)
	}

	body, err := c.doWithRetry(ctx, target, rel, token)
	if err != nil {
		metrics.RecordCatalogRequest(endpointLabel(rel), outcomeLabel(err))
		return err
	}
	metrics.RecordCatalogRequest(endpointLabel(rel), "ok")

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("spotify adapter: decode %s: %w", rel, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, target, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	// #nosec G107 -- URL is built from the configured API base URL
	return c.httpClient.Do(req)
}

// relativePath reduces absolute cursor URLs to a path under the API root.
func (c *Client) relativePath(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		if u, err := url.Parse(path); err == nil {
			path = u.Path
			if u.RawQuery != "" {
				path += "?" + u.RawQuery
			}
			prefix := c.basePath
			if prefix == "" {
				prefix = "/v1"
			}
			path = strings.TrimPrefix(path, prefix)
		}
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

func (c *Client) buildURL(rel string, params url.Values) (string, error) {
	u, err := url.Parse(c.baseURL + rel)
	if err != nil {
		return "", err
	}
	if len(params) > 0 {
		q := u.Query()
		for k, vs := range params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// readErrorBody returns the response body as compact JSON when it parses,
// otherwise as trimmed text.
func readErrorBody(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err == nil {
		return buf.String()
	}
	return strings.TrimSpace(string(raw))
}

func endpointLabel(rel string) string {
	p := rel
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	parts := strings.Split(strings.Trim(p, "/"), "/")
	switch {
	case len(parts) == 0 || parts[0] == "":
		return "root"
	case parts[0] == "me" && len(parts) > 1:
		return "me/" + parts[1]
	case len(parts) >= 3:
		return parts[0] + "/" + parts[2]
	default:
		return parts[0]
	}
}
