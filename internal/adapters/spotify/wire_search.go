package spotify

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ewilliams-labs/cratedig/internal/core/domain"
	"github.com/ewilliams-labs/cratedig/internal/core/ports"
)

// SearchArtists runs an artist search. Only the first page is returned.
func (c *Client) SearchArtists(ctx context.Context, opts ports.SearchOptions) ([]domain.Artist, error) {
	var body struct {
		Artists page[spotifyArtist] `json:"artists"`
	}
	if err := c.Get(ctx, "/search", c.searchParams(opts, "artist"), &body); err != nil {
		return nil, fmt.Errorf("spotify adapter: search artists %q: %w", opts.Query, err)
	}
	return mapArtistsToDomain(body.Artists.Items), nil
}

// SearchTracks runs a track search. Only the first page is returned.
func (c *Client) SearchTracks(ctx context.Context, opts ports.SearchOptions) ([]domain.Track, error) {
	var body struct {
		Tracks page[spotifyTrack] `json:"tracks"`
	}
	if err := c.Get(ctx, "/search", c.searchParams(opts, "track"), &body); err != nil {
		return nil, fmt.Errorf("spotify adapter: search tracks %q: %w", opts.Query, err)
	}
	return mapTracksToDomain(body.Tracks.Items), nil
}

func (c *Client) searchParams(opts ports.SearchOptions, kind string) url.Values {
	limit := opts.Limit
	if limit <= 0 || limit > defaultLimit {
		limit = 20
	}
	params := url.Values{
		"q":      {opts.Query},
		"type":   {kind},
		"limit":  {strconv.Itoa(limit)},
		"market": {c.market},
	}
	if opts.Offset > 0 {
		params.Set("offset", strconv.Itoa(opts.Offset))
	}
	return params
}
