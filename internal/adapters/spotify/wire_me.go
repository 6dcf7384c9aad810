package spotify

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ewilliams-labs/cratedig/internal/core/domain"
	"github.com/ewilliams-labs/cratedig/internal/core/ports"
)

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var u spotifyUser
	if err := c.Get(ctx, "/me", nil, &u); err != nil {
		return domain.User{}, fmt.Errorf("spotify adapter: me: %w", err)
	}
	return domain.User{ID: u.ID, DisplayName: u.DisplayName, Country: u.Country, Product: u.Product}, nil
}

// TopArtists lists the user's top artists, following cursors unless
// opts.FirstPageOnly is set.
func (c *Client) TopArtists(ctx context.Context, opts ports.TopOptions) ([]domain.Artist, error) {
	var first page[spotifyArtist]
	if err := c.Get(ctx, "/me/top/artists", topParams(opts), &first); err != nil {
		return nil, fmt.Errorf("spotify adapter: top artists: %w", err)
	}
	if opts.FirstPageOnly {
		return mapArtistsToDomain(first.Items), nil
	}
	return mapArtistsToDomain(collect(ctx, c, first)), nil
}

// TopTracks lists the user's top tracks.
func (c *Client) TopTracks(ctx context.Context, opts ports.TopOptions) ([]domain.Track, error) {
	var first page[spotifyTrack]
	if err := c.Get(ctx, "/me/top/tracks", topParams(opts), &first); err != nil {
		return nil, fmt.Errorf("spotify adapter: top tracks: %w", err)
	}
	if opts.FirstPageOnly {
		return mapTracksToDomain(first.Items), nil
	}
	return mapTracksToDomain(collect(ctx, c, first)), nil
}

// SavedTracks walks the whole saved library.
func (c *Client) SavedTracks(ctx context.Context) ([]domain.SavedTrack, error) {
	var first page[spotifySavedTrack]
	params := url.Values{"limit": {strconv.Itoa(defaultLimit)}}
	if err := c.Get(ctx, "/me/tracks", params, &first); err != nil {
		return nil, fmt.Errorf("spotify adapter: saved tracks: %w", err)
	}

	items := collect(ctx, c, first)
	out := make([]domain.SavedTrack, 0, len(items))
	for _, it := range items {
		if it.Track.ID == "" {
			continue
		}
		out = append(out, domain.SavedTrack{Track: mapTrackToDomain(it.Track, nil), AddedAt: it.AddedAt})
	}
	return out, nil
}

func topParams(opts ports.TopOptions) url.Values {
	limit := opts.Limit
	if limit <= 0 || limit > defaultLimit {
		limit = defaultLimit
	}
	tr := opts.TimeRange
	if tr == "" {
		tr = ports.MediumTerm
	}
	return url.Values{
		"limit":      {strconv.Itoa(limit)},
		"time_range": {string(tr)},
	}
}
