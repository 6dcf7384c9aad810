package spotify

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ewilliams-labs/cratedig/internal/core/domain"
)

// Artist fetches a single artist.
func (c *Client) Artist(ctx context.Context, id string) (domain.Artist, error) {
	var sa spotifyArtist
	if err := c.Get(ctx, "/artists/"+url.PathEscape(id), nil, &sa); err != nil {
		return domain.Artist{}, fmt.Errorf("spotify adapter: artist %s: %w", id, err)
	}
	return mapArtistToDomain(sa), nil
}

// Artists fetches up to 50 artists in one call. Unknown ids come back as
// nulls and are dropped.
func (c *Client) Artists(ctx context.Context, ids []string) ([]domain.Artist, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > maxBatchIDs {
		return nil, fmt.Errorf("spotify adapter: %d artist ids exceeds batch limit %d", len(ids), maxBatchIDs)
	}

	var body struct {
		Artists []*spotifyArtist `json:"artists"`
	}
	params := url.Values{"ids": {strings.Join(ids, ",")}}
	if err := c.Get(ctx, "/artists", params, &body); err != nil {
		return nil, fmt.Errorf("spotify adapter: artists batch: %w", err)
	}

	out := make([]domain.Artist, 0, len(body.Artists))
	for _, sa := range body.Artists {
		if sa == nil || sa.ID == "" {
			continue
		}
		out = append(out, mapArtistToDomain(*sa))
	}
	return out, nil
}

// ArtistTopTracks returns the artist's top tracks in the configured market.
func (c *Client) ArtistTopTracks(ctx context.Context, id string) ([]domain.Track, error) {
	var body struct {
		Tracks []spotifyTrack `json:"tracks"`
	}
	params := url.Values{"market": {c.market}}
	if err := c.Get(ctx, "/artists/"+url.PathEscape(id)+"/top-tracks", params, &body); err != nil {
		return nil, fmt.Errorf("spotify adapter: top tracks for %s: %w", id, err)
	}
	return mapTracksToDomain(body.Tracks), nil
}

// ArtistAlbums lists the first page of an artist's releases, newest first.
func (c *Client) ArtistAlbums(ctx context.Context, id string, groups []string, limit int) ([]domain.Album, error) {
	if limit <= 0 || limit > defaultLimit {
		limit = 10
	}
	params := url.Values{
		"limit":  {strconv.Itoa(limit)},
		"market": {c.market},
	}
	if len(groups) > 0 {
		params.Set("include_groups", strings.Join(groups, ","))
	}

	var body page[spotifyAlbum]
	if err := c.Get(ctx, "/artists/"+url.PathEscape(id)+"/albums", params, &body); err != nil {
		return nil, fmt.Errorf("spotify adapter: albums for %s: %w", id, err)
	}

	out := make([]domain.Album, 0, len(body.Items))
	for _, sa := range body.Items {
		if sa.ID == "" {
			continue
		}
		out = append(out, mapAlbumToDomain(sa))
	}
	return out, nil
}
