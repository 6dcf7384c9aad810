package spotify

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ewilliams-labs/cratedig/internal/core/domain"
)

// AlbumTracks lists the first page of an album's tracks. The listing omits the
// album object, so the given album is attached to every track.
func (c *Client) AlbumTracks(ctx context.Context, album domain.Album, limit int) ([]domain.Track, error) {
	if limit <= 0 || limit > defaultLimit {
		limit = 5
	}
	params := url.Values{
		"limit":  {strconv.Itoa(limit)},
		"market": {c.market},
	}

	var body page[spotifyTrack]
	if err := c.Get(ctx, "/albums/"+url.PathEscape(album.ID)+"/tracks", params, &body); err != nil {
		return nil, fmt.Errorf("spotify adapter: tracks for album %s: %w", album.ID, err)
	}

	out := make([]domain.Track, 0, len(body.Items))
	for _, st := range body.Items {
		if st.ID == "" {
			continue
		}
		out = append(out, mapTrackToDomain(st, &album))
	}
	return out, nil
}
