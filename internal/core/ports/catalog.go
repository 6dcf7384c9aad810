package ports

import (
	"context"
	"strings"

	"github.com/ewilliams-labs/cratedig/internal/core/domain"
)

// TimeRange selects the affinity window for top items.
type TimeRange string

const (
	ShortTerm  TimeRange = "short_term"
	MediumTerm TimeRange = "medium_term"
	LongTerm   TimeRange = "long_term"
)

// TopOptions controls a top-items listing.
type TopOptions struct {
	TimeRange TimeRange
	Limit     int
	// FirstPageOnly skips pagination.
	FirstPageOnly bool
}

// SearchOptions controls a catalog search.
type SearchOptions struct {
	Query  string
	Limit  int
	Offset int
}

// Catalog is the authenticated catalog surface every strategy goes through.
// Listing methods that paginate are best-effort: a failure after the first
// page returns what was collected so far with a nil error.
type Catalog interface {
	Me(ctx context.Context) (domain.User, error)
	TopArtists(ctx context.Context, opts TopOptions) ([]domain.Artist, error)
	TopTracks(ctx context.Context, opts TopOptions) ([]domain.Track, error)
	SavedTracks(ctx context.Context) ([]domain.SavedTrack, error)

	SearchArtists(ctx context.Context, opts SearchOptions) ([]domain.Artist, error)
	SearchTracks(ctx context.Context, opts SearchOptions) ([]domain.Track, error)

	Artist(ctx context.Context, id string) (domain.Artist, error)
	// Artists fetches at most 50 artists in one call. Unknown ids are omitted.
	Artists(ctx context.Context, ids []string) ([]domain.Artist, error)
	ArtistTopTracks(ctx context.Context, id string) ([]domain.Track, error)
	ArtistAlbums(ctx context.Context, id string, groups []string, limit int) ([]domain.Album, error)
	AlbumTracks(ctx context.Context, album domain.Album, limit int) ([]domain.Track, error)
}

// GenreQuery builds a genre-filtered search expression, quoting multi-word genres.
func GenreQuery(genre string) string {
	return `genre:"` + strings.ReplaceAll(genre, `"`, "") + `"`
}

// ArtistQuery builds an artist-filtered search expression.
func ArtistQuery(name string) string {
	return "artist:" + name
}

// YearQuery builds a year or year-range search expression ("1999" or "1990-2005").
func YearQuery(years string) string {
	return "year:" + years
}
