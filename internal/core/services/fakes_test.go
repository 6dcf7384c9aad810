package services

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/ewilliams-labs/cratedig/internal/cache"
	"github.com/ewilliams-labs/cratedig/internal/core/domain"
	"github.com/ewilliams-labs/cratedig/internal/core/ports"
)

// fakeCatalog serves canned data keyed by id or query prefix.
type fakeCatalog struct {
	mu sync.Mutex

	me     domain.User
	meErr  error
	top    []domain.Artist
	topErr error

	topTracks []domain.Track
	saved     []domain.SavedTrack

	// artistSearch and trackSearch match on the exact query string.
	artistSearch map[string][]domain.Artist
	trackSearch  map[string][]domain.Track
	// trackSearchPrefix matches any query starting with the key.
	trackSearchPrefix map[string][]domain.Track
	searchErr         error
	// artistSearchErr fails artist searches for one exact query.
	artistSearchErr map[string]error

	artists     map[string]domain.Artist
	artistTop   map[string][]domain.Track
	albums      map[string][]domain.Album
	albumTracks map[string][]domain.Track

	calls map[string]int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		artistSearch:      map[string][]domain.Artist{},
		artistSearchErr:   map[string]error{},
		trackSearch:       map[string][]domain.Track{},
		trackSearchPrefix: map[string][]domain.Track{},
		artists:           map[string]domain.Artist{},
		artistTop:         map[string][]domain.Track{},
		albums:            map[string][]domain.Album{},
		albumTracks:       map[string][]domain.Track{},
		calls:             map[string]int{},
	}
}

func (f *fakeCatalog) count(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeCatalog) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeCatalog) Me(context.Context) (domain.User, error) {
	f.count("me")
	return f.me, f.meErr
}

func (f *fakeCatalog) TopArtists(_ context.Context, opts ports.TopOptions) ([]domain.Artist, error) {
	f.count("top-artists")
	if f.topErr != nil {
		return nil, f.topErr
	}
	if opts.FirstPageOnly && opts.Limit > 0 && len(f.top) > opts.Limit {
		return f.top[:opts.Limit], nil
	}
	return f.top, nil
}

func (f *fakeCatalog) TopTracks(context.Context, ports.TopOptions) ([]domain.Track, error) {
	f.count("top-tracks")
	return f.topTracks, f.topErr
}

func (f *fakeCatalog) SavedTracks(context.Context) ([]domain.SavedTrack, error) {
	f.count("saved")
	return f.saved, nil
}

func (f *fakeCatalog) SearchArtists(_ context.Context, opts ports.SearchOptions) ([]domain.Artist, error) {
	f.count("search-artists")
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if err := f.artistSearchErr[opts.Query]; err != nil {
		return nil, err
	}
	return f.artistSearch[opts.Query], nil
}

func (f *fakeCatalog) SearchTracks(_ context.Context, opts ports.SearchOptions) ([]domain.Track, error) {
	f.count("search-tracks")
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if t, ok := f.trackSearch[opts.Query]; ok {
		return t, nil
	}
	for prefix, t := range f.trackSearchPrefix {
		if strings.HasPrefix(opts.Query, prefix) {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) Artist(_ context.Context, id string) (domain.Artist, error) {
	a, ok := f.artists[id]
	if !ok {
		return domain.Artist{}, &ports.APIError{Kind: ports.KindClient, Status: 404, Path: "/artists/" + id}
	}
	return a, nil
}

func (f *fakeCatalog) Artists(_ context.Context, ids []string) ([]domain.Artist, error) {
	f.count("artists")
	var out []domain.Artist
	for _, id := range ids {
		if a, ok := f.artists[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeCatalog) ArtistTopTracks(_ context.Context, id string) ([]domain.Track, error) {
	f.count("artist-top-tracks")
	return f.artistTop[id], nil
}

func (f *fakeCatalog) ArtistAlbums(_ context.Context, id string, _ []string, _ int) ([]domain.Album, error) {
	f.count("albums")
	return f.albums[id], nil
}

func (f *fakeCatalog) AlbumTracks(_ context.Context, album domain.Album, limit int) ([]domain.Track, error) {
	f.count("album-tracks")
	tracks := f.albumTracks[album.ID]
	if limit > 0 && len(tracks) > limit {
		tracks = tracks[:limit]
	}
	out := make([]domain.Track, len(tracks))
	for i, t := range tracks {
		t.Album = album
		out[i] = t
	}
	return out, nil
}

type fakeSettings struct {
	s   domain.Settings
	err error
}

func (f *fakeSettings) CurrentSettings(context.Context) (domain.Settings, error) { return f.s, f.err }

func (f *fakeSettings) SaveSettings(_ context.Context, s domain.Settings) error {
	f.s = s
	return nil
}

var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func newTestDiscovery(cat *fakeCatalog, settings ports.SettingsStore) *Discovery {
	clock := func() time.Time { return testNow }
	return NewDiscovery(cat, cache.NewArtistResolver(cat, time.Minute, 50, clock), settings,
		WithClock(clock),
		WithRand(rand.New(rand.NewPCG(1, 2))),
	)
}

func artist(id string, pop int, genres ...string) domain.Artist {
	return domain.Artist{ID: id, Name: "Artist " + id, Genres: genres, Popularity: pop, Followers: 1000 + pop*100}
}

func trackBy(id string, a domain.Artist, pop int, release string) domain.Track {
	return domain.Track{
		ID:         id,
		Name:       "Song " + id,
		Artists:    []domain.ArtistRef{{ID: a.ID, Name: a.Name}},
		Album:      domain.Album{ID: "al-" + id, Name: "Record " + id, ReleaseDate: release, ReleaseDatePrecision: domain.PrecisionDay, Type: "album"},
		Popularity: pop,
	}
}
