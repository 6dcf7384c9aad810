package spotify_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewilliams-labs/cratedig/internal/adapters/spotify"
	"github.com/ewilliams-labs/cratedig/internal/core/domain"
	"github.com/ewilliams-labs/cratedig/internal/core/ports"
)

type staticCreds struct{}

func (staticCreds) Token(context.Context) (string, error) { return "tok", nil }
func (staticCreds) Expire()                               {}

func noSleep(context.Context, time.Duration) error { return nil }

func newTestClient(t *testing.T, h http.HandlerFunc) (*spotify.Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return spotify.NewClient(ts.Client(), ts.URL+"/v1", staticCreds{}, spotify.WithMarket("se"), spotify.WithSleep(noSleep)), ts
}

func savedPage(ts *httptest.Server, offset, size, total int) string {
	items := make([]string, 0, size)
	for i := 0; i < size; i++ {
		id := offset + i
		items = append(items, fmt.Sprintf(`{"added_at":"2020-01-02T03:04:05Z","track":{"id":"t%d","name":"Song %d","popularity":10,"artists":[{"id":"a1","name":"A"}],"album":{"id":"al","name":"Al","release_date":"2001-02-03","release_date_precision":"day","album_type":"album"}}}`, id, id))
	}
	next := "null"
	if offset+size < total {
		next = fmt.Sprintf(`"%s/v1/me/tracks?offset=%d&limit=%d"`, ts.URL, offset+size, size)
	}
	return fmt.Sprintf(`{"items":[%s],"next":%s,"total":%d}`, strings.Join(items, ","), next, total)
}

func TestSavedTracksPagination(t *testing.T) {
	tests := []struct {
		name    string
		failAt  int // offset whose page returns 500; -1 never
		wantIDs int
	}{
		{name: "walks every page in order", failAt: -1, wantIDs: 7},
		{name: "second page failure returns first page only", failAt: 3, wantIDs: 3},
		{name: "third page failure keeps two pages", failAt: 6, wantIDs: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts *httptest.Server
			client, ts := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/me/tracks", r.URL.Path)
				offset := 0
				_, _ = fmt.Sscanf(r.URL.Query().Get("offset"), "%d", &offset)
				if offset == tt.failAt {
					w.WriteHeader(http.StatusInternalServerError)
					return
				}
				size := 3
				if offset+size > 7 {
					size = 7 - offset
				}
				_, _ = w.Write([]byte(savedPage(ts, offset, size, 7)))
			})

			saved, err := client.SavedTracks(context.Background())
			require.NoError(t, err)
			require.Len(t, saved, tt.wantIDs)
			for i, s := range saved {
				assert.Equal(t, fmt.Sprintf("t%d", i), s.ID)
			}
			assert.Equal(t, 2020, saved[0].AddedAt.Year())
			assert.Equal(t, 2001, saved[0].Album.ReleaseYear())
			assert.Equal(t, domain.PrecisionDay, saved[0].Album.ReleaseDatePrecision)
		})
	}
}

func TestSavedTracksFirstPageFailureIsError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	_, err := client.SavedTracks(context.Background())
	require.ErrorIs(t, err, ports.ErrClient)
}

func TestSearchArtistsSendsMarketAndQuery(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/v1/search", r.URL.Path)
		assert.Equal(t, `genre:"indie folk"`, q.Get("q"))
		assert.Equal(t, "artist", q.Get("type"))
		assert.Equal(t, "15", q.Get("limit"))
		assert.Equal(t, "7", q.Get("offset"))
		assert.Equal(t, "se", q.Get("market"), "market is passed through as configured")
		_, _ = w.Write([]byte(`{"artists":{"items":[
			{"id":"a1","name":"One","genres":["indie folk"],"popularity":12,"followers":{"total":900}},
			{"id":"","name":"broken"}
		],"next":null}}`))
	})

	got, err := client.SearchArtists(context.Background(), ports.SearchOptions{Query: ports.GenreQuery("indie folk"), Limit: 15, Offset: 7})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.Artist{ID: "a1", Name: "One", Genres: []string{"indie folk"}, Popularity: 12, Followers: 900}, got[0])
}

func TestArtistsBatchDropsNulls(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "a1,a2", r.URL.Query().Get("ids"))
		_, _ = w.Write([]byte(`{"artists":[{"id":"a1","name":"One"},null]}`))
	})

	got, err := client.Artists(context.Background(), []string{"a1", "a2"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	_, err = client.Artists(context.Background(), make([]string, 51))
	assert.Error(t, err)
}

func TestAlbumTracksAttachesAlbum(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/albums/al1/tracks", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"items":[{"id":"t1","name":"Fresh","artists":[{"id":"a","name":"A"}],"preview_url":"https://p"}],"next":null}`))
	})

	album := domain.Album{ID: "al1", Name: "New", ReleaseDate: "2026-10-01", ReleaseDatePrecision: domain.PrecisionDay}
	got, err := client.AlbumTracks(context.Background(), album, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, album, got[0].Album)
	assert.Equal(t, "https://p", got[0].PreviewURL)
}

func TestTopArtistsFirstPageOnly(t *testing.T) {
	calls := 0
	var ts *httptest.Server
	client, ts := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "long_term", r.URL.Query().Get("time_range"))
		_, _ = fmt.Fprintf(w, `{"items":[{"id":"a%d"}],"next":"%s/v1/me/top/artists?offset=%d"}`, calls, ts.URL, calls)
	})

	got, err := client.TopArtists(context.Background(), ports.TopOptions{TimeRange: ports.LongTerm, FirstPageOnly: true})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, calls)
}
