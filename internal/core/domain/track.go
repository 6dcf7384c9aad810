package domain

import (
	"strconv"
	"strings"
	"time"
)

// ReleasePrecision is the granularity of an album release date.
type ReleasePrecision string

const (
	PrecisionYear  ReleasePrecision = "year"
	PrecisionMonth ReleasePrecision = "month"
	PrecisionDay   ReleasePrecision = "day"
)

// ArtistRef is the lightweight artist reference embedded in a track.
type ArtistRef struct {
	ID   string
	Name string
}

// Album describes the release a track belongs to.
type Album struct {
	ID                   string
	Name                 string
	ReleaseDate          string // "2006", "2006-03" or "2006-03-14"
	ReleaseDatePrecision ReleasePrecision
	Type                 string // album, single, compilation
}

// ReleaseYear returns the four-digit year of the release, or 0 when unknown.
func (a Album) ReleaseYear() int {
	if len(a.ReleaseDate) < 4 {
		return 0
	}
	y, err := strconv.Atoi(a.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return y
}

// ReleaseTime resolves the release date to the first instant it covers,
// padding missing month or day components. ok is false when the date is unusable.
func (a Album) ReleaseTime() (t time.Time, ok bool) {
	date := a.ReleaseDate
	switch {
	case a.ReleaseDatePrecision == PrecisionYear || len(date) == 4:
		date = date[:min(4, len(date))] + "-01-01"
	case a.ReleaseDatePrecision == PrecisionMonth || len(date) == 7:
		date = date[:min(7, len(date))] + "-01"
	}
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// ReleasedOnOrAfter reports whether the release falls on or after cutoff.
// Year precision compares years only; month precision compares the first of the month.
func (a Album) ReleasedOnOrAfter(cutoff time.Time) bool {
	if a.ReleaseDatePrecision == PrecisionYear {
		y := a.ReleaseYear()
		return y != 0 && y >= cutoff.Year()
	}
	rt, ok := a.ReleaseTime()
	if !ok {
		return false
	}
	return !rt.Before(time.Date(cutoff.Year(), cutoff.Month(), cutoff.Day(), 0, 0, 0, 0, time.UTC))
}

// Track is a catalog item. Tracks are immutable once fetched.
type Track struct {
	ID          string
	Name        string
	Artists     []ArtistRef // ordered; the first entry is the primary artist
	Album       Album
	Popularity  int
	PreviewURL  string
	ExternalURL string
}

// PrimaryArtist returns the first credited artist.
func (t Track) PrimaryArtist() (ArtistRef, bool) {
	if len(t.Artists) == 0 {
		return ArtistRef{}, false
	}
	return t.Artists[0], true
}

// ArtistNames joins the credited artist names for display.
func (t Track) ArtistNames() string {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

// SavedTrack is a track from the user's library along with when it was saved.
type SavedTrack struct {
	Track
	AddedAt time.Time
}

// Year is the release year, falling back to the year the track was saved.
func (s SavedTrack) Year() int {
	if y := s.Album.ReleaseYear(); y != 0 {
		return y
	}
	if s.AddedAt.IsZero() {
		return 0
	}
	return s.AddedAt.Year()
}

// Artist is a catalog artist with enrichment fields used in scoring.
type Artist struct {
	ID         string
	Name       string
	Genres     []string
	Popularity int
	Followers  int
}

// HasGenre reports whether g is one of the artist's genre tags.
func (a Artist) HasGenre(g string) bool {
	for _, ag := range a.Genres {
		if ag == g {
			return true
		}
	}
	return false
}

// User is the authenticated catalog account.
type User struct {
	ID          string
	DisplayName string
	Country     string
	Product     string
}
