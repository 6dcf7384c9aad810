package spotify

import "time"

// page is the cursor-linked envelope used by every listing endpoint.
type page[T any] struct {
	Items  []T    `json:"items"`
	Next   string `json:"next"`
	Total  int    `json:"total"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

type spotifyArtistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type spotifyAlbum struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	AlbumType            string `json:"album_type"`
	ReleaseDate          string `json:"release_date"`
	ReleaseDatePrecision string `json:"release_date_precision"`
}

type spotifyTrack struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Artists      []spotifyArtistRef `json:"artists"`
	Album        spotifyAlbum       `json:"album"`
	Popularity   int                `json:"popularity"`
	PreviewURL   *string            `json:"preview_url"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

type spotifySavedTrack struct {
	AddedAt time.Time    `json:"added_at"`
	Track   spotifyTrack `json:"track"`
}

type spotifyArtist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
	Followers  struct {
		Total int `json:"total"`
	} `json:"followers"`
}

type spotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Country     string `json:"country"`
	Product     string `json:"product"`
}
