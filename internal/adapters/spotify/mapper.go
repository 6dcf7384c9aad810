package spotify

import "github.com/ewilliams-labs/cratedig/internal/core/domain"

// mapTrackToDomain converts a raw track. Album tracks arrive without an album
// object; callers pass the parent album via override.
func mapTrackToDomain(st spotifyTrack, override *domain.Album) domain.Track {
	artists := make([]domain.ArtistRef, 0, len(st.Artists))
	for _, a := range st.Artists {
		artists = append(artists, domain.ArtistRef{ID: a.ID, Name: a.Name})
	}

	album := mapAlbumToDomain(st.Album)
	if override != nil {
		album = *override
	}

	t := domain.Track{
		ID:          st.ID,
		Name:        st.Name,
		Artists:     artists,
		Album:       album,
		Popularity:  st.Popularity,
		ExternalURL: st.ExternalURLs.Spotify,
	}
	if st.PreviewURL != nil {
		t.PreviewURL = *st.PreviewURL
	}
	return t
}

func mapTracksToDomain(in []spotifyTrack) []domain.Track {
	out := make([]domain.Track, 0, len(in))
	for _, st := range in {
		if st.ID == "" {
			continue
		}
		out = append(out, mapTrackToDomain(st, nil))
	}
	return out
}

func mapAlbumToDomain(sa spotifyAlbum) domain.Album {
	return domain.Album{
		ID:                   sa.ID,
		Name:                 sa.Name,
		ReleaseDate:          sa.ReleaseDate,
		ReleaseDatePrecision: domain.ReleasePrecision(sa.ReleaseDatePrecision),
		Type:                 sa.AlbumType,
	}
}

func mapArtistToDomain(sa spotifyArtist) domain.Artist {
	return domain.Artist{
		ID:         sa.ID,
		Name:       sa.Name,
		Genres:     sa.Genres,
		Popularity: sa.Popularity,
		Followers:  sa.Followers.Total,
	}
}

func mapArtistsToDomain(in []spotifyArtist) []domain.Artist {
	out := make([]domain.Artist, 0, len(in))
	for _, sa := range in {
		if sa.ID == "" {
			continue
		}
		out = append(out, mapArtistToDomain(sa))
	}
	return out
}
