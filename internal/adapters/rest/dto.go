package rest

import (
	"time"

	"github.com/ewilliams-labs/cratedig/internal/core/domain"
	"github.com/ewilliams-labs/cratedig/internal/core/services"
)

type artistRefDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type albumDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ReleaseDate string `json:"releaseDate,omitempty"`
	Type        string `json:"type,omitempty"`
}

type trackDTO struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Artists     []artistRefDTO `json:"artists"`
	Album       albumDTO       `json:"album"`
	Popularity  int            `json:"popularity"`
	PreviewURL  string         `json:"previewUrl,omitempty"`
	ExternalURL string         `json:"externalUrl,omitempty"`
}

type artistDTO struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
	Followers  int      `json:"followers"`
}

type candidateDTO struct {
	Track           *trackDTO  `json:"track,omitempty"`
	Artist          *artistDTO `json:"artist,omitempty"`
	Score           float64    `json:"score"`
	Similarity      float64    `json:"similarity,omitempty"`
	Obscurity       int        `json:"obscurity,omitempty"`
	FollowerScore   int        `json:"followerScore,omitempty"`
	HasFollowerData bool       `json:"hasFollowerData,omitempty"`
	MoodFit         float64    `json:"moodFit,omitempty"`
	Overlap         int        `json:"overlap,omitempty"`
}

type pairDTO struct {
	Then trackDTO       `json:"then"`
	Now  []candidateDTO `json:"now"`
}

type resultResponse struct {
	InvocationID string         `json:"invocationId"`
	Strategy     string         `json:"strategy"`
	Phase        domain.Phase   `json:"phase"`
	Candidates   []candidateDTO `json:"candidates"`
	Pairs        []pairDTO      `json:"pairs,omitempty"`
	Stats        domain.Stats   `json:"stats"`
	Message      string         `json:"message,omitempty"`
	DurationMs   int64          `json:"durationMs"`
}

type tasteResponse struct {
	MedianPopularity    float64   `json:"medianPopularity"`
	ObscurityPreference float64   `json:"obscurityPreference"`
	RecencyPreference   float64   `json:"recencyPreference"`
	TopGenres           []string  `json:"topGenres"`
	GenreDiversity      int       `json:"genreDiversity"`
	TopGenreStrength    float64   `json:"topGenreStrength"`
	TrackCount          int       `json:"trackCount"`
	ArtistCount         int       `json:"artistCount"`
	BuiltAt             time.Time `json:"builtAt"`
}

type yearDTO struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

type checkResponse struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName,omitempty"`
	Country     string `json:"country,omitempty"`
	Product     string `json:"product,omitempty"`
	TopArtists  int    `json:"topArtists"`
}

func newTrackDTO(t domain.Track) trackDTO {
	artists := make([]artistRefDTO, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, artistRefDTO{ID: a.ID, Name: a.Name})
	}
	return trackDTO{
		ID:      t.ID,
		Name:    t.Name,
		Artists: artists,
		Album: albumDTO{
			ID:          t.Album.ID,
			Name:        t.Album.Name,
			ReleaseDate: t.Album.ReleaseDate,
			Type:        t.Album.Type,
		},
		Popularity:  t.Popularity,
		PreviewURL:  t.PreviewURL,
		ExternalURL: t.ExternalURL,
	}
}

func newArtistDTO(a domain.Artist) artistDTO {
	genres := a.Genres
	if genres == nil {
		genres = []string{}
	}
	return artistDTO{ID: a.ID, Name: a.Name, Genres: genres, Popularity: a.Popularity, Followers: a.Followers}
}

func newCandidateDTOs(cands []domain.ScoredCandidate) []candidateDTO {
	out := make([]candidateDTO, 0, len(cands))
	for _, c := range cands {
		dto := candidateDTO{
			Score:           c.Score,
			Similarity:      c.Similarity,
			Obscurity:       c.Obscurity,
			FollowerScore:   c.FollowerScore,
			HasFollowerData: c.HasFollowerData,
			MoodFit:         c.MoodFit,
			Overlap:         c.Overlap,
		}
		if c.Track != nil {
			t := newTrackDTO(*c.Track)
			dto.Track = &t
		}
		if c.Artist != nil {
			a := newArtistDTO(*c.Artist)
			dto.Artist = &a
		}
		out = append(out, dto)
	}
	return out
}

func newResultResponse(r domain.Result) resultResponse {
	resp := resultResponse{
		InvocationID: r.InvocationID,
		Strategy:     string(r.Strategy),
		Phase:        r.Phase,
		Candidates:   newCandidateDTOs(r.Candidates),
		Stats:        r.Stats,
		Message:      r.Message,
		DurationMs:   r.FinishedAt.Sub(r.StartedAt).Milliseconds(),
	}
	for _, p := range r.Pairs {
		resp.Pairs = append(resp.Pairs, pairDTO{Then: newTrackDTO(p.Then), Now: newCandidateDTOs(p.Now)})
	}
	return resp
}

func newTasteResponse(p domain.TasteProfile) tasteResponse {
	genres := p.TopGenres
	if genres == nil {
		genres = []string{}
	}
	return tasteResponse{
		MedianPopularity:    p.MedianPopularity,
		ObscurityPreference: p.ObscurityPreference,
		RecencyPreference:   p.RecencyPreference,
		TopGenres:           genres,
		GenreDiversity:      p.GenreDiversity,
		TopGenreStrength:    p.TopGenreStrength,
		TrackCount:          p.TrackCount,
		ArtistCount:         p.ArtistCount,
		BuiltAt:             p.BuiltAt,
	}
}

func newCheckResponse(c services.CheckResult) checkResponse {
	return checkResponse{
		UserID:      c.User.ID,
		DisplayName: c.User.DisplayName,
		Country:     c.User.Country,
		Product:     c.User.Product,
		TopArtists:  c.TopArtists,
	}
}
