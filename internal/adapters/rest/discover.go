package rest

import (
	"net/http"

	"github.com/ewilliams-labs/cratedig/internal/core/domain"
)

// discoverRequest defines what the client sends us
type discoverRequest struct {
	Strategy     string `json:"strategy"`
	Mood         string `json:"mood,omitempty"`
	Year         int    `json:"year,omitempty"`
	ArtistID     string `json:"artistId,omitempty"`
	SeedArtist   string `json:"seedArtist,omitempty"`
	SortByTaste  bool   `json:"sortByTaste,omitempty"`
	MinObscurity *int   `json:"minObscurity,omitempty"`
}

type moodDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Discover handles POST /api/v1/discover
func (h *Handler) Discover(w http.ResponseWriter, r *http.Request) {
	var req discoverRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	strategy, err := domain.ParseStrategy(req.Strategy)
	if err != nil {
		writeErrorWithCode(w, http.StatusBadRequest, "Unknown strategy "+req.Strategy, errCodeInvalidRequest)
		return
	}
	if req.MinObscurity != nil && (*req.MinObscurity < 0 || *req.MinObscurity > 100) {
		writeErrorWithCode(w, http.StatusBadRequest, "minObscurity must be between 0 and 100", errCodeInvalidRequest)
		return
	}

	result, err := h.svc.Run(r.Context(), domain.Request{
		Strategy:     strategy,
		Mood:         domain.Mood(req.Mood),
		Year:         req.Year,
		ArtistID:     req.ArtistID,
		SeedArtist:   req.SeedArtist,
		SortByTaste:  req.SortByTaste,
		MinObscurity: req.MinObscurity,
	})
	if err != nil {
		status, code := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.log.Error().Err(err).Str("invocation_id", result.InvocationID).Msg("discovery failed")
		}
		writeJSON(w, status, errorResponse{Error: result.Message, Code: code, Phase: result.Phase})
		return
	}

	if err := (jsonSink{w: w}).RenderRanked(r.Context(), result); err != nil {
		h.log.Warn().Err(err).Msg("render failed")
	}
}

// ListMoods handles GET /api/v1/moods
func (h *Handler) ListMoods(w http.ResponseWriter, r *http.Request) {
	out := make([]moodDTO, 0, len(domain.Moods))
	for _, m := range domain.Moods {
		out = append(out, moodDTO{Name: string(m), Description: m.Profile().Description})
	}
	writeJSON(w, http.StatusOK, out)
}
