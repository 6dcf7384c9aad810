package rest

import (
	"net/http"
)

// Check handles GET /api/v1/check
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Check(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCheckResponse(res))
}

// Years handles GET /api/v1/years
func (h *Handler) Years(w http.ResponseWriter, r *http.Request) {
	hist, err := h.svc.Years(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	out := make([]yearDTO, 0, yearsShown)
	for _, b := range hist.Top(yearsShown) {
		out = append(out, yearDTO{Year: b.Year, Count: b.Count})
	}
	writeJSON(w, http.StatusOK, out)
}

// TopArtists handles GET /api/v1/artists, the seed picker for graph and
// artist-tracks discovery.
func (h *Handler) TopArtists(w http.ResponseWriter, r *http.Request) {
	top, err := h.svc.TopArtists(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	out := make([]artistDTO, 0, len(top))
	for _, a := range top {
		out = append(out, newArtistDTO(a))
	}
	writeJSON(w, http.StatusOK, out)
}

// Taste handles GET /api/v1/taste
func (h *Handler) Taste(w http.ResponseWriter, r *http.Request) {
	h.writeTaste(w, r, false)
}

// RebuildTaste handles POST /api/v1/taste/rebuild
func (h *Handler) RebuildTaste(w http.ResponseWriter, r *http.Request) {
	h.writeTaste(w, r, true)
}

func (h *Handler) writeTaste(w http.ResponseWriter, r *http.Request, rebuild bool) {
	profile, err := h.svc.BuildTaste(r.Context(), rebuild)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTasteResponse(profile))
}
