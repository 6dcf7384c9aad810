package rest

import (
	"net/http"

	"github.com/ewilliams-labs/cratedig/internal/core/domain"
)

// GetSettings handles GET /api/v1/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	if h.settings == nil {
		writeError(w, http.StatusNotImplemented, "settings store not configured")
		return
	}
	s, err := h.settings.CurrentSettings(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to load settings")
		writeError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// PutSettings handles PUT /api/v1/settings
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	if h.settings == nil {
		writeError(w, http.StatusNotImplemented, "settings store not configured")
		return
	}

	var s domain.Settings
	if !decodeJSON(w, r, &s) {
		return
	}
	if err := s.Validate(); err != nil {
		writeErrorWithCode(w, http.StatusBadRequest, err.Error(), errCodeInvalidRequest)
		return
	}

	if err := h.settings.SaveSettings(r.Context(), s); err != nil {
		h.log.Error().Err(err).Msg("failed to save settings")
		writeError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	writeJSON(w, http.StatusOK, s)
}
