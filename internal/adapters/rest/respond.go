package rest

import (
	"context"
	"errors"
	"mime"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/ewilliams-labs/cratedig/internal/core/domain"
	"github.com/ewilliams-labs/cratedig/internal/core/ports"
	"github.com/ewilliams-labs/cratedig/internal/core/scoring"
	"github.com/ewilliams-labs/cratedig/internal/core/services"
	"github.com/ewilliams-labs/cratedig/internal/logging"
)

const maxBodyBytes = 1 << 20

const (
	errCodeInvalidRequest      = "INVALID_REQUEST"
	errCodeSessionExpired      = "SESSION_EXPIRED"
	errCodeRateLimited         = "RATE_LIMITED"
	errCodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	errCodeUpstreamRejected    = "UPSTREAM_REJECTED"
	errCodeNothingFound        = "NOTHING_FOUND"
	errCodeInternal            = "INTERNAL"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	// Phase is set when a discovery invocation failed.
	Phase domain.Phase `json:"phase,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn().Err(err).Msg("rest: failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeErrorWithCode(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

func isJSONContentType(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	return err == nil && mediaType == "application/json"
}

// decodeJSON reads a bounded JSON body into v, writing the error response
// itself when it returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeErrorWithCode(w, http.StatusBadRequest, "Invalid request body", errCodeInvalidRequest)
		return false
	}
	return true
}

// statusFor maps a service failure onto an HTTP status and error code.
func statusFor(err error) (int, string) {
	var serr *services.StrategyError
	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		return http.StatusBadRequest, errCodeInvalidRequest
	case errors.Is(err, ports.ErrAuth):
		return http.StatusUnauthorized, errCodeSessionExpired
	case errors.Is(err, ports.ErrRateLimited):
		return http.StatusTooManyRequests, errCodeRateLimited
	case errors.Is(err, ports.ErrServer):
		return http.StatusServiceUnavailable, errCodeUpstreamUnavailable
	case errors.Is(err, ports.ErrClient):
		return http.StatusBadGateway, errCodeUpstreamRejected
	case errors.Is(err, scoring.ErrNoTopTracks):
		return http.StatusUnprocessableEntity, errCodeNothingFound
	case errors.As(err, &serr) && serr.Err == nil:
		return http.StatusUnprocessableEntity, errCodeNothingFound
	}
	return http.StatusInternalServerError, errCodeInternal
}

// writeServiceError renders a failure using the service's user-facing
// message when there is one.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	msg := "Something went wrong. Please try again."
	var serr *services.StrategyError
	if errors.As(err, &serr) {
		msg = serr.Message
	}
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeErrorWithCode(w, status, msg, code)
}

// jsonSink renders a ranked result as the JSON response body.
type jsonSink struct {
	w http.ResponseWriter
}

// compile-time interface assertion
var _ ports.RenderSink = jsonSink{}

func (s jsonSink) RenderRanked(_ context.Context, result domain.Result) error {
	writeJSON(s.w, http.StatusOK, newResultResponse(result))
	return nil
}
