// Package rest is the HTTP/JSON driving adapter. It turns requests into
// discovery commands and renders results; it holds no business logic.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/cratedig/internal/core/ports"
	"github.com/ewilliams-labs/cratedig/internal/core/services"
	"github.com/ewilliams-labs/cratedig/internal/logging"
)

// yearsShown is how many histogram bars the year picker offers.
const yearsShown = 12

// Handler manages the HTTP interface for our application.
type Handler struct {
	svc      *services.Discovery
	settings ports.SettingsStore
	router   chi.Router
	log      zerolog.Logger
}

// NewHandler initializes the HTTP adapter and sets up routes. settings may be
// nil, in which case the settings endpoints answer 501.
func NewHandler(svc *services.Discovery, settings ports.SettingsStore) *Handler {
	h := &Handler{
		svc:      svc,
		settings: settings,
		router:   chi.NewRouter(),
		log:      logging.With("rest"),
	}

	h.routes()

	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) routes() {
	r := h.router
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(h.logRequests)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", h.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/check", h.Check)
		r.Post("/discover", h.Discover)
		r.Get("/moods", h.ListMoods)

		r.Get("/years", h.Years)
		r.Get("/artists", h.TopArtists)
		r.Route("/taste", func(r chi.Router) {
			r.Get("/", h.Taste)
			r.Post("/rebuild", h.RebuildTaste)
		})

		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.PutSettings)
	})
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "cratedig is digging"})
}

// logRequests emits one event per request after it completes.
func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.log.Debug().
			Str("request_id", chimiddleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Msg("request")
	})
}
