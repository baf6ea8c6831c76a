package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/court-live-service/internal/http/handlers"
	"github.com/preston-bernstein/court-live-service/internal/http/middleware"
	"github.com/preston-bernstein/court-live-service/internal/metrics"
)

// NewRouter registers HTTP routes on a chi router wrapped in the logging middleware.
func NewRouter(h *handlers.Handler, logger *slog.Logger, recorder *metrics.Recorder) nethttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logging(logger, recorder))
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)

	r.Route("/courts", func(r chi.Router) {
		r.Get("/", h.Courts)
		r.Put("/{courtID}/subscription", h.Subscribe)
		r.Delete("/{courtID}/subscription", h.Unsubscribe)
		r.Post("/{courtID}/touch", h.Touch)
	})

	r.Route("/tournaments/{tournamentID}", func(r chi.Router) {
		r.Get("/live", h.TournamentLive)
		r.Get("/courts/{courtID}/live", h.CourtLive)
	})
	return r
}
