package handlers

import (
	"errors"
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/court-live-service/internal/domain/live"
	"github.com/preston-bernstein/court-live-service/internal/livefeed"
	"github.com/preston-bernstein/court-live-service/internal/logging"
	"github.com/preston-bernstein/court-live-service/internal/subscriptions"
)

// Subscriptions is the slice of the subscription manager the HTTP layer drives.
type Subscriptions interface {
	Subscribe(courtID string) error
	Unsubscribe(courtID string)
	Touch(courtID string) bool
	IsSubscribed(courtID string) bool
	ListSubscribed() []string
}

// LiveReader serves the latest state per tournament and court.
type LiveReader interface {
	Get(tournamentID, courtID string) (live.CourtLiveState, bool)
	ListTournament(tournamentID string) []live.CourtLiveState
}

// Handler wires HTTP routes to the subscription manager and the live store.
type Handler struct {
	subs    Subscriptions
	states  LiveReader
	logger  *slog.Logger
	readyFn func() error
}

// NewHandler constructs a Handler. readyFn may be nil, in which case the service is always ready.
func NewHandler(subs Subscriptions, states LiveReader, logger *slog.Logger, readyFn func() error) *Handler {
	return &Handler{
		subs:    subs,
		states:  states,
		logger:  logger,
		readyFn: readyFn,
	}
}

// CourtsResponse lists subscribed courts.
type CourtsResponse struct {
	Courts []string `json:"courts"`
}

// SubscriptionResponse reports a court's subscription status.
type SubscriptionResponse struct {
	CourtID    string `json:"courtId"`
	Subscribed bool   `json:"subscribed"`
}

// TournamentLiveResponse lists the latest state of every court in a tournament.
type TournamentLiveResponse struct {
	TournamentID string                `json:"tournamentId"`
	Courts       []live.CourtLiveState `json:"courts"`
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic (e.g., for Kubernetes probes).
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.readyFn != nil {
		if err := h.readyFn(); err != nil {
			writeError(w, r, nethttp.StatusServiceUnavailable, err.Error(), h.logger)
			return
		}
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
}

// Courts lists the subscribed courts.
func (h *Handler) Courts(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeJSON(w, nethttp.StatusOK, CourtsResponse{Courts: h.subs.ListSubscribed()}, h.logger)
}

// Subscribe registers interest in a court and starts its live connection if needed.
func (h *Handler) Subscribe(w nethttp.ResponseWriter, r *nethttp.Request) {
	courtID, ok := h.courtParam(w, r)
	if !ok {
		return
	}
	if err := h.subs.Subscribe(courtID); err != nil {
		h.writeSubscribeError(w, r, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, SubscriptionResponse{CourtID: courtID, Subscribed: true}, h.logger)
}

// Unsubscribe drops a court's subscription. Unknown courts are not an error.
func (h *Handler) Unsubscribe(w nethttp.ResponseWriter, r *nethttp.Request) {
	courtID, ok := h.courtParam(w, r)
	if !ok {
		return
	}
	h.subs.Unsubscribe(courtID)
	w.WriteHeader(nethttp.StatusNoContent)
}

// Touch refreshes the lease of a subscribed court.
func (h *Handler) Touch(w nethttp.ResponseWriter, r *nethttp.Request) {
	courtID, ok := h.courtParam(w, r)
	if !ok {
		return
	}
	if !h.subs.Touch(courtID) {
		writeError(w, r, nethttp.StatusNotFound, "court not subscribed", h.logger)
		return
	}
	w.WriteHeader(nethttp.StatusNoContent)
}

// CourtLive returns the latest state of a court and keeps its subscription alive,
// the way a display page polling the court would.
func (h *Handler) CourtLive(w nethttp.ResponseWriter, r *nethttp.Request) {
	courtID, ok := h.courtParam(w, r)
	if !ok {
		return
	}
	tournamentID := chi.URLParam(r, "tournamentID")
	if tournamentID == "" {
		writeError(w, r, nethttp.StatusBadRequest, "invalid tournament id", h.logger)
		return
	}

	if err := h.subs.Subscribe(courtID); err != nil {
		h.writeSubscribeError(w, r, err)
		return
	}

	state, found := h.states.Get(tournamentID, courtID)
	if !found {
		writeError(w, r, nethttp.StatusNotFound, "no live state yet", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, state, h.logger)
}

// TournamentLive returns the latest state of every court seen for a tournament.
func (h *Handler) TournamentLive(w nethttp.ResponseWriter, r *nethttp.Request) {
	tournamentID := chi.URLParam(r, "tournamentID")
	if tournamentID == "" {
		writeError(w, r, nethttp.StatusBadRequest, "invalid tournament id", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, TournamentLiveResponse{
		TournamentID: tournamentID,
		Courts:       h.states.ListTournament(tournamentID),
	}, h.logger)
}

// NotFound is the router's fallback.
func (h *Handler) NotFound(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusNotFound, "not found", h.logger)
}

// MethodNotAllowed is the router's fallback for known paths.
func (h *Handler) MethodNotAllowed(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
}

func (h *Handler) courtParam(w nethttp.ResponseWriter, r *nethttp.Request) (string, bool) {
	courtID, err := livefeed.NormalizeCourtID(chi.URLParam(r, "courtID"))
	if err != nil {
		writeError(w, r, nethttp.StatusBadRequest, "invalid court id", h.logger)
		return "", false
	}
	return courtID, true
}

func (h *Handler) writeSubscribeError(w nethttp.ResponseWriter, r *nethttp.Request, err error) {
	switch {
	case errors.Is(err, subscriptions.ErrInvalidCourtID):
		writeError(w, r, nethttp.StatusBadRequest, "invalid court id", h.logger)
	case errors.Is(err, subscriptions.ErrStopped):
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
	default:
		logging.Error(loggerFromContext(r, h.logger), "subscribe failed", err)
		writeError(w, r, nethttp.StatusInternalServerError, "subscribe failed", h.logger)
	}
}
