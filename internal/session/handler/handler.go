package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vigil/internal/event"
	"vigil/internal/platform/middleware"
	"vigil/internal/session"
	"vigil/internal/transport/http/shared"
	domainerrors "vigil/pkg/domain-errors"
)

// Service defines the session operations the handler needs.
type Service interface {
	Start(ctx context.Context, id, name string) (session.Session, error)
	End(ctx context.Context, id string) (session.Session, error)
	List(ctx context.Context) ([]session.Session, error)
	Purge(ctx context.Context, id string) error
}

// Ingestor is the observation write path. The pipeline implements it; tests
// substitute a synchronous fake.
type Ingestor interface {
	Publish(ctx context.Context, obs event.Observation) error
	EndSession(sessionID string)
}

// Handler serves the session lifecycle and the raw event append endpoint.
type Handler struct {
	logger   *slog.Logger
	sessions Service
	ingest   Ingestor
}

// New creates a new session Handler.
func New(sessions Service, ingest Ingestor, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, sessions: sessions, ingest: ingest}
}

// Register registers the session routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/sessions", h.handleStart)
	r.Post("/sessions/end", h.handleEnd)
	r.Get("/sessions", h.handleList)
	r.Delete("/sessions/{id}", h.handlePurge)
	r.Post("/events", h.handleAppendEvent)
}

type startRequest struct {
	SessionID string `json:"sessionId"`
	Name      string `json:"name"`
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return
	}

	sess, err := h.sessions.Start(ctx, req.SessionID, req.Name)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to start session",
			"request_id", middleware.GetRequestID(ctx),
			"session_id", req.SessionID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, sess)
}

type endRequest struct {
	SessionID string `json:"sessionId"`
}

func (h *Handler) handleEnd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req endRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.SessionID == "" {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "sessionId is required"))
		return
	}

	sess, err := h.sessions.End(ctx, req.SessionID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	// The session is over; its cooldown state must not leak into a future
	// session reusing the id.
	h.ingest.EndSession(req.SessionID)

	shared.WriteJSON(w, http.StatusOK, sess)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessions.List(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	// Listings must always reflect the current store contents; intermediaries
	// may not serve a stale snapshot.
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	shared.WriteJSON(w, http.StatusOK, sessions)
}

func (h *Handler) handlePurge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "id")

	if err := h.sessions.Purge(ctx, sessionID); err != nil {
		shared.WriteError(w, err)
		return
	}

	h.ingest.EndSession(sessionID)
	w.WriteHeader(http.StatusNoContent)
}

type appendEventRequest struct {
	SessionID  string     `json:"sessionId"`
	Kind       event.Kind `json:"kind"`
	OccurredAt *time.Time `json:"occurredAt,omitempty"`
}

func (h *Handler) handleAppendEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req appendEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.SessionID == "" {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "sessionId is required"))
		return
	}
	if req.Kind == "" {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "kind is required"))
		return
	}

	occurredAt := time.Now()
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	obs := event.Observation{SessionID: req.SessionID, Kind: req.Kind, OccurredAt: occurredAt}
	if err := h.ingest.Publish(ctx, obs); err != nil {
		h.logger.ErrorContext(ctx, "failed to enqueue observation",
			"request_id", middleware.GetRequestID(ctx),
			"session_id", req.SessionID,
			"error", err.Error(),
		)
		shared.WriteError(w, domainerrors.Wrap(err, domainerrors.CodeUnavailable, "event pipeline unavailable"))
		return
	}

	shared.WriteJSON(w, http.StatusAccepted, map[string]bool{"accepted": true})
}
