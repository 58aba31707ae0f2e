package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vigil/internal/platform/middleware"
	"vigil/internal/report"
	"vigil/internal/transport/http/shared"
	domainerrors "vigil/pkg/domain-errors"
)

// Builder computes a report for a session id.
type Builder interface {
	Build(ctx context.Context, sessionID string) (report.Report, error)
}

// Handler serves integrity reports, structured and as PDF.
type Handler struct {
	logger *slog.Logger
	engine Builder
}

// New creates a new report Handler.
func New(engine Builder, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, engine: engine}
}

// Register registers the report routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/reports/{id}", h.handleReport)
	r.Get("/reports/{id}/document", h.handleDocument)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "id")

	rep, err := h.engine.Build(ctx, sessionID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build report",
			"request_id", middleware.GetRequestID(ctx),
			"session_id", sessionID,
			"error", err.Error(),
		)
		shared.WriteError(w, domainerrors.Wrap(err, domainerrors.CodeUnavailable, "failed to build report"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, rep)
}

func (h *Handler) handleDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "id")

	rep, err := h.engine.Build(ctx, sessionID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build report document",
			"request_id", middleware.GetRequestID(ctx),
			"session_id", sessionID,
			"error", err.Error(),
		)
		shared.WriteError(w, domainerrors.Wrap(err, domainerrors.CodeUnavailable, "failed to build report"))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=report_%s.pdf", sessionID))
	if err := report.RenderPDF(w, rep); err != nil {
		// Headers are gone; all we can do is log.
		h.logger.ErrorContext(ctx, "failed to render report pdf",
			"request_id", middleware.GetRequestID(ctx),
			"session_id", sessionID,
			"error", err.Error(),
		)
	}
}
