package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"vigil/internal/platform/metrics"
	"vigil/internal/platform/middleware"
	"vigil/internal/recording"
	"vigil/internal/transport/http/shared"
	domainerrors "vigil/pkg/domain-errors"
)

// maxUploadMemory bounds the in-memory part of multipart parsing; larger
// uploads spill to temp files.
const maxUploadMemory = 32 << 20

// Handler serves recording upload, listing, and byte-range streaming.
type Handler struct {
	logger  *slog.Logger
	store   *recording.Store
	metrics *metrics.Metrics
}

// New creates a new recording Handler.
func New(store *recording.Store, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{logger: logger, store: store, metrics: m}
}

// Register registers the recording routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/recordings", h.handleUpload)
	r.Get("/recordings", h.handleList)
	r.Get("/recordings/{name}", h.handleStream)
	r.Get("/sessions/{id}/recording", h.handleStreamLatest)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid multipart body"))
		return
	}
	file, header, err := r.FormFile("video")
	if err != nil {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "missing video part"))
		return
	}
	defer file.Close()

	name := header.Filename
	if name == "" {
		name = recording.Filename(uuid.NewString(), time.Now(), ".webm")
	}

	stored, err := h.store.Save(name, file)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to store recording",
			"request_id", middleware.GetRequestID(ctx),
			"filename", name,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	h.metrics.IncRecordingUploaded()
	shared.WriteJSON(w, http.StatusCreated, map[string]string{"filename": stored})
}

type recordingRef struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	names, err := h.store.List()
	if err != nil {
		shared.WriteError(w, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to list recordings"))
		return
	}

	refs := make([]recordingRef, 0, len(names))
	for _, name := range names {
		refs = append(refs, recordingRef{Filename: name, URL: "/recordings/" + name})
	}
	shared.WriteJSON(w, http.StatusOK, map[string][]recordingRef{"recordings": refs})
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, chi.URLParam(r, "name"))
}

// handleStreamLatest resolves the session's newest recording by embedded
// capture timestamp, then streams it with the same range semantics.
func (h *Handler) handleStreamLatest(w http.ResponseWriter, r *http.Request) {
	name, err := h.store.Latest(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	h.stream(w, r, name)
}

func (h *Handler) stream(w http.ResponseWriter, r *http.Request, name string) {
	ctx := r.Context()

	f, size, err := h.store.Open(name)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	// Closing on return releases the handle promptly when the client aborts
	// mid-stream.
	defer f.Close()

	rangeHeader := r.Header.Get("Range")
	if rangeHeader == "" {
		w.Header().Set("Content-Type", recording.ContentType(name))
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
		w.Header().Set("Accept-Ranges", "bytes")
		w.WriteHeader(http.StatusOK)
		h.metrics.IncRangeRequest("full")

		n, err := io.Copy(w, f)
		h.metrics.AddRecordingBytesStreamed(n)
		if err != nil {
			h.logger.DebugContext(ctx, "recording stream interrupted", "filename", name, "error", err.Error())
		}
		return
	}

	start, end, err := parseRange(rangeHeader, size)
	if err != nil {
		if domainerrors.Is(err, domainerrors.CodeRangeNotSatisfiable) {
			h.metrics.IncRangeRequest("unsatisfiable")
			w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
			w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
			return
		}
		shared.WriteError(w, err)
		return
	}

	if _, err := f.Seek(start, io.SeekStart); err != nil {
		shared.WriteError(w, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to seek recording"))
		return
	}

	length := end - start + 1
	w.Header().Set("Content-Type", recording.ContentType(name))
	w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, size))
	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Content-Length", strconv.FormatInt(length, 10))
	w.WriteHeader(http.StatusPartialContent)
	h.metrics.IncRangeRequest("partial")

	n, err := io.CopyN(w, f, length)
	h.metrics.AddRecordingBytesStreamed(n)
	if err != nil && !errors.Is(err, os.ErrClosed) {
		h.logger.DebugContext(ctx, "recording stream interrupted", "filename", name, "error", err.Error())
	}
}

// parseRange interprets a "bytes=<start>-<end>" header against a file of the
// given size. Both bounds are inclusive; an omitted end defaults to size-1.
// A bound at or past the end of the file is unsatisfiable, not clamped —
// which is why http.ServeContent cannot serve here.
func parseRange(header string, size int64) (start, end int64, err error) {
	spec, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return 0, 0, domainerrors.New(domainerrors.CodeBadRequest, "malformed range header")
	}

	startRaw, endRaw, ok := strings.Cut(spec, "-")
	if !ok {
		return 0, 0, domainerrors.New(domainerrors.CodeBadRequest, "malformed range header")
	}

	start, err = strconv.ParseInt(startRaw, 10, 64)
	if err != nil || start < 0 {
		return 0, 0, domainerrors.New(domainerrors.CodeBadRequest, "malformed range start")
	}

	end = size - 1
	if endRaw != "" {
		end, err = strconv.ParseInt(endRaw, 10, 64)
		if err != nil || end < 0 {
			return 0, 0, domainerrors.New(domainerrors.CodeBadRequest, "malformed range end")
		}
	}

	if start >= size || end >= size {
		return 0, 0, domainerrors.New(domainerrors.CodeRangeNotSatisfiable, "range outside file bounds")
	}
	if start > end {
		return 0, 0, domainerrors.New(domainerrors.CodeBadRequest, "range start after end")
	}
	return start, end, nil
}
