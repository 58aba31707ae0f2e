package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vigil/internal/platform/middleware"
)

// Registrar is implemented by each feature handler.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter composes the feature handlers behind the shared middleware stack.
// The recording handler is registered on the outer router, outside the request
// timeout: streaming a long recording is expected to outlive any fixed
// deadline and is bounded by the client draining the socket.
func NewRouter(logger *slog.Logger, streaming Registrar, timed ...Registrar) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	streaming.Register(r)

	r.Group(func(g chi.Router) {
		g.Use(middleware.Timeout(30 * time.Second))
		for _, h := range timed {
			h.Register(g)
		}
	})

	return r
}
