package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apperrors "gstattrade/internal/errors"
	"gstattrade/internal/middleware"
)

// RouterDependencies holds everything the router serves
type RouterDependencies struct {
	Health  *HealthHandler
	Metrics http.Handler
	Logger  *slog.Logger
}

// NewRouter builds the status listener routes. Metrics may be nil when the
// Prometheus exporter is disabled; /metrics then answers 404.
func NewRouter(deps RouterDependencies) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(deps.Logger))
	r.Use(middleware.Recoverer(deps.Logger))

	r.Get("/healthz", deps.Health.HealthCheck)
	r.Get("/status", deps.Health.Status)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = render.Render(w, r, apperrors.NewErrorResponse(apperrors.ErrNotFound))
	})

	return r
}
