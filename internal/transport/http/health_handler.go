package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	apperrors "gstattrade/internal/errors"
	"gstattrade/internal/operations"
)

// OperationSource exposes the operation in progress
type OperationSource interface {
	Current() *operations.OperationState
}

// HealthResponse is the body of GET /healthz
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
	Operation string `json:"operation,omitempty"`
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	ops       OperationSource
	version   string
	startTime time.Time
	logger    *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(ops OperationSource, version string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		ops:       ops,
		version:   version,
		startTime: time.Now(),
		logger:    logger.With(slog.String("handler", "health")),
	}
}

// HealthCheck handles GET /healthz
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Version: h.version,
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
	}

	if h.ops != nil {
		if state := h.ops.Current(); state != nil {
			snap := state.Snapshot()
			resp.Operation = string(snap.Status)
			if snap.Status == operations.OperationStatusFailed {
				apiErr := apperrors.FromAppError(state.Error)
				if apiErr.StatusCode == http.StatusServiceUnavailable {
					h.logger.WarnContext(r.Context(), "Health degraded",
						slog.String("operation_id", snap.ID),
						slog.String("error", snap.Error))
					_ = render.Render(w, r, apperrors.NewErrorResponse(apiErr))
					return
				}
			}
		}
	}

	render.JSON(w, r, resp)
}

// Status handles GET /status
func (h *HealthHandler) Status(w http.ResponseWriter, r *http.Request) {
	var state *operations.OperationState
	if h.ops != nil {
		state = h.ops.Current()
	}
	if state == nil {
		_ = render.Render(w, r, apperrors.NewErrorResponse(
			apperrors.FromAppError(apperrors.NewNotFoundError("operation"))))
		return
	}
	render.JSON(w, r, state.Snapshot())
}
