package http

import (
	"context"
	"net/http"
	"time"

	"github.com/clinassign/clinassign-backend-go/internal/handler/http/response"
)

// ReadinessChecker reports whether a dependency can serve traffic.
type ReadinessChecker interface {
	CheckReady(ctx context.Context) error
}

type HealthHandler interface {
	Live(w http.ResponseWriter, r *http.Request)
	Ready(w http.ResponseWriter, r *http.Request)
}

type healthHandlerImpl struct {
	version string
	store   ReadinessChecker
}

// NewHealthHandler builds the probe handler. A nil store is always ready.
func NewHealthHandler(version string, store ReadinessChecker) HealthHandler {
	return &healthHandlerImpl{version: version, store: store}
}

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Version   string            `json:"version"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Live implements HealthHandler.
func (h *healthHandlerImpl) Live(w http.ResponseWriter, r *http.Request) {
	response.OK(w, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
	})
}

// Ready implements HealthHandler.
func (h *healthHandlerImpl) Ready(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
		Checks:    map[string]string{"store": "ok"},
	}

	if h.store != nil {
		if err := h.store.CheckReady(r.Context()); err != nil {
			resp.Status = "fail"
			resp.Checks["store"] = err.Error()
			response.JSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}

	response.OK(w, resp)
}
