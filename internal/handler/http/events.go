package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/clinassign/clinassign-backend-go/internal/domain/user"
	"github.com/clinassign/clinassign-backend-go/internal/handler/http/response"
	"github.com/clinassign/clinassign-backend-go/internal/pkg/events"
	"github.com/clinassign/clinassign-backend-go/internal/pkg/jwt"
	"github.com/clinassign/clinassign-backend-go/internal/pkg/sse"
)

const keepaliveInterval = 30 * time.Second

type EventsHandler interface {
	Stream(w http.ResponseWriter, r *http.Request)
}

type eventsHandlerImpl struct {
	hub        *sse.Hub
	jwtService jwt.Service
	profiles   user.ProfileResolver
	policy     user.Policy
}

func NewEventsHandler(hub *sse.Hub, jwtService jwt.Service, profiles user.ProfileResolver, policy user.Policy) EventsHandler {
	return &eventsHandlerImpl{
		hub:        hub,
		jwtService: jwtService,
		profiles:   profiles,
		policy:     policy,
	}
}

// Stream handles the SSE connection for live attendance changes
func (h *eventsHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// Token comes from the query string; EventSource cannot set headers
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		response.Unauthorized(w, "Missing token")
		return
	}

	userID, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}

	profile, err := h.profiles.Resolve(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !h.policy.IsAuthorized(profile.Role, user.OperationRead) {
		response.HandleError(w, user.ErrForbidden)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported", nil)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	stream, cleanup := h.hub.Subscribe(events.TopicAttendance)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"user_id\":%q}\n\n", userID)
	flusher.Flush()

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-stream:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				slog.Warn("Failed to encode attendance event", "event", event.Event, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
