package events

import (
	"context"

	"github.com/clinassign/clinassign-backend-go/internal/pkg/sse"
)

// HubPublisher broadcasts events to SSE subscribers of the attendance topic.
type HubPublisher struct {
	hub *sse.Hub
}

func NewHubPublisher(hub *sse.Hub) *HubPublisher {
	return &HubPublisher{hub: hub}
}

func (p *HubPublisher) Publish(_ context.Context, event Event) error {
	p.hub.Publish(TopicAttendance, sse.Event{Event: event.Type, Data: event})
	return nil
}
