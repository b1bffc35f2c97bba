package events

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	TypeAttendanceCreated = "attendance.created"
	TypeAttendanceUpdated = "attendance.updated"
	TypeAttendanceDeleted = "attendance.deleted"

	// TopicAttendance is the hub topic attendance changes are broadcast on.
	TopicAttendance = "attendance"
)

var publishFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "clinassign_event_publish_failures_total",
		Help: "Attendance change events that could not be delivered, by sink.",
	},
	[]string{"sink"},
)

// Event describes a change to an attendance record.
type Event struct {
	Type       string      `json:"type"`
	RecordID   string      `json:"record_id"`
	ActorID    string      `json:"actor_id"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
