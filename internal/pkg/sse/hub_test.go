package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesTopicSubscribers(t *testing.T) {
	h := NewHub()

	a, cleanupA := h.Subscribe("attendance")
	defer cleanupA()
	b, cleanupB := h.Subscribe("attendance")
	defer cleanupB()
	other, cleanupOther := h.Subscribe("chat")
	defer cleanupOther()

	n := h.Publish("attendance", Event{Event: "attendance.created", Data: "rec-1"})
	assert.Equal(t, 2, n)

	for _, ch := range []<-chan Event{a, b} {
		ev := <-ch
		assert.Equal(t, "attendance", ev.Topic)
		assert.Equal(t, "attendance.created", ev.Event)
		assert.Equal(t, "rec-1", ev.Data)
	}

	select {
	case ev := <-other:
		t.Fatalf("unexpected event on other topic: %+v", ev)
	default:
	}
}

func TestHub_CleanupClosesAndForgets(t *testing.T) {
	h := NewHub()

	ch, cleanup := h.Subscribe("attendance")
	require.Equal(t, 1, h.SubscriberCount("attendance"))

	cleanup()
	cleanup()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, h.SubscriberCount("attendance"))
	assert.Equal(t, 0, h.TotalSubscribers())
}

func TestHub_FullBufferIsSkipped(t *testing.T) {
	h := NewHub()

	_, cleanup := h.Subscribe("attendance")
	defer cleanup()

	for i := 0; i < h.bufferSize; i++ {
		require.Equal(t, 1, h.Publish("attendance", Event{Event: "tick"}))
	}
	assert.Equal(t, 0, h.Publish("attendance", Event{Event: "overflow"}))
}

func TestHub_CloseEndsSubscriptions(t *testing.T) {
	h := NewHub()

	a, cleanupA := h.Subscribe("attendance")
	b, cleanupB := h.Subscribe("chat")

	h.Close()
	h.Close()

	for _, ch := range []<-chan Event{a, b} {
		_, open := <-ch
		assert.False(t, open)
	}
	assert.Equal(t, 0, h.TotalSubscribers())

	// cleanup after Close must not close the channel twice
	assert.NotPanics(t, cleanupA)
	assert.NotPanics(t, cleanupB)

	late, cleanupLate := h.Subscribe("attendance")
	defer cleanupLate()
	_, open := <-late
	assert.False(t, open)
	assert.Equal(t, 0, h.TotalSubscribers())
	assert.Equal(t, 0, h.Publish("attendance", Event{Event: "attendance.created"}))
}
