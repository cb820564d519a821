package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

// OcclusionEventKind identifies occlusion state changes.
type OcclusionEventKind string

const (
	OcclusionEventOccluded OcclusionEventKind = "occluded"
	OcclusionEventRestored OcclusionEventKind = "restored"
)

const OcclusionEventType = "occlusion"

// OcclusionEvent is emitted when an object is faded or restored.
type OcclusionEvent struct {
	Entity Entity
	Kind   OcclusionEventKind
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
