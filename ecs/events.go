package ecs

import "github.com/milk9111/horde/common"

// EventType names a world event.
type EventType string

const (
	EventAgentSpawned    EventType = "agent_spawned"
	EventAgentDied       EventType = "agent_died"
	EventWaveStarted     EventType = "wave_started"
	EventWaveCleared     EventType = "wave_cleared"
	EventPortalSpawned   EventType = "portal_spawned"
	EventPortalEntered   EventType = "portal_entered"
	EventPickupCollected EventType = "pickup_collected"
	EventPlayerDied      EventType = "player_died"
	EventTimerExpired    EventType = "timer_expired"
)

// Event is a world event payload. Events pushed during a step are readable by
// every system that runs later in the same step.
type Event struct {
	Type   EventType
	Entity Entity
	Pos    common.Vec3
	Data   any
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

// Each visits queued events of the given type without consuming them.
func (q *EventQueue) Each(typ EventType, fn func(Event)) {
	if q == nil || fn == nil {
		return
	}
	for i := 0; i < len(q.items); i++ {
		if q.items[i].Type == typ {
			fn(q.items[i])
		}
	}
}

// Items returns the events queued so far this step.
func (q *EventQueue) Items() []Event {
	if q == nil {
		return nil
	}
	return q.items
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

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
