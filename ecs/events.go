package ecs

import (
	"fmt"
	"time"
)

type EventKind uint8

const (
	EventSpawned EventKind = iota + 1
	EventKilled
	EventCollected
	EventExpired
	EventCarDestroyed
	EventDespawned
)

func (k EventKind) String() string {
	switch k {
	case EventSpawned:
		return "spawned"
	case EventKilled:
		return "killed"
	case EventCollected:
		return "collected"
	case EventExpired:
		return "expired"
	case EventCarDestroyed:
		return "car_destroyed"
	case EventDespawned:
		return "despawned"
	default:
		return fmt.Sprintf("event(%d)", uint8(k))
	}
}

// Event records a lifecycle change. X and Y are the entity's last position;
// Value carries the scrap value for collection events.
type Event struct {
	Kind   EventKind
	Entity Entity
	Time   time.Duration
	X, Y   float64
	Value  float64
}

// Events buffers lifecycle events raised while systems run and delivers
// them to subscribers when flushed, at the end of a tick.
type Events struct {
	pending     []Event
	subscribers []func(Event)
}

func NewEvents() *Events {
	return &Events{}
}

// Emit queues an event. A nil receiver discards it, so systems can be run
// without a queue.
func (e *Events) Emit(ev Event) {
	if e == nil {
		return
	}
	e.pending = append(e.pending, ev)
}

// Subscribe registers fn to receive every flushed event.
func (e *Events) Subscribe(fn func(Event)) {
	e.subscribers = append(e.subscribers, fn)
}

// Pending returns the number of queued events.
func (e *Events) Pending() int {
	return len(e.pending)
}

// Flush delivers queued events in emission order and resets the buffer.
// Events emitted by subscribers during the flush are delivered in the same
// call.
func (e *Events) Flush() {
	for i := 0; i < len(e.pending); i++ {
		ev := e.pending[i]
		for _, fn := range e.subscribers {
			fn(ev)
		}
	}
	clear(e.pending)
	e.pending = e.pending[:0]
}
