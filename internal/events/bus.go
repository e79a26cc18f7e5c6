// Package events provides a simple publish-subscribe bus used to tell
// renderers that the dashboard state changed.
package events

import (
	"sync"
)

const subBufferSize = 8

// Kind names the dashboard transition that produced an event
type Kind string

const (
	KindLoaded      Kind = "loaded"
	KindLoadFailed  Kind = "load_failed"
	KindCreated     Kind = "created"
	KindUpdated     Kind = "updated"
	KindDeleted     Kind = "deleted"
	KindSelected    Kind = "selected"
	KindModal       Kind = "modal"
	KindSyncFailed  Kind = "sync_failed"
	KindNoticeClear Kind = "notice_cleared"

	// KindSnapshot is sent to a new subscriber with the current revision
	KindSnapshot Kind = "snapshot"
)

// Event describes a single state change
type Event struct {
	Kind     Kind   `json:"kind"`
	FoodID   int64  `json:"foodId,omitempty"`
	Revision uint64 `json:"revision"`
}

// Bus is a non-blocking publish-subscribe event bus.
// Subscribers that are slow to consume events will have events dropped rather
// than blocking publishers.
type Bus struct {
	mu   sync.Mutex
	subs map[string]chan Event
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		subs: make(map[string]chan Event),
	}
}

// Subscribe creates a new subscription with the given ID.
// Call Unsubscribe when done to clean up.
func (b *Bus) Subscribe(id string) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan Event, subBufferSize)
	b.subs[id] = ch
	return ch
}

// Unsubscribe removes a subscription and closes its channel
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish sends an event to all subscribers.
// If a subscriber's channel is full, the event is dropped.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// SubscriberCount returns the current number of subscribers
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
