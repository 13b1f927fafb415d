// Package realtime fans committed domain events out to the streams users
// hold open.
package realtime

import (
	"context"
	"sync"

	"expensezen/internal/events"
)

const defaultBuffer = 16

// Hub delivers events to per-user subscriptions. A slow subscriber loses
// events instead of blocking publishers; streams treat every event as a
// signal to reload.
type Hub struct {
	mu      sync.RWMutex
	subs    map[string]map[*Subscription]struct{}
	buffer  int
	dropped func()
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{
		subs:   make(map[string]map[*Subscription]struct{}),
		buffer: buffer,
	}
}

// OnDrop registers a callback invoked for every event a full subscription
// misses.
func (h *Hub) OnDrop(fn func()) {
	h.mu.Lock()
	h.dropped = fn
	h.mu.Unlock()
}

type Subscription struct {
	hub    *Hub
	userID string
	types  map[events.Type]struct{}
	ch     chan events.Event
	once   sync.Once
}

// Events is closed after Unsubscribe.
func (s *Subscription) Events() <-chan events.Event {
	return s.ch
}

// Unsubscribe is idempotent. Nothing is delivered after it returns.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.hub.remove(s)
	})
}

// Subscribe registers a stream for userID. With no types every event for
// the user is delivered.
func (h *Hub) Subscribe(userID string, types ...events.Type) *Subscription {
	sub := &Subscription{
		hub:    h,
		userID: userID,
		ch:     make(chan events.Event, h.buffer),
	}
	if len(types) > 0 {
		sub.types = make(map[events.Type]struct{}, len(types))
		for _, t := range types {
			sub.types[t] = struct{}{}
		}
	}

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*Subscription]struct{})
	}
	h.subs[userID][sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.subs[sub.userID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, sub.userID)
		}
	}
	close(sub.ch)
}

// Publish implements events.Publisher.
func (h *Hub) Publish(_ context.Context, event events.Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, userID := range event.UserIDs {
		for sub := range h.subs[userID] {
			if sub.types != nil {
				if _, ok := sub.types[event.Type]; !ok {
					continue
				}
			}
			select {
			case sub.ch <- event:
			default:
				if h.dropped != nil {
					h.dropped()
				}
			}
		}
	}
	return nil
}

// Subscribers reports open subscriptions for userID.
func (h *Hub) Subscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}
