// Package event is a small synchronous pub-sub bus. Model-adjacent caches
// subscribe to change topics instead of polling: a font context change
// invalidates glyph caches, a highlight role change repaints role surfaces,
// a config reload reapplies settings.
package event

import (
	"sync"

	"github.com/dshills/neoview/internal/logger"
)

// Topic names an event stream.
type Topic string

// Bus topics.
const (
	// TopicHighlightRoles fires when a role highlight (pmenu, cursor)
	// is redefined. Payload: hl.Updates.
	TopicHighlightRoles Topic = "hl.roles"

	// TopicFontContext fires when font or line-space settings change and
	// all shaped glyphs are stale. Payload: nil.
	TopicFontContext Topic = "font.context"

	// TopicConfigReload fires after the config file is reloaded.
	// Payload: the new config value.
	TopicConfigReload Topic = "config.reload"
)

// Handler receives published payloads for one topic.
type Handler func(payload any)

// Subscription is a cancellable registration on the bus.
type Subscription struct {
	id    uint64
	topic Topic
	bus   *Bus
}

// Cancel removes the subscription. Safe to call more than once.
func (s *Subscription) Cancel() {
	s.bus.remove(s.topic, s.id)
}

type handlerEntry struct {
	id uint64
	fn Handler
}

// Bus delivers events synchronously in subscription order. Delivery
// happens on the publisher's goroutine; handlers must be quick.
type Bus struct {
	mu     sync.RWMutex
	subs   map[Topic][]handlerEntry
	nextID uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Topic][]handlerEntry)}
}

// Subscribe registers a handler for a topic.
func (b *Bus) Subscribe(t Topic, fn Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.subs[t] = append(b.subs[t], handlerEntry{id: b.nextID, fn: fn})
	return &Subscription{id: b.nextID, topic: t, bus: b}
}

// Publish delivers a payload to every subscriber of the topic. A panic in
// one handler is logged and does not stop delivery to the rest.
func (b *Bus) Publish(t Topic, payload any) {
	b.mu.RLock()
	entries := make([]handlerEntry, len(b.subs[t]))
	copy(entries, b.subs[t])
	b.mu.RUnlock()

	for _, e := range entries {
		b.dispatch(t, e, payload)
	}
}

func (b *Bus) dispatch(t Topic, e handlerEntry, payload any) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("event handler panicked", "topic", string(t), "panic", r)
		}
	}()
	e.fn(payload)
}

// SubscriberCount returns the number of active subscriptions on a topic.
func (b *Bus) SubscriberCount(t Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[t])
}

func (b *Bus) remove(t Topic, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries := b.subs[t]
	for i := range entries {
		if entries[i].id == id {
			b.subs[t] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}
