// Package bus is the in-process fanout path between mutation sources
// (REST handlers, the webhook receiver) and connected client
// transports. Delivery is best-effort: no persistence, no retries.
package bus

import (
	"sync"

	"github.com/aaryanrlondhe/Trello-Real-Time-Project/internal/event"
)

// Handler receives a published event. name is the channel event name
// clients switch on ("card-created", "trello-event", ...), distinct
// from the event's own type tag.
type Handler func(name string, evt event.Event)

// Subscription is one registered transport connection. A subscription
// belongs to at most one board channel at a time; global events reach
// it regardless.
type Subscription struct {
	handler Handler
	board   string // guarded by Bus.mu
}

// Bus routes events to subscriptions by board ID. Events without a
// board ID go to every registered subscription.
type Bus struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{
		subs: make(map[*Subscription]struct{}),
	}
}

// Register attaches a handler and returns its subscription. A fresh
// subscription receives only global events until it joins a board.
func (b *Bus) Register(h Handler) *Subscription {
	sub := &Subscription{handler: h}
	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

// Deregister detaches a subscription. Safe to call more than once.
func (b *Bus) Deregister(sub *Subscription) {
	b.mu.Lock()
	delete(b.subs, sub)
	b.mu.Unlock()
}

// Join subscribes to a board's channel, implicitly leaving any board
// joined before. Idempotent.
func (b *Bus) Join(sub *Subscription, boardID string) {
	b.mu.Lock()
	if _, ok := b.subs[sub]; ok {
		sub.board = boardID
	}
	b.mu.Unlock()
}

// Leave unsubscribes from a board's channel. Leaving a board the
// subscription isn't on is a no-op.
func (b *Bus) Leave(sub *Subscription, boardID string) {
	b.mu.Lock()
	if sub.board == boardID {
		sub.board = ""
	}
	b.mu.Unlock()
}

// Publish delivers the event: to the board's subscribers when the
// event carries a board ID, otherwise to everyone. Handlers run on the
// caller's goroutine, outside the bus lock, in registration-set order.
func (b *Bus) Publish(name string, evt event.Event) {
	b.mu.RLock()
	targets := make([]*Subscription, 0, len(b.subs))
	for sub := range b.subs {
		if evt.BoardID == "" || sub.board == evt.BoardID {
			targets = append(targets, sub)
		}
	}
	b.mu.RUnlock()

	for _, sub := range targets {
		sub.handler(name, evt)
	}
}

// Size returns the number of registered subscriptions.
func (b *Bus) Size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// BoardSubscribers returns how many subscriptions are on a board's
// channel.
func (b *Bus) BoardSubscribers(boardID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for sub := range b.subs {
		if sub.board == boardID {
			n++
		}
	}
	return n
}
