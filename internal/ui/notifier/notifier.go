// Package notifier fans committed diagram changes out to connected SSE
// streams.
package notifier

import (
	"sync"

	"github.com/leapstack-labs/leapuml/internal/model"
)

// Update is what a subscriber receives for one committed diagram change.
// Structural updates alter topology (classes or relationships appearing,
// disappearing, or being renamed) and warrant a re-layout; the rest are
// member-level edits.
type Update struct {
	Event      model.Event
	Structural bool
}

// Notifier delivers diagram updates to every subscribed listener.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan Update]struct{}
}

// New creates an empty Notifier.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan Update]struct{}),
	}
}

// Subscribe returns a channel receiving one Update per committed change.
// The caller must Unsubscribe when done to prevent goroutine leaks.
func (n *Notifier) Subscribe() chan Update {
	ch := make(chan Update, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(ch chan Update) {
	n.mu.Lock()
	delete(n.listeners, ch)
	n.mu.Unlock()
	close(ch)
}

// Broadcast delivers an update to every listener without blocking. A slow
// listener holds at most one pending update; a new broadcast coalesces with
// it, keeping the structural hint, so a re-layout is never downgraded to a
// label refresh.
func (n *Notifier) Broadcast(u Update) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners {
		next := u
		select {
		case prev := <-ch:
			next.Structural = next.Structural || prev.Structural
		default:
		}
		select {
		case ch <- next:
		default:
		}
	}
}
