package match

import (
	"context"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/events"
)

// Follower keeps the newest undelivered notification for one match. Slow
// readers skip intermediate notifications; the snapshot they carry is full
// state, so nothing is lost but the intermediate steps.
type Follower struct {
	mu     sync.Mutex
	latest *Notification
	ready  chan struct{}
	stop   func()
}

// Follow subscribes to the match on bus. Call Stop when done.
func Follow(bus events.EventBus, matchID string) *Follower {
	f := &Follower{ready: make(chan struct{}, 1)}
	f.stop = Subscribe(bus, matchID, func(_ context.Context, n *Notification) error {
		f.put(n)
		return nil
	})
	return f
}

// Ready is signalled when a notification is waiting
func (f *Follower) Ready() <-chan struct{} {
	return f.ready
}

// Next takes the waiting notification, or nil if there is none
func (f *Follower) Next() *Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.latest
	f.latest = nil
	return n
}

// Stop unsubscribes from the bus
func (f *Follower) Stop() {
	f.stop()
}

func (f *Follower) put(n *Notification) {
	f.mu.Lock()
	f.latest = n
	f.mu.Unlock()

	select {
	case f.ready <- struct{}{}:
	default:
	}
}
