package match_test

import (
	"context"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/egg-brawl/internal/orchestrators/match"
)

// recorder collects notifications for one match
type recorder struct {
	mu    sync.Mutex
	notes []*match.Notification
	stop  func()
}

func record(bus events.EventBus, matchID string) *recorder {
	r := &recorder{}
	r.stop = match.Subscribe(bus, matchID, func(_ context.Context, n *match.Notification) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.notes = append(r.notes, n)
		return nil
	})
	return r
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.notes))
	for _, n := range r.notes {
		out = append(out, n.Type)
	}
	return out
}

func (r *recorder) count(eventType string) int {
	n := 0
	for _, t := range r.types() {
		if t == eventType {
			n++
		}
	}
	return n
}

func (r *recorder) lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, n := range r.notes {
		if n.Type == match.EventLogAppended {
			out = append(out, n.Line)
		}
	}
	return out
}

// participantCounts returns the size of each published snapshot in delivery order
func (r *recorder) participantCounts() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, 0, len(r.notes))
	for _, n := range r.notes {
		out = append(out, len(n.Snapshot.Participants))
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = nil
}
