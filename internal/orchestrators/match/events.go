package match

import (
	"context"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/egg-brawl/internal/entities"
	"github.com/KirkDiggler/egg-brawl/internal/repositories/snapshots"
)

// Event types published on the bus. Every event carries the match snapshot
// taken right after the change.
const (
	EventMatchStarted  = "match.started"
	EventLogAppended   = "match.log_appended"
	EventRoundResolved = "match.round_resolved"
	EventMatchOver     = "match.over"
)

// Event context keys
const (
	ContextKeySnapshot = "snapshot"
	ContextKeyLine     = "line"
)

// EventTypes lists every event type in publish order within a round
var EventTypes = []string{EventMatchStarted, EventLogAppended, EventRoundResolved, EventMatchOver}

// Notification is the decoded form of a match event
type Notification struct {
	Type     string
	MatchID  string
	Snapshot *entities.Snapshot
	Line     string
}

// matchSource identifies the match as the event source
type matchSource struct {
	id string
}

var _ core.Entity = matchSource{}

func (s matchSource) GetID() string   { return s.id }
func (s matchSource) GetType() string { return entities.EntityTypeMatch }

func toEvent(n *Notification) events.Event {
	ev := events.NewGameEvent(n.Type, matchSource{id: n.MatchID}, nil)
	ev.Context().Set(ContextKeySnapshot, n.Snapshot)
	if n.Line != "" {
		ev.Context().Set(ContextKeyLine, n.Line)
	}
	return ev
}

// FromEvent decodes a bus event published by an authority or replica
func FromEvent(ev events.Event) (*Notification, bool) {
	if ev == nil || ev.Source() == nil {
		return nil, false
	}

	raw, ok := ev.Context().Get(ContextKeySnapshot)
	if !ok {
		return nil, false
	}
	snap, ok := raw.(*entities.Snapshot)
	if !ok || snap == nil {
		return nil, false
	}

	n := &Notification{
		Type:     ev.Type(),
		MatchID:  ev.Source().GetID(),
		Snapshot: snap.Clone(),
	}
	if line, ok := ev.Context().Get(ContextKeyLine); ok {
		n.Line, _ = line.(string)
	}
	return n, true
}

// Subscribe registers fn for every event of one match.
// Each call to fn gets its own copy of the snapshot.
// The returned function removes the subscriptions.
func Subscribe(bus events.EventBus, matchID string, fn func(context.Context, *Notification) error) func() {
	ids := make([]string, 0, len(EventTypes))
	for _, eventType := range EventTypes {
		id := bus.SubscribeFunc(eventType, 0, func(ctx context.Context, ev events.Event) error {
			n, ok := FromEvent(ev)
			if !ok || n.MatchID != matchID {
				return nil
			}
			return fn(ctx, n)
		})
		ids = append(ids, id)
	}

	return func() {
		for _, id := range ids {
			if err := bus.Unsubscribe(id); err != nil {
				slog.Warn("Failed to unsubscribe", "match_id", matchID, "subscription_id", id, "error", err)
			}
		}
	}
}

// publisher delivers stored snapshots and notifications in the order they
// were enqueued. Owners enqueue while holding their state lock and flush
// after releasing it, so a slow repository or subscriber never holds the
// state lock and never reorders two changes. A subscriber that triggers new
// work from inside a handler has it queued behind the current batch.
type publisher struct {
	bus  events.EventBus
	repo snapshots.Repository

	mu       sync.Mutex
	queue    []outgoing
	draining bool
}

// outgoing is one unit of delivery: a snapshot to store or a notification
type outgoing struct {
	store *entities.Snapshot
	note  *Notification
}

// enqueue appends a snapshot to store, if any, followed by notes
func (p *publisher) enqueue(store *entities.Snapshot, notes ...*Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if store != nil && p.repo != nil {
		p.queue = append(p.queue, outgoing{store: store})
	}
	if p.bus == nil {
		return
	}
	for _, n := range notes {
		p.queue = append(p.queue, outgoing{note: n})
	}
}

// flush drains the queue unless another goroutine already is. The drainer
// delivers work enqueued by others, so it runs detached from ctx cancellation.
func (p *publisher) flush(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)

	p.mu.Lock()
	if p.draining {
		p.mu.Unlock()
		return
	}
	p.draining = true
	p.mu.Unlock()

	for {
		p.mu.Lock()
		if len(p.queue) == 0 {
			p.draining = false
			p.mu.Unlock()
			return
		}
		out := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()

		if out.store != nil {
			p.save(ctx, out.store)
			continue
		}
		if err := p.bus.Publish(ctx, toEvent(out.note)); err != nil {
			slog.Warn("Failed to publish match event",
				"match_id", out.note.MatchID,
				"event_type", out.note.Type,
				"error", err,
			)
		}
	}
}

// save keeps the latest snapshot for resync. Failures only cost replicas a resync source.
func (p *publisher) save(ctx context.Context, snap *entities.Snapshot) {
	if _, err := p.repo.Save(ctx, snapshots.SaveInput{Snapshot: snap}); err != nil {
		slog.Warn("Failed to store snapshot",
			"match_id", snap.MatchID,
			"round", snap.Round,
			"error", err,
		)
	}
}
