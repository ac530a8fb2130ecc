package match

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/egg-brawl/internal/entities"
	"github.com/KirkDiggler/egg-brawl/internal/errors"
)

// SnapshotSource fetches the latest authoritative snapshot for a resync
type SnapshotSource interface {
	GetSnapshot(ctx context.Context, matchID string) (*entities.Snapshot, error)
}

// Replica mirrors an authority. It never resolves rounds: commits are checked
// against the last snapshot and forwarded, and state changes only when a new
// snapshot is applied.
type Replica interface {
	MoveSender

	// ApplySnapshot replaces the whole local state with snap
	ApplySnapshot(ctx context.Context, snap *entities.Snapshot) error

	// ApplySnapshotJSON decodes a snapshot message strictly, then applies it
	ApplySnapshotJSON(ctx context.Context, data []byte) error

	// Resync fetches the latest snapshot from the source and applies it
	Resync(ctx context.Context, matchID string) error

	// Snapshot returns a copy of the last applied snapshot
	Snapshot(ctx context.Context) (*entities.Snapshot, error)

	// NeedsResync reports whether the last update was rejected
	NeedsResync() bool
}

// ReplicaConfig holds the dependencies for a replica
type ReplicaConfig struct {
	EventBus events.EventBus
	Sender   MoveSender

	// Source is optional; without it Resync fails
	Source SnapshotSource
}

// Validate ensures all required dependencies are provided
func (c *ReplicaConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	if c.Sender == nil {
		vb.RequiredField("Sender")
	}
	return vb.Build()
}

type replica struct {
	sender MoveSender
	source SnapshotSource
	pub    *publisher

	mu          sync.RWMutex
	match       *entities.Match
	needsResync bool
}

// NewReplica creates a replica with no baseline
func NewReplica(cfg *ReplicaConfig) (Replica, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &replica{
		sender: cfg.Sender,
		source: cfg.Source,
		pub:    &publisher{bus: cfg.EventBus},
	}, nil
}

func (r *replica) ApplySnapshot(ctx context.Context, snap *entities.Snapshot) error {
	if err := snap.Validate(); err != nil {
		r.mu.Lock()
		r.match = nil
		r.needsResync = true
		r.mu.Unlock()

		slog.Warn("Rejected malformed snapshot", "error", err)
		return err
	}

	r.mu.Lock()
	prev := r.match
	if prev != nil && prev.ID == snap.MatchID && isStale(prev, snap) {
		r.mu.Unlock()
		slog.Debug("Ignored stale snapshot",
			"match_id", snap.MatchID,
			"round", snap.Round,
			"current_round", prev.Round,
		)
		return nil
	}

	next := entities.NewMatch(snap.MatchID, false)
	next.Restore(snap)
	r.match = next
	r.needsResync = false
	r.pub.enqueue(nil, diff(prev, next)...)
	r.mu.Unlock()

	r.pub.flush(ctx)
	return nil
}

func (r *replica) ApplySnapshotJSON(ctx context.Context, data []byte) error {
	snap, err := entities.DecodeSnapshot(data)
	if err != nil {
		r.mu.Lock()
		r.match = nil
		r.needsResync = true
		r.mu.Unlock()

		slog.Warn("Rejected undecodable snapshot", "error", err)
		return err
	}
	return r.ApplySnapshot(ctx, snap)
}

func (r *replica) Resync(ctx context.Context, matchID string) error {
	if r.source == nil {
		return errors.FailedPrecondition("replica has no snapshot source")
	}
	if matchID == "" {
		return errors.InvalidArgument("match ID is required")
	}

	snap, err := r.source.GetSnapshot(ctx, matchID)
	if err != nil {
		return errors.Wrapf(err, "failed to fetch snapshot for match %s", matchID)
	}

	// a resync replaces the baseline even when it is not newer
	r.mu.Lock()
	if r.match != nil && r.match.ID == matchID {
		r.match = nil
	}
	r.mu.Unlock()

	return r.ApplySnapshot(ctx, snap)
}

func (r *replica) CommitMove(ctx context.Context, input *CommitMoveInput) (*CommitMoveOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if !input.Move.Valid() {
		return nil, errors.InvalidArgumentf("unknown move %s", input.Move)
	}

	r.mu.RLock()
	m := r.match
	if m == nil {
		r.mu.RUnlock()
		return nil, errors.FailedPrecondition("replica has no snapshot; resync first")
	}

	forward := *input
	if forward.MatchID == "" {
		forward.MatchID = m.ID
	}
	if forward.Round == 0 {
		forward.Round = m.Round
	}

	err := validateCommit(m, &forward)
	r.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	return r.sender.CommitMove(ctx, &forward)
}

// validateCommit mirrors the authority's checks so obvious mistakes fail
// without a round trip. The authority still has the final word.
func validateCommit(m *entities.Match, input *CommitMoveInput) error {
	if input.MatchID != m.ID {
		return errors.NotFoundf("replica follows match %s, not %s", m.ID, input.MatchID)
	}
	if m.Over {
		return errors.Abortedf("match %s is over", m.ID)
	}
	if input.Round != m.Round {
		return errors.Abortedf("round %d is closed, current round is %d", input.Round, m.Round)
	}

	actor, ok := m.Get(input.ParticipantID)
	if !ok || !actor.IsAlive() {
		return errors.InvalidParticipantf("participant %s is not alive in the match", input.ParticipantID)
	}
	if !actor.CanUseMove(input.Move) {
		return errors.MoveNotAllowedf("%s cannot be used again this round", input.Move)
	}

	_, err := resolveTarget(m.Living(), actor.ID, input.Move, input.TargetID)
	return err
}

func (r *replica) Snapshot(_ context.Context) (*entities.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.match == nil {
		return nil, errors.FailedPrecondition("replica has no snapshot")
	}
	return r.match.Snapshot(), nil
}

func (r *replica) NeedsResync() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.needsResync
}

// isStale reports whether snap is older than the state already applied
func isStale(cur *entities.Match, snap *entities.Snapshot) bool {
	if snap.Round != cur.Round {
		return snap.Round < cur.Round
	}
	if cur.Over && !snap.Over {
		return true
	}
	return len(snap.EventLog) < len(cur.EventLog)
}

// diff derives the notifications for moving from prev to next
func diff(prev, next *entities.Match) []*Notification {
	snap := next.Snapshot()
	var notes []*Notification

	newLines := next.EventLog
	if prev == nil || prev.ID != next.ID {
		notes = append(notes, &Notification{Type: EventMatchStarted, MatchID: snap.MatchID, Snapshot: snap})
	} else if len(prev.EventLog) <= len(next.EventLog) &&
		slices.Equal(prev.EventLog, next.EventLog[:len(prev.EventLog)]) {
		newLines = next.EventLog[len(prev.EventLog):]
	}

	for _, line := range newLines {
		notes = append(notes, &Notification{Type: EventLogAppended, MatchID: snap.MatchID, Snapshot: snap, Line: line})
	}

	if prev != nil && prev.ID == next.ID && next.Round > prev.Round {
		notes = append(notes, &Notification{Type: EventRoundResolved, MatchID: snap.MatchID, Snapshot: snap})
	}

	if next.Over && (prev == nil || prev.ID != next.ID || !prev.Over) {
		notes = append(notes, &Notification{Type: EventMatchOver, MatchID: snap.MatchID, Snapshot: snap})
	}

	return notes
}
