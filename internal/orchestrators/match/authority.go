// Package match hosts matches: the authority that owns the resolver and the
// replica that mirrors authoritative snapshots
package match

//go:generate mockgen -destination=mock/mock_authority.go -package=matchmock github.com/KirkDiggler/egg-brawl/internal/orchestrators/match Authority,Registry,MoveSender

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/egg-brawl/internal/engine"
	"github.com/KirkDiggler/egg-brawl/internal/entities"
	"github.com/KirkDiggler/egg-brawl/internal/errors"
	"github.com/KirkDiggler/egg-brawl/internal/metrics"
	"github.com/KirkDiggler/egg-brawl/internal/repositories/snapshots"
)

// MinParticipants is the smallest match that can start
const MinParticipants = 2

// MoveSender delivers a move commit to the authority of a match
type MoveSender interface {
	CommitMove(ctx context.Context, input *CommitMoveInput) (*CommitMoveOutput, error)
}

// Authority owns a match: it accepts commits, runs the resolver and
// publishes snapshots. It is the only place a round is resolved.
type Authority interface {
	MoveSender

	// ID returns the match ID
	ID() string

	// Start publishes the initial snapshot and opens round 1
	Start(ctx context.Context) error

	// Join adds a participant at full health
	Join(ctx context.Context, input *JoinInput) (*JoinOutput, error)

	// Leave removes a participant from play for the rest of the match
	Leave(ctx context.Context, input *LeaveInput) (*LeaveOutput, error)

	// Snapshot returns a copy of the current state
	Snapshot(ctx context.Context) (*entities.Snapshot, error)
}

// AuthorityConfig holds the dependencies for an authority
type AuthorityConfig struct {
	MatchID  string
	Engine   engine.Engine
	EventBus events.EventBus

	// SnapshotRepo is optional; when set every published state is stored
	SnapshotRepo snapshots.Repository

	// Metrics is optional
	Metrics *metrics.Metrics

	// Participants join before the match starts
	Participants []JoinInput

	// AutoStartAt starts the match once this many participants have joined. Zero disables it.
	AutoStartAt int
}

// Validate ensures all required dependencies are provided
func (c *AuthorityConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("MatchID", c.MatchID, vb)
	if c.Engine == nil {
		vb.RequiredField("Engine")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	if c.AutoStartAt != 0 && c.AutoStartAt < MinParticipants {
		vb.Fieldf("AutoStartAt", "must be 0 or at least %d", MinParticipants)
	}

	seen := make(map[entities.ParticipantID]bool, len(c.Participants))
	for i, p := range c.Participants {
		field := fmt.Sprintf("Participants[%d]", i)
		if p.ParticipantID == "" {
			vb.RequiredField(field + ".ParticipantID")
			continue
		}
		if seen[p.ParticipantID] {
			vb.Fieldf(field, "duplicate participant %s", p.ParticipantID)
		}
		seen[p.ParticipantID] = true
	}

	return vb.Build()
}

type authority struct {
	engine      engine.Engine
	metrics     *metrics.Metrics
	pub         *publisher
	autoStartAt int

	mu      sync.Mutex
	match   *entities.Match
	started bool
}

// NewAuthority creates the authority for one match
func NewAuthority(cfg *AuthorityConfig) (Authority, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	m := entities.NewMatch(cfg.MatchID, true)
	for _, p := range cfg.Participants {
		m.Add(entities.NewParticipant(p.ParticipantID, p.DisplayName))
	}

	return &authority{
		engine:      cfg.Engine,
		metrics:     cfg.Metrics,
		pub:         &publisher{bus: cfg.EventBus, repo: cfg.SnapshotRepo},
		autoStartAt: cfg.AutoStartAt,
		match:       m,
	}, nil
}

func (a *authority) ID() string {
	return a.match.ID
}

func (a *authority) Start(ctx context.Context) error {
	a.mu.Lock()
	snap, err := a.startLocked()
	if err != nil {
		a.mu.Unlock()
		return err
	}
	a.pub.enqueue(snap, &Notification{Type: EventMatchStarted, MatchID: snap.MatchID, Snapshot: snap})
	a.mu.Unlock()

	a.pub.flush(ctx)
	return nil
}

func (a *authority) startLocked() (*entities.Snapshot, error) {
	if a.started {
		return nil, errors.FailedPreconditionf("match %s already started", a.match.ID)
	}
	if n := len(a.match.Living()); n < MinParticipants {
		return nil, errors.FailedPreconditionf("match needs at least %d participants, has %d", MinParticipants, n)
	}

	a.started = true
	slog.Info("Match started",
		"match_id", a.match.ID,
		"participant_count", len(a.match.Living()),
	)
	return a.match.Snapshot(), nil
}

func (a *authority) Join(ctx context.Context, input *JoinInput) (*JoinOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := a.checkMatchID(input.MatchID); err != nil {
		return nil, err
	}
	if input.ParticipantID == "" {
		return nil, errors.InvalidArgument("participant ID is required")
	}

	a.mu.Lock()
	if a.match.Over {
		a.mu.Unlock()
		return nil, errors.FailedPreconditionf("match %s is over", a.match.ID)
	}

	p := entities.NewParticipant(input.ParticipantID, input.DisplayName)
	if !a.match.Add(p) {
		a.mu.Unlock()
		return nil, errors.AlreadyExistsf("participant %s already joined", input.ParticipantID)
	}

	var notes []*Notification
	if a.started {
		line := fmt.Sprintf("%s joined the match", p.DisplayName)
		a.match.Log(line)
		snap := a.match.Snapshot()
		notes = append(notes, &Notification{Type: EventLogAppended, MatchID: snap.MatchID, Snapshot: snap, Line: line})
	}

	started := false
	if !a.started && a.autoStartAt > 0 && len(a.match.Living()) >= a.autoStartAt {
		snap, err := a.startLocked()
		if err != nil {
			a.mu.Unlock()
			return nil, err
		}
		started = true
		notes = append(notes, &Notification{Type: EventMatchStarted, MatchID: snap.MatchID, Snapshot: snap})
	}

	snap := a.match.Snapshot()
	if len(notes) > 0 {
		a.pub.enqueue(snap, notes...)
	}
	a.mu.Unlock()

	slog.Info("Participant joined",
		"match_id", snap.MatchID,
		"participant_id", input.ParticipantID,
		"started", started,
	)

	a.pub.flush(ctx)

	return &JoinOutput{Snapshot: snap, Started: started}, nil
}

func (a *authority) Leave(ctx context.Context, input *LeaveInput) (*LeaveOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := a.checkMatchID(input.MatchID); err != nil {
		return nil, err
	}

	a.mu.Lock()
	p, ok := a.match.Get(input.ParticipantID)
	if !ok {
		a.mu.Unlock()
		return nil, errors.InvalidParticipantf("participant %s is not in the match", input.ParticipantID)
	}
	if !p.IsAlive() || a.match.Over {
		snap := a.match.Snapshot()
		a.mu.Unlock()
		return &LeaveOutput{Snapshot: snap}, nil
	}

	p.Kill()
	line := fmt.Sprintf("%s left the match", p.DisplayName)
	a.match.Log(line)
	notes := []*Notification{{Type: EventLogAppended, MatchID: a.match.ID, Snapshot: a.match.Snapshot(), Line: line}}

	if a.started {
		if a.match.CheckTermination() {
			notes = append(notes, a.overNotes()...)
		} else if a.match.AllReady() {
			resolved, err := a.resolveLocked(ctx)
			if err != nil {
				slog.Error("Failed to resolve round after leave",
					"match_id", a.match.ID,
					"participant_id", input.ParticipantID,
					"error", err,
				)
			}
			notes = append(notes, resolved...)
		}
	}

	snap := a.match.Snapshot()
	a.pub.enqueue(snap, notes...)
	a.mu.Unlock()

	slog.Info("Participant left",
		"match_id", snap.MatchID,
		"participant_id", input.ParticipantID,
	)

	a.pub.flush(ctx)

	return &LeaveOutput{Snapshot: snap}, nil
}

func (a *authority) CommitMove(ctx context.Context, input *CommitMoveInput) (*CommitMoveOutput, error) {
	output, err := a.commit(ctx, input)
	if err != nil {
		a.metrics.Commit(metrics.CommitRejected)
		return nil, err
	}
	a.metrics.Commit(metrics.CommitAccepted)

	a.pub.flush(ctx)
	return output, nil
}

func (a *authority) commit(ctx context.Context, input *CommitMoveInput) (*CommitMoveOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := a.checkMatchID(input.MatchID); err != nil {
		return nil, err
	}
	if !input.Move.Valid() {
		return nil, errors.InvalidArgumentf("unknown move %s", input.Move)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.started {
		return nil, errors.FailedPreconditionf("match %s has not started", a.match.ID)
	}
	if a.match.Over {
		return nil, errors.Abortedf("match %s is over", a.match.ID)
	}
	if input.Round != 0 && input.Round != a.match.Round {
		return nil, errors.Abortedf("round %d is closed, current round is %d", input.Round, a.match.Round)
	}

	actor, ok := a.match.Get(input.ParticipantID)
	if !ok || !actor.IsAlive() {
		return nil, errors.InvalidParticipantf("participant %s is not alive in the match", input.ParticipantID)
	}
	if !actor.CanUseMove(input.Move) {
		return nil, errors.MoveNotAllowedf("%s cannot be used again this round", input.Move).
			WithMeta("participant_id", string(input.ParticipantID))
	}

	target, err := resolveTarget(a.match.Living(), actor.ID, input.Move, input.TargetID)
	if err != nil {
		return nil, err
	}

	prevMove, prevTarget := actor.PendingMove, actor.PendingTarget
	round := a.match.Round
	actor.Commit(input.Move, target)

	slog.Debug("Move committed",
		"match_id", a.match.ID,
		"round", round,
		"participant_id", actor.ID,
	)

	output := &CommitMoveOutput{Round: round, TargetID: copyID(target)}

	if a.match.AllReady() {
		notes, err := a.resolveLocked(ctx)
		if err != nil {
			actor.PendingMove, actor.PendingTarget = prevMove, prevTarget
			return nil, err
		}
		output.Resolved = true
		output.Snapshot = a.match.Snapshot()
		a.pub.enqueue(output.Snapshot, notes...)
		return output, nil
	}

	output.Snapshot = a.match.Snapshot()
	return output, nil
}

// resolveLocked runs the resolver over the living participants and replaces
// their records with the result. Callers hold a.mu.
func (a *authority) resolveLocked(ctx context.Context) ([]*Notification, error) {
	living := a.match.Living()

	input := &engine.ResolveInput{
		Round:        a.match.Round,
		Participants: make([]*entities.Participant, 0, len(living)),
		Commits:      make(map[entities.ParticipantID]engine.Commit, len(living)),
	}
	alive := make(map[entities.ParticipantID]bool, len(living))
	for _, p := range living {
		alive[p.ID] = true
	}
	for _, p := range living {
		input.Participants = append(input.Participants, p.Clone())

		// a target who left after the commit was made is no longer hit
		target := copyID(p.PendingTarget)
		if target != nil && !alive[*target] {
			target = nil
		}
		input.Commits[p.ID] = engine.Commit{Move: *p.PendingMove, Target: target}
	}

	// resolution outlives the committing request
	out, err := a.engine.Resolve(context.WithoutCancel(ctx), input)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve round %d", input.Round)
	}

	for _, p := range out.Participants {
		a.match.Participants[p.ID] = p.Clone()
	}
	for _, p := range a.match.Participants {
		p.ClearPending()
	}

	start := len(a.match.EventLog)
	for _, ev := range out.Events {
		a.match.Log(ev.Message)
	}
	a.match.Round++

	if out.Over {
		a.match.Over = true
		a.match.WinnerID = copyID(out.WinnerID)
		a.match.Draw = out.Draw
	} else {
		a.match.CheckTermination()
	}

	a.metrics.RoundResolved()
	for _, d := range out.Deaths {
		a.metrics.Death(string(d.Reason))
	}

	slog.Info("Round resolved",
		"match_id", a.match.ID,
		"round", input.Round,
		"deaths", len(out.Deaths),
		"over", a.match.Over,
	)

	snap := a.match.Snapshot()
	notes := make([]*Notification, 0, len(a.match.EventLog)-start+2)
	for _, line := range a.match.EventLog[start:] {
		notes = append(notes, &Notification{Type: EventLogAppended, MatchID: snap.MatchID, Snapshot: snap, Line: line})
	}
	notes = append(notes, &Notification{Type: EventRoundResolved, MatchID: snap.MatchID, Snapshot: snap})

	if a.match.Over {
		notes = append(notes, a.overNotes()...)
	}
	return notes, nil
}

// overNotes records the finished match. Callers hold a.mu.
func (a *authority) overNotes() []*Notification {
	a.metrics.MatchFinished(a.match.Draw)

	winner := ""
	if a.match.WinnerID != nil {
		winner = string(*a.match.WinnerID)
	}
	slog.Info("Match over",
		"match_id", a.match.ID,
		"winner_id", winner,
		"draw", a.match.Draw,
	)

	snap := a.match.Snapshot()
	return []*Notification{{Type: EventMatchOver, MatchID: snap.MatchID, Snapshot: snap}}
}

func (a *authority) Snapshot(_ context.Context) (*entities.Snapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.match.Snapshot(), nil
}

func (a *authority) checkMatchID(matchID string) error {
	if matchID != "" && matchID != a.match.ID {
		return errors.NotFoundf("match %s not hosted here", matchID)
	}
	return nil
}

// resolveTarget applies the targeting rules for a commit. Moves without a
// target drop it; a missing or self target is replaced by the only opponent.
func resolveTarget(
	living []*entities.Participant, self entities.ParticipantID, move entities.Move, target *entities.ParticipantID,
) (*entities.ParticipantID, error) {
	if !move.NeedsTarget() {
		return nil, nil
	}

	var opponents []entities.ParticipantID
	for _, p := range living {
		if p.ID != self {
			opponents = append(opponents, p.ID)
		}
	}

	if target == nil || *target == self {
		if len(opponents) == 1 {
			return copyID(&opponents[0]), nil
		}
		return nil, errors.InvalidParticipantf("%s needs a target among %d opponents", move, len(opponents))
	}

	for _, id := range opponents {
		if id == *target {
			return copyID(target), nil
		}
	}
	return nil, errors.InvalidParticipantf("target %s is not alive in the match", *target)
}

func copyID(id *entities.ParticipantID) *entities.ParticipantID {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}
