package engine

import "github.com/KirkDiggler/egg-brawl/internal/entities"

// Commit is one participant's move for the round
type Commit struct {
	Move   entities.Move
	Target *entities.ParticipantID
}

// ResolveInput carries the start-of-round state
type ResolveInput struct {
	Round int

	// Participants are the living participants in iteration order.
	// The engine works on clones; the caller's records are left untouched.
	Participants []*entities.Participant

	// Commits holds exactly one entry per living participant
	Commits map[entities.ParticipantID]Commit
}

// ResolveOutput is the complete result of a round
type ResolveOutput struct {
	Round int

	// Participants are the post-round records in input order, dead ones included.
	// Each has the committed move appended to its history and no pending move.
	Participants []*entities.Participant

	// Deltas describe what happened to each participant
	Deltas map[entities.ParticipantID]*Delta

	// Events are in the order they occurred
	Events []Event

	Deaths []Death

	Over     bool
	WinnerID *entities.ParticipantID
	Draw     bool

	// SuddenDeath is set when a double knockout revived both participants
	SuddenDeath bool
}

// Delta is the per-participant change accumulated during a round
type Delta struct {
	Damage        int
	NewEggs       int
	ReflectedEggs int
	Cured         bool
	InstantDeath  bool
	Exploded      bool
}

// DeathReason tells which phase killed a participant
type DeathReason string

// Death reasons
const (
	DeathReasonInstant DeathReason = "instant"
	DeathReasonTimer   DeathReason = "timer"
)

// Death records a participant killed this round
type Death struct {
	ParticipantID entities.ParticipantID
	Reason        DeathReason
}

// EventKind classifies an event
type EventKind string

// Event kinds
const (
	EventMoveRevealed    EventKind = "move_revealed"
	EventCured           EventKind = "cured"
	EventAttackHit       EventKind = "attack_hit"
	EventAttackReflected EventKind = "attack_reflected"
	EventBarrierFailed   EventKind = "barrier_failed"
	EventEggLanded       EventKind = "egg_landed"
	EventEggReflected    EventKind = "egg_reflected"
	EventDamaged         EventKind = "damaged"
	EventEggApplied      EventKind = "egg_applied"
	EventEggsStacked     EventKind = "eggs_stacked"
	EventDied            EventKind = "died"
	EventExploded        EventKind = "exploded"
	EventSuddenDeath     EventKind = "sudden_death"
	EventMatchOver       EventKind = "match_over"
)

// Event is one human-readable step of the resolution
type Event struct {
	Kind    EventKind
	Actor   entities.ParticipantID
	Target  entities.ParticipantID
	Move    entities.Move
	Message string
}
