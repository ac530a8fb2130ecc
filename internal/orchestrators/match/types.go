package match

import (
	"github.com/KirkDiggler/egg-brawl/internal/entities"
)

// JoinInput adds a participant to a match
type JoinInput struct {
	MatchID       string
	ParticipantID entities.ParticipantID
	DisplayName   string
}

// JoinOutput contains the match after the join
type JoinOutput struct {
	Snapshot *entities.Snapshot
	Started  bool
}

// LeaveInput removes a participant from play
type LeaveInput struct {
	MatchID       string
	ParticipantID entities.ParticipantID
}

// LeaveOutput contains the match after the leave
type LeaveOutput struct {
	Snapshot *entities.Snapshot
}

// CommitMoveInput is the move-commit message
type CommitMoveInput struct {
	// MatchID is optional for a direct authority call and required over the wire
	MatchID       string
	ParticipantID entities.ParticipantID
	Move          entities.Move
	TargetID      *entities.ParticipantID

	// Round pins the commit to a round. Zero means the currently open round.
	Round int
}

// CommitMoveOutput reports where the commit landed
type CommitMoveOutput struct {
	// Round is the round the move was committed for
	Round int

	// Resolved is set when this commit completed the round
	Resolved bool

	// TargetID is the effective target after auto-targeting
	TargetID *entities.ParticipantID

	Snapshot *entities.Snapshot
}

// CreateInput contains parameters for hosting a new match
type CreateInput struct {
	// MatchID is generated when empty
	MatchID      string
	Participants []JoinInput

	// AutoStartAt starts the match once this many participants have joined.
	// Zero uses the registry default.
	AutoStartAt int
}

// CreateOutput contains the hosted match
type CreateOutput struct {
	Authority Authority
}
