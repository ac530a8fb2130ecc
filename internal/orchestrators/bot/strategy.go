// Package bot plays a participant automatically. A strategy picks the move,
// the driver commits it through the same interface a human client uses.
package bot

//go:generate mockgen -destination=mock/mock_strategy.go -package=botmock github.com/KirkDiggler/egg-brawl/internal/orchestrators/bot Strategy,MoveSubmitter

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/egg-brawl/internal/entities"
	"github.com/KirkDiggler/egg-brawl/internal/errors"
)

// ChooseInput is what a strategy sees: its own ID and the public snapshot
type ChooseInput struct {
	Self     entities.ParticipantID
	Snapshot *entities.Snapshot
}

// Choice is a strategy's decision for the round
type Choice struct {
	Move   entities.Move
	Target *entities.ParticipantID
}

// Strategy picks a move for one round
type Strategy interface {
	Choose(ctx context.Context, input *ChooseInput) (*Choice, error)
}

// RandomConfig holds the dependencies for the random strategy
type RandomConfig struct {
	Roller dice.Roller
}

// Validate ensures all required dependencies are provided
func (c *RandomConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	return vb.Build()
}

type randomStrategy struct {
	roller dice.Roller
}

// NewRandomStrategy picks uniformly among allowed moves and living opponents
func NewRandomStrategy(cfg *RandomConfig) (Strategy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &randomStrategy{roller: cfg.Roller}, nil
}

func (s *randomStrategy) Choose(_ context.Context, input *ChooseInput) (*Choice, error) {
	self, err := selfOf(input)
	if err != nil {
		return nil, err
	}

	allowed := allowedMoves(self)
	move, err := pick(s.roller, allowed)
	if err != nil {
		return nil, err
	}

	choice := &Choice{Move: move}
	if move.NeedsTarget() {
		target, err := pick(s.roller, opponents(input.Snapshot, input.Self))
		if err != nil {
			return nil, err
		}
		choice.Target = &target
	}

	slog.Debug("Random strategy chose",
		"participant_id", input.Self,
		"move", move.String(),
	)
	return choice, nil
}

func pick[T any](roller dice.Roller, options []T) (T, error) {
	var zero T
	if len(options) == 0 {
		return zero, errors.FailedPrecondition("nothing to choose from")
	}
	if len(options) == 1 {
		return options[0], nil
	}

	n, err := roller.Roll(len(options))
	if err != nil {
		return zero, errors.Wrap(err, "failed to roll")
	}
	if n < 1 || n > len(options) {
		return zero, errors.Internalf("roll %d outside 1..%d", n, len(options))
	}
	return options[n-1], nil
}

func selfOf(input *ChooseInput) (*entities.ParticipantSnapshot, error) {
	if input == nil || input.Snapshot == nil {
		return nil, errors.InvalidArgument("snapshot is required")
	}
	self, ok := input.Snapshot.Participant(input.Self)
	if !ok || !self.Alive {
		return nil, errors.InvalidParticipantf("participant %s is not alive in the match", input.Self)
	}
	return self, nil
}

// allowedMoves applies the move guard to a participant's public history
func allowedMoves(ps *entities.ParticipantSnapshot) []entities.Move {
	p := &entities.Participant{ID: ps.ID, MoveHistory: ps.MoveHistory}
	return p.AllowedMoves()
}

func opponents(snap *entities.Snapshot, self entities.ParticipantID) []entities.ParticipantID {
	var ids []entities.ParticipantID
	for _, id := range snap.Living() {
		if id != self {
			ids = append(ids, id)
		}
	}
	return ids
}
