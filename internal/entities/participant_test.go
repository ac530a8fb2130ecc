package entities_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/egg-brawl/internal/entities"
)

type ParticipantTestSuite struct {
	suite.Suite
	p *entities.Participant
}

func TestParticipantSuite(t *testing.T) {
	suite.Run(t, new(ParticipantTestSuite))
}

func (s *ParticipantTestSuite) SetupTest() {
	s.p = entities.NewParticipant("p1", "Alice")
}

func (s *ParticipantTestSuite) TestNewParticipant() {
	s.Equal(entities.MaxHP, s.p.Health)
	s.True(s.p.IsAlive())
	s.False(s.p.HasEffects())
	s.Equal("p1", s.p.GetID())
	s.Equal(entities.EntityTypeParticipant, s.p.GetType())

	unnamed := entities.NewParticipant("p2", "")
	s.Equal("p2", unnamed.DisplayName)
}

func (s *ParticipantTestSuite) TestTickWithoutEffectsIsNoOp() {
	before := s.p.Clone()

	s.False(s.p.Tick())
	s.Equal(before, s.p)
}

func (s *ParticipantTestSuite) TestTickCountsDownAndExplodes() {
	s.p.ApplyEgg(false)
	s.Equal(entities.EggTimer, s.p.StatusEffects[0].TurnsRemaining)

	s.False(s.p.Tick())
	s.Equal(1, s.p.StatusEffects[0].TurnsRemaining)
	s.False(s.p.Tick())
	s.Equal(0, s.p.StatusEffects[0].TurnsRemaining)
	s.True(s.p.IsAlive())

	s.True(s.p.Tick())
	s.Equal(-1, s.p.StatusEffects[0].TurnsRemaining)
	s.Equal(0, s.p.Health)
	s.False(s.p.Alive)
	s.False(s.p.IsAlive())
}

func (s *ParticipantTestSuite) TestTryCureSkipsFreshEggs() {
	s.p.ApplyEgg(false)

	s.False(s.p.TryCure(true), "an egg applied this round cannot be cured")
	s.Len(s.p.StatusEffects, 1)
}

func (s *ParticipantTestSuite) TestTryCureRemovesAgedEggs() {
	s.p.StatusEffects = []entities.StatusEffect{{TurnsRemaining: 1}}

	s.True(s.p.TryCure(true))
	s.False(s.p.HasEffects())
}

func (s *ParticipantTestSuite) TestTryCureReflected() {
	s.p.StatusEffects = []entities.StatusEffect{
		{TurnsRemaining: 1, Reflected: true},
		{TurnsRemaining: 0},
	}

	s.True(s.p.TryCure(true))
	s.Require().Len(s.p.StatusEffects, 1)
	s.True(s.p.StatusEffects[0].Reflected, "reflected eggs survive a curable-only cure")

	s.True(s.p.TryCure(false))
	s.False(s.p.HasEffects())
}

func (s *ParticipantTestSuite) TestTryCureWithNothingToCure() {
	s.False(s.p.TryCure(true))
}

func (s *ParticipantTestSuite) TestCanUseMove() {
	testCases := []struct {
		name    string
		history []entities.Move
		move    entities.Move
		allowed bool
	}{
		{"empty history allows sausage", nil, entities.MoveSausage, true},
		{"one sausage allows another", []entities.Move{entities.MoveSausage}, entities.MoveSausage, true},
		{"two sausages block the third", []entities.Move{entities.MoveSausage, entities.MoveSausage}, entities.MoveSausage, false},
		{"only the latest moves count", []entities.Move{entities.MoveSausage, entities.MoveSausage, entities.MoveAttack}, entities.MoveSausage, true},
		{"mixed recent history", []entities.Move{entities.MoveAttack, entities.MoveSausage}, entities.MoveSausage, true},
		{"other moves are never limited", []entities.Move{entities.MoveSausage, entities.MoveSausage}, entities.MoveBarrier, true},
		{"unknown move", nil, entities.Move(99), false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			p := entities.NewParticipant("p", "")
			p.MoveHistory = tc.history
			s.Equal(tc.allowed, p.CanUseMove(tc.move))
		})
	}
}

func (s *ParticipantTestSuite) TestAllowedMoves() {
	s.p.MoveHistory = []entities.Move{entities.MoveSausage, entities.MoveSausage}

	s.Equal([]entities.Move{entities.MoveAttack, entities.MoveEgg, entities.MoveBarrier}, s.p.AllowedMoves())
}

func (s *ParticipantTestSuite) TestTakeDamageFloorsAtZero() {
	s.p.TakeDamage(7)
	s.Equal(0, s.p.Health)
	s.False(s.p.IsAlive())
}

func (s *ParticipantTestSuite) TestCommitAndClear() {
	target := entities.ParticipantID("p2")
	s.p.Commit(entities.MoveAttack, &target)

	s.True(s.p.HasCommitted())
	s.Equal(entities.MoveAttack, *s.p.PendingMove)
	s.Equal(target, *s.p.PendingTarget)

	target = "changed"
	s.Equal(entities.ParticipantID("p2"), *s.p.PendingTarget, "commit keeps its own copy of the target")

	s.p.ClearPending()
	s.False(s.p.HasCommitted())
	s.Nil(s.p.PendingTarget)
}

func (s *ParticipantTestSuite) TestCloneIsDeep() {
	s.p.ApplyEgg(false)
	s.p.MoveHistory = []entities.Move{entities.MoveEgg}
	s.p.Commit(entities.MoveBarrier, nil)

	c := s.p.Clone()
	c.StatusEffects[0].TurnsRemaining = 0
	c.MoveHistory[0] = entities.MoveAttack
	*c.PendingMove = entities.MoveSausage

	s.Equal(entities.EggTimer, s.p.StatusEffects[0].TurnsRemaining)
	s.Equal(entities.MoveEgg, s.p.MoveHistory[0])
	s.Equal(entities.MoveBarrier, *s.p.PendingMove)
}
