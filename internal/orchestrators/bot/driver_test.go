package bot_test

import (
	"context"
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/egg-brawl/internal/engine"
	"github.com/KirkDiggler/egg-brawl/internal/entities"
	"github.com/KirkDiggler/egg-brawl/internal/errors"
	"github.com/KirkDiggler/egg-brawl/internal/orchestrators/bot"
	botmock "github.com/KirkDiggler/egg-brawl/internal/orchestrators/bot/mock"
	"github.com/KirkDiggler/egg-brawl/internal/orchestrators/match"
	"github.com/KirkDiggler/egg-brawl/internal/pkg/clock"
	mockclock "github.com/KirkDiggler/egg-brawl/internal/pkg/clock/mock"
	"github.com/KirkDiggler/egg-brawl/internal/testutils"
	"github.com/KirkDiggler/egg-brawl/internal/testutils/builders"
)

type DriverTestSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	ctx           context.Context
	mockStrategy  *botmock.MockStrategy
	mockSubmitter *botmock.MockMoveSubmitter
	mockClock     *mockclock.MockClock
}

func (s *DriverTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.ctx = context.Background()
	s.mockStrategy = botmock.NewMockStrategy(s.ctrl)
	s.mockSubmitter = botmock.NewMockMoveSubmitter(s.ctrl)
	s.mockClock = mockclock.NewMockClock(s.ctrl)
}

func (s *DriverTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *DriverTestSuite) newDriver(delay time.Duration) *bot.Driver {
	d, err := bot.NewDriver(&bot.DriverConfig{
		MatchID:   testutils.TestMatchID,
		Self:      testutils.Bob,
		Strategy:  s.mockStrategy,
		Submitter: s.mockSubmitter,
		Clock:     s.mockClock,
		Delay:     delay,
	})
	s.Require().NoError(err)
	return d
}

func (s *DriverTestSuite) TestNewDriverValidation() {
	testCases := []struct {
		name   string
		config *bot.DriverConfig
	}{
		{name: "nil config"},
		{name: "missing everything", config: &bot.DriverConfig{}},
		{
			name: "negative delay",
			config: &bot.DriverConfig{
				MatchID: "m", Self: "b", Strategy: s.mockStrategy, Submitter: s.mockSubmitter,
				Clock: s.mockClock, Delay: -time.Second,
			},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			d, err := bot.NewDriver(tc.config)
			s.Error(err)
			s.Nil(d)
		})
	}
}

func (s *DriverTestSuite) TestPlayWaitsThenCommits() {
	snap := testutils.CreateTestSnapshot(testutils.Alice, testutils.Bob)
	snap.Round = 3

	fired := make(chan time.Time, 1)
	fired <- time.Unix(0, 0)

	gomock.InOrder(
		s.mockClock.EXPECT().After(500*time.Millisecond).Return((<-chan time.Time)(fired)),
		s.mockStrategy.EXPECT().
			Choose(gomock.Any(), &bot.ChooseInput{Self: testutils.Bob, Snapshot: snap}).
			Return(&bot.Choice{Move: entities.MoveEgg, Target: testutils.TargetOf(testutils.Alice)}, nil),
		s.mockSubmitter.EXPECT().
			CommitMove(gomock.Any(), &match.CommitMoveInput{
				MatchID:       testutils.TestMatchID,
				ParticipantID: testutils.Bob,
				Move:          entities.MoveEgg,
				TargetID:      testutils.TargetOf(testutils.Alice),
				Round:         3,
			}).
			Return(&match.CommitMoveOutput{Round: 3}, nil),
	)

	s.NoError(s.newDriver(500*time.Millisecond).Play(s.ctx, snap))
}

func (s *DriverTestSuite) TestPlayCanceledDuringDelay() {
	never := make(chan time.Time)
	s.mockClock.EXPECT().After(time.Second).Return((<-chan time.Time)(never))

	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	err := s.newDriver(time.Second).Play(ctx, testutils.CreateTestSnapshot(testutils.Alice, testutils.Bob))
	s.True(errors.IsCanceled(err))
}

func (s *DriverTestSuite) TestPlaySkipsWhenNothingToDo() {
	d := s.newDriver(0)

	over := testutils.CreateTestSnapshot(testutils.Alice, testutils.Bob)
	over.Over = true
	s.NoError(d.Play(s.ctx, over))

	dead := builders.NewMatchBuilder(testutils.TestMatchID).
		WithParticipants(
			builders.NewParticipantBuilder(testutils.Alice).Build(),
			builders.NewParticipantBuilder(testutils.Bob).Dead().Build(),
		).
		Snapshot()
	s.NoError(d.Play(s.ctx, dead))

	absent := testutils.CreateTestSnapshot(testutils.Alice, testutils.Carol)
	s.NoError(d.Play(s.ctx, absent))

	s.Error(d.Play(s.ctx, nil))
}

func (s *DriverTestSuite) TestPlayPropagatesRejection() {
	s.mockStrategy.EXPECT().Choose(gomock.Any(), gomock.Any()).Return(&bot.Choice{Move: entities.MoveBarrier}, nil)
	s.mockSubmitter.EXPECT().
		CommitMove(gomock.Any(), gomock.Any()).
		Return(nil, errors.Aborted("round closed"))

	err := s.newDriver(0).Play(s.ctx, testutils.CreateTestSnapshot(testutils.Alice, testutils.Bob))
	s.True(errors.IsAborted(err))
}

func (s *DriverTestSuite) TestObservePlaysEachRoundOnce() {
	snap := testutils.CreateTestSnapshot(testutils.Alice, testutils.Bob)
	d := s.newDriver(0)

	// not started yet, retried on the next snapshot of the same round
	gomock.InOrder(
		s.mockStrategy.EXPECT().Choose(gomock.Any(), gomock.Any()).Return(&bot.Choice{Move: entities.MoveBarrier}, nil),
		s.mockSubmitter.EXPECT().CommitMove(gomock.Any(), gomock.Any()).
			Return(nil, errors.FailedPrecondition("match has not started")),
		s.mockStrategy.EXPECT().Choose(gomock.Any(), gomock.Any()).Return(&bot.Choice{Move: entities.MoveBarrier}, nil),
		s.mockSubmitter.EXPECT().CommitMove(gomock.Any(), gomock.Any()).
			Return(&match.CommitMoveOutput{Round: 1}, nil),
	)

	s.NoError(d.Observe(s.ctx, snap))
	s.NoError(d.Observe(s.ctx, snap))

	// already played
	s.NoError(d.Observe(s.ctx, snap))
}

func (s *DriverTestSuite) TestObserveSurfacesOtherErrors() {
	s.mockStrategy.EXPECT().Choose(gomock.Any(), gomock.Any()).Return(&bot.Choice{Move: entities.MoveSausage}, nil)
	s.mockSubmitter.EXPECT().CommitMove(gomock.Any(), gomock.Any()).
		Return(nil, errors.MoveNotAllowed("sausage limit reached"))

	err := s.newDriver(0).Observe(s.ctx, testutils.CreateTestSnapshot(testutils.Alice, testutils.Bob))
	s.True(errors.IsMoveNotAllowed(err))
}

// TestBotPlaysFullMatch attaches a random bot to a live authority and plays
// the other side by hand until the match ends.
// capturingBus keeps the handlers it hands out so a test can deliver an
// event the way an in-flight publish would after the subscription is gone
type capturingBus struct {
	events.EventBus
	handlers map[string]events.HandlerFunc
}

func (b *capturingBus) SubscribeFunc(eventType string, priority int, fn events.HandlerFunc) string {
	b.handlers[eventType] = fn
	return b.EventBus.SubscribeFunc(eventType, priority, fn)
}

type matchEntity string

func (m matchEntity) GetID() string   { return string(m) }
func (m matchEntity) GetType() string { return entities.EntityTypeMatch }

func (s *DriverTestSuite) TestAttachIgnoresEventsAfterStop() {
	bus := &capturingBus{EventBus: events.NewBus(), handlers: map[string]events.HandlerFunc{}}
	driver := s.newDriver(0)

	stop := driver.Attach(s.ctx, bus)
	stop()

	handler, ok := bus.handlers[match.EventRoundResolved]
	s.Require().True(ok)

	snap := builders.NewMatchBuilder(testutils.TestMatchID).
		WithRound(2).
		WithParticipants(
			builders.NewParticipantBuilder(testutils.Alice).Build(),
			builders.NewParticipantBuilder(testutils.Bob).Build(),
		).
		Snapshot()
	ev := events.NewGameEvent(match.EventRoundResolved, matchEntity(testutils.TestMatchID), nil)
	ev.Context().Set(match.ContextKeySnapshot, snap)

	// the strategy has no expectations; a play started here fails the test
	s.Require().NoError(handler(s.ctx, ev))
	stop()
}

func (s *DriverTestSuite) TestBotPlaysFullMatch() {
	bus := events.NewBus()
	eng, err := engine.New(&engine.Config{})
	s.Require().NoError(err)

	authority, err := match.NewAuthority(&match.AuthorityConfig{
		MatchID:  testutils.TestMatchID,
		Engine:   eng,
		EventBus: bus,
		Participants: []match.JoinInput{
			{ParticipantID: testutils.Alice},
			{ParticipantID: testutils.Bob},
		},
	})
	s.Require().NoError(err)

	strat, err := bot.NewRandomStrategy(&bot.RandomConfig{Roller: &scriptedRoller{}})
	s.Require().NoError(err)

	driver, err := bot.NewDriver(&bot.DriverConfig{
		MatchID:   testutils.TestMatchID,
		Self:      testutils.Bob,
		Strategy:  strat,
		Submitter: authority,
		Clock:     clock.New(),
	})
	s.Require().NoError(err)

	stop := driver.Attach(s.ctx, bus)
	defer stop()

	s.Require().NoError(authority.Start(s.ctx))

	// the scripted roller always answers 1, so the bot attacks every round
	for round := 1; round <= entities.MaxHP; round++ {
		s.Eventually(func() bool {
			snap, err := authority.Snapshot(s.ctx)
			return err == nil && snap.Round == round
		}, time.Second, 5*time.Millisecond)

		s.Eventually(func() bool {
			_, err := authority.CommitMove(s.ctx, &match.CommitMoveInput{
				ParticipantID: testutils.Alice,
				Move:          entities.MoveBarrier,
				Round:         round,
			})
			return err == nil
		}, time.Second, 5*time.Millisecond)

		// the round resolves once both have committed
		s.Eventually(func() bool {
			snap, err := authority.Snapshot(s.ctx)
			return err == nil && snap.Round == round+1
		}, time.Second, 5*time.Millisecond)
	}

	snap, err := authority.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.True(snap.Over)
	s.Require().NotNil(snap.WinnerID)
	s.Equal(testutils.Bob, *snap.WinnerID)
}

func TestDriverSuite(t *testing.T) {
	suite.Run(t, new(DriverTestSuite))
}
