package match_test

import (
	"context"
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/egg-brawl/internal/engine"
	"github.com/KirkDiggler/egg-brawl/internal/errors"
	"github.com/KirkDiggler/egg-brawl/internal/orchestrators/match"
	mockclock "github.com/KirkDiggler/egg-brawl/internal/pkg/clock/mock"
	"github.com/KirkDiggler/egg-brawl/internal/pkg/idgen"
	"github.com/KirkDiggler/egg-brawl/internal/repositories/snapshots"
	"github.com/KirkDiggler/egg-brawl/internal/testutils"
)

type RegistryTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	ctx      context.Context
	repo     snapshots.Repository
	registry match.Registry
}

func (s *RegistryTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.ctx = context.Background()

	eng, err := engine.New(&engine.Config{})
	s.Require().NoError(err)

	clk := mockclock.NewMockClock(s.ctrl)
	clk.EXPECT().Now().Return(time.Unix(0, 0)).AnyTimes()
	s.repo, err = snapshots.NewInMemoryRepository(&snapshots.InMemoryConfig{Clock: clk})
	s.Require().NoError(err)

	s.registry, err = match.NewRegistry(&match.RegistryConfig{
		Engine:       eng,
		EventBus:     events.NewBus(),
		IDGenerator:  idgen.NewSequential("match"),
		SnapshotRepo: s.repo,
		AutoStartAt:  2,
	})
	s.Require().NoError(err)
}

func (s *RegistryTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *RegistryTestSuite) TestNewRegistryValidation() {
	_, err := match.NewRegistry(&match.RegistryConfig{})
	s.Error(err)

	_, err = match.NewRegistry(nil)
	s.Error(err)
}

func (s *RegistryTestSuite) TestCreateGeneratesID() {
	out, err := s.registry.Create(s.ctx, &match.CreateInput{})
	s.Require().NoError(err)
	s.Equal("match_1", out.Authority.ID())

	got, err := s.registry.Get(s.ctx, "match_1")
	s.Require().NoError(err)
	s.Same(out.Authority, got)
}

func (s *RegistryTestSuite) TestCreateDuplicate() {
	_, err := s.registry.Create(s.ctx, &match.CreateInput{MatchID: testutils.TestMatchID})
	s.Require().NoError(err)

	_, err = s.registry.Create(s.ctx, &match.CreateInput{MatchID: testutils.TestMatchID})
	s.True(errors.IsAlreadyExists(err))
}

func (s *RegistryTestSuite) TestCreateWithParticipantsAutoStarts() {
	out, err := s.registry.Create(s.ctx, &match.CreateInput{
		Participants: []match.JoinInput{{ParticipantID: testutils.Alice}},
	})
	s.Require().NoError(err)

	joined, err := out.Authority.Join(s.ctx, &match.JoinInput{ParticipantID: testutils.Bob})
	s.Require().NoError(err)
	s.True(joined.Started)

	stored, err := s.repo.Get(s.ctx, snapshots.GetInput{MatchID: out.Authority.ID()})
	s.Require().NoError(err)
	s.Len(stored.Record.Snapshot.Participants, 2)
}

func (s *RegistryTestSuite) TestGetOrCreate() {
	first, err := s.registry.GetOrCreate(s.ctx, testutils.TestMatchID)
	s.Require().NoError(err)

	second, err := s.registry.GetOrCreate(s.ctx, testutils.TestMatchID)
	s.Require().NoError(err)
	s.Same(first, second)

	_, err = s.registry.GetOrCreate(s.ctx, "")
	s.True(errors.IsInvalidArgument(err))
}

func (s *RegistryTestSuite) TestRemove() {
	out, err := s.registry.Create(s.ctx, &match.CreateInput{
		MatchID:      testutils.TestMatchID,
		Participants: []match.JoinInput{{ParticipantID: testutils.Alice}, {ParticipantID: testutils.Bob}},
	})
	s.Require().NoError(err)
	s.Require().NoError(out.Authority.Start(s.ctx))

	s.Require().NoError(s.registry.Remove(s.ctx, testutils.TestMatchID))

	_, err = s.registry.Get(s.ctx, testutils.TestMatchID)
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Get(s.ctx, snapshots.GetInput{MatchID: testutils.TestMatchID})
	s.True(errors.IsNotFound(err))

	err = s.registry.Remove(s.ctx, testutils.TestMatchID)
	s.True(errors.IsNotFound(err))
}

func (s *RegistryTestSuite) TestList() {
	s.Empty(s.registry.List(s.ctx))

	for _, id := range []string{"b", "c", "a"} {
		_, err := s.registry.Create(s.ctx, &match.CreateInput{MatchID: id})
		s.Require().NoError(err)
	}
	s.Equal([]string{"a", "b", "c"}, s.registry.List(s.ctx))
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}
