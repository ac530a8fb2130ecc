package match_test

import (
	"context"
	"testing"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/egg-brawl/internal/engine"
	"github.com/KirkDiggler/egg-brawl/internal/entities"
	"github.com/KirkDiggler/egg-brawl/internal/errors"
	"github.com/KirkDiggler/egg-brawl/internal/orchestrators/match"
	matchmock "github.com/KirkDiggler/egg-brawl/internal/orchestrators/match/mock"
	"github.com/KirkDiggler/egg-brawl/internal/testutils"
	"github.com/KirkDiggler/egg-brawl/internal/testutils/builders"
)

type ReplicaTestSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	ctx        context.Context
	bus        events.EventBus
	mockSender *matchmock.MockMoveSender
	recorder   *recorder
	replica    match.Replica
}

func (s *ReplicaTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.ctx = context.Background()
	s.bus = events.NewBus()
	s.mockSender = matchmock.NewMockMoveSender(s.ctrl)
	s.recorder = record(s.bus, testutils.TestMatchID)

	r, err := match.NewReplica(&match.ReplicaConfig{EventBus: s.bus, Sender: s.mockSender})
	s.Require().NoError(err)
	s.replica = r
}

func (s *ReplicaTestSuite) TearDownTest() {
	s.recorder.stop()
	s.ctrl.Finish()
}

func (s *ReplicaTestSuite) TestNewReplicaValidation() {
	_, err := match.NewReplica(&match.ReplicaConfig{EventBus: s.bus})
	s.Error(err)

	_, err = match.NewReplica(&match.ReplicaConfig{Sender: s.mockSender})
	s.Error(err)

	_, err = match.NewReplica(nil)
	s.Error(err)
}

func (s *ReplicaTestSuite) TestApplySnapshotReplacesState() {
	first := testutils.CreateTestSnapshot(testutils.Alice, testutils.Bob)
	s.Require().NoError(s.replica.ApplySnapshot(s.ctx, first))
	s.Equal([]string{match.EventMatchStarted}, s.recorder.types())

	next := first.Clone()
	next.Round = 2
	next.EventLog = []string{"alice used barrier", "bob used barrier"}
	next.Participants[0].MoveHistory = []entities.Move{entities.MoveBarrier}
	next.Participants[1].MoveHistory = []entities.Move{entities.MoveBarrier}
	s.recorder.reset()

	s.Require().NoError(s.replica.ApplySnapshot(s.ctx, next))
	s.Equal([]string{
		match.EventLogAppended,
		match.EventLogAppended,
		match.EventRoundResolved,
	}, s.recorder.types())
	s.Equal(next.EventLog, s.recorder.lines())

	got, err := s.replica.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.Equal(next, got)
	s.False(s.replica.NeedsResync())

	// later mutation of the applied message does not leak in
	next.Participants[0].Health = 1
	got, err = s.replica.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.Equal(entities.MaxHP, got.Participants[0].Health)
}

func (s *ReplicaTestSuite) TestStaleSnapshotIgnored() {
	snap := testutils.CreateTestSnapshot(testutils.Alice, testutils.Bob)
	snap.Round = 3
	s.Require().NoError(s.replica.ApplySnapshot(s.ctx, snap))
	s.recorder.reset()

	old := snap.Clone()
	old.Round = 2
	s.Require().NoError(s.replica.ApplySnapshot(s.ctx, old))
	s.Empty(s.recorder.types())

	got, err := s.replica.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.Equal(3, got.Round)
}

func (s *ReplicaTestSuite) TestMatchOverPublishedOnce() {
	snap := testutils.CreateTestSnapshot(testutils.Alice, testutils.Bob)
	s.Require().NoError(s.replica.ApplySnapshot(s.ctx, snap))

	over := snap.Clone()
	over.Round = 2
	over.Over = true
	over.WinnerID = testutils.TargetOf(testutils.Alice)
	over.Participants[1].Health = 0
	over.Participants[1].Alive = false
	over.EventLog = []string{"bob died"}

	s.Require().NoError(s.replica.ApplySnapshot(s.ctx, over))
	s.Require().NoError(s.replica.ApplySnapshot(s.ctx, over.Clone()))
	s.Equal(1, s.recorder.count(match.EventMatchOver))
}

func (s *ReplicaTestSuite) TestMalformedSnapshotRequiresResync() {
	s.Require().NoError(s.replica.ApplySnapshot(s.ctx, testutils.CreateTestSnapshot(testutils.Alice, testutils.Bob)))

	bad := testutils.CreateTestSnapshot(testutils.Alice, testutils.Bob)
	bad.Participants[0].Health = -2

	err := s.replica.ApplySnapshot(s.ctx, bad)
	s.True(errors.IsMalformedSnapshot(err))
	s.True(s.replica.NeedsResync())

	_, err = s.replica.Snapshot(s.ctx)
	s.True(errors.IsFailedPrecondition(err))

	_, err = s.replica.CommitMove(s.ctx, &match.CommitMoveInput{ParticipantID: testutils.Alice, Move: entities.MoveBarrier})
	s.True(errors.IsFailedPrecondition(err))

	s.Require().NoError(s.replica.ApplySnapshot(s.ctx, testutils.CreateTestSnapshot(testutils.Alice, testutils.Bob)))
	s.False(s.replica.NeedsResync())
}

func (s *ReplicaTestSuite) TestApplySnapshotJSON() {
	testCases := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{
			name: "valid",
			data: `{"matchId":"match_test_001","round":1,"over":false,"eventLog":[],"participants":[
				{"id":"alice","displayName":"Alice","health":5,"statusEffects":[],"moveHistory":["egg"],"alive":true},
				{"id":"bob","displayName":"Bob","health":4,"statusEffects":[{"turnsRemaining":1,"reflected":false}],"moveHistory":["attack"],"alive":true}]}`,
		},
		{name: "truncated", data: `{"matchId":"m","round":1`, wantErr: true},
		{name: "unknown field", data: `{"matchId":"m","round":1,"over":false,"eventLog":[],"participants":[],"cheat":true}`, wantErr: true},
		{
			name: "unknown move",
			data: `{"matchId":"m","round":1,"over":false,"eventLog":[],"participants":[
				{"id":"a","displayName":"A","health":5,"statusEffects":[],"moveHistory":["fireball"],"alive":true}]}`,
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := s.replica.ApplySnapshotJSON(s.ctx, []byte(tc.data))
			if tc.wantErr {
				s.True(errors.IsMalformedSnapshot(err), "unexpected error %v", err)
				s.True(s.replica.NeedsResync())
				return
			}
			s.Require().NoError(err)
			s.False(s.replica.NeedsResync())

			got, err := s.replica.Snapshot(s.ctx)
			s.Require().NoError(err)
			bob, ok := got.Participant(testutils.Bob)
			s.Require().True(ok)
			s.Equal(4, bob.Health)
			s.Len(bob.StatusEffects, 1)
		})
	}
}

func (s *ReplicaTestSuite) TestCommitForwardsToSender() {
	s.Require().NoError(s.replica.ApplySnapshot(s.ctx, testutils.CreateTestSnapshot(testutils.Alice, testutils.Bob)))

	s.mockSender.EXPECT().
		CommitMove(s.ctx, &match.CommitMoveInput{
			MatchID:       testutils.TestMatchID,
			ParticipantID: testutils.Alice,
			Move:          entities.MoveAttack,
			Round:         1,
		}).
		Return(&match.CommitMoveOutput{Round: 1, TargetID: testutils.TargetOf(testutils.Bob)}, nil)

	out, err := s.replica.CommitMove(s.ctx, &match.CommitMoveInput{ParticipantID: testutils.Alice, Move: entities.MoveAttack})
	s.Require().NoError(err)
	s.Equal(testutils.Bob, *out.TargetID)

	// nothing resolves locally
	got, err := s.replica.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, got.Round)
}

func (s *ReplicaTestSuite) TestCommitValidatedLocally() {
	snap := builders.NewMatchBuilder(testutils.TestMatchID).
		WithParticipants(
			builders.NewParticipantBuilder(testutils.Alice).WithHistory(entities.MoveSausage, entities.MoveSausage).Build(),
			builders.NewParticipantBuilder(testutils.Bob).Build(),
			builders.NewParticipantBuilder(testutils.Carol).Dead().Build(),
		).
		Snapshot()
	s.Require().NoError(s.replica.ApplySnapshot(s.ctx, snap))

	testCases := []struct {
		name  string
		input *match.CommitMoveInput
		check func(error) bool
	}{
		{
			name:  "sausage limit",
			input: &match.CommitMoveInput{ParticipantID: testutils.Alice, Move: entities.MoveSausage},
			check: errors.IsMoveNotAllowed,
		},
		{
			name:  "dead actor",
			input: &match.CommitMoveInput{ParticipantID: testutils.Carol, Move: entities.MoveBarrier},
			check: errors.IsInvalidParticipant,
		},
		{
			name: "dead target",
			input: &match.CommitMoveInput{
				ParticipantID: testutils.Bob, Move: entities.MoveEgg, TargetID: testutils.TargetOf(testutils.Carol),
			},
			check: errors.IsInvalidParticipant,
		},
		{
			name:  "stale round",
			input: &match.CommitMoveInput{ParticipantID: testutils.Bob, Move: entities.MoveBarrier, Round: 4},
			check: errors.IsAborted,
		},
		{
			name:  "unknown move",
			input: &match.CommitMoveInput{ParticipantID: testutils.Bob},
			check: errors.IsInvalidArgument,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.replica.CommitMove(s.ctx, tc.input)
			s.True(tc.check(err), "unexpected error %v", err)
		})
	}
}

func (s *ReplicaTestSuite) TestResync() {
	source := &stubSource{snap: testutils.CreateTestSnapshot(testutils.Alice, testutils.Bob)}
	r, err := match.NewReplica(&match.ReplicaConfig{EventBus: s.bus, Sender: s.mockSender, Source: source})
	s.Require().NoError(err)

	err = r.ApplySnapshotJSON(s.ctx, []byte("garbage"))
	s.True(errors.IsMalformedSnapshot(err))
	s.True(r.NeedsResync())

	s.Require().NoError(r.Resync(s.ctx, testutils.TestMatchID))
	s.False(r.NeedsResync())

	got, err := r.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.Equal(source.snap, got)

	err = r.Resync(s.ctx, "elsewhere")
	s.True(errors.IsNotFound(err))

	err = s.replica.Resync(s.ctx, testutils.TestMatchID)
	s.True(errors.IsFailedPrecondition(err))
}

func TestReplicaSuite(t *testing.T) {
	suite.Run(t, new(ReplicaTestSuite))
}

type stubSource struct {
	snap *entities.Snapshot
}

func (s *stubSource) GetSnapshot(_ context.Context, matchID string) (*entities.Snapshot, error) {
	if matchID != s.snap.MatchID {
		return nil, errors.NotFoundf("match %s not found", matchID)
	}
	return s.snap.Clone(), nil
}

// TestReplicaFollowsAuthority wires a replica to an authority through the bus
// and checks that both hold the same state after every round.
func TestReplicaFollowsAuthority(t *testing.T) {
	ctx := context.Background()
	bus := events.NewBus()

	eng, err := engine.New(&engine.Config{})
	require.NoError(t, err)

	authority, err := match.NewAuthority(&match.AuthorityConfig{
		MatchID:  testutils.TestMatchID,
		Engine:   eng,
		EventBus: bus,
		Participants: []match.JoinInput{
			{ParticipantID: testutils.Alice},
			{ParticipantID: testutils.Bob},
		},
	})
	require.NoError(t, err)

	replica, err := match.NewReplica(&match.ReplicaConfig{EventBus: events.NewBus(), Sender: authority})
	require.NoError(t, err)

	stop := match.Subscribe(bus, testutils.TestMatchID, func(ctx context.Context, n *match.Notification) error {
		return replica.ApplySnapshot(ctx, n.Snapshot)
	})
	defer stop()

	require.NoError(t, authority.Start(ctx))

	rounds := [][2]entities.Move{
		{entities.MoveEgg, entities.MoveAttack},
		{entities.MoveSausage, entities.MoveAttack},
		{entities.MoveAttack, entities.MoveBarrier},
	}
	for _, moves := range rounds {
		_, err := replica.CommitMove(ctx, &match.CommitMoveInput{ParticipantID: testutils.Alice, Move: moves[0]})
		require.NoError(t, err)
		_, err = replica.CommitMove(ctx, &match.CommitMoveInput{ParticipantID: testutils.Bob, Move: moves[1]})
		require.NoError(t, err)

		want, err := authority.Snapshot(ctx)
		require.NoError(t, err)
		got, err := replica.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	final, err := replica.Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, final.Over)
	require.NotNil(t, final.WinnerID)
	assert.Equal(t, testutils.Alice, *final.WinnerID)
}
