package bot_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/egg-brawl/internal/entities"
	"github.com/KirkDiggler/egg-brawl/internal/errors"
	"github.com/KirkDiggler/egg-brawl/internal/orchestrators/bot"
	"github.com/KirkDiggler/egg-brawl/internal/testutils"
	"github.com/KirkDiggler/egg-brawl/internal/testutils/builders"
)

const cautiousScript = `
function choose(state)
  if #state.effects > 0 then
    for _, m in ipairs(state.allowed) do
      if m == "sausage" then
        return "sausage"
      end
    end
    return "barrier"
  end

  local weakest = nil
  for _, o in ipairs(state.opponents) do
    if weakest == nil or o.health < weakest.health then
      weakest = o
    end
  end
  if weakest.health <= 1 then
    return "attack", weakest.id
  end
  return "egg", weakest.id
end
`

type LuaStrategyTestSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *LuaStrategyTestSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *LuaStrategyTestSuite) newStrategy(src string) *bot.LuaStrategy {
	strat, err := bot.NewLuaStrategy(&bot.LuaConfig{Name: "test.lua", Source: src})
	s.Require().NoError(err)
	s.T().Cleanup(strat.Close)
	return strat
}

func (s *LuaStrategyTestSuite) TestLoadErrors() {
	testCases := []struct {
		name   string
		config *bot.LuaConfig
	}{
		{name: "nil config"},
		{name: "empty source", config: &bot.LuaConfig{}},
		{name: "syntax error", config: &bot.LuaConfig{Source: "function choose("}},
		{name: "no choose", config: &bot.LuaConfig{Source: "x = 1"}},
		{name: "sandboxed os", config: &bot.LuaConfig{Source: "os.exit(1)"}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			strat, err := bot.NewLuaStrategy(tc.config)
			s.Error(err)
			s.Nil(strat)
		})
	}
}

func (s *LuaStrategyTestSuite) TestTargetsWeakestOpponent() {
	strat := s.newStrategy(cautiousScript)

	snap := builders.NewMatchBuilder(testutils.TestMatchID).
		WithParticipants(
			builders.NewParticipantBuilder(testutils.Alice).Build(),
			builders.NewParticipantBuilder(testutils.Bob).WithHealth(4).Build(),
			builders.NewParticipantBuilder(testutils.Carol).WithHealth(2).Build(),
		).
		Snapshot()

	choice, err := strat.Choose(s.ctx, &bot.ChooseInput{Self: testutils.Alice, Snapshot: snap})
	s.Require().NoError(err)
	s.Equal(entities.MoveEgg, choice.Move)
	s.Require().NotNil(choice.Target)
	s.Equal(testutils.Carol, *choice.Target)

	snap.Participants[2].Health = 1
	choice, err = strat.Choose(s.ctx, &bot.ChooseInput{Self: testutils.Alice, Snapshot: snap})
	s.Require().NoError(err)
	s.Equal(entities.MoveAttack, choice.Move)
}

func (s *LuaStrategyTestSuite) TestSeesEffectsAndGuard() {
	strat := s.newStrategy(cautiousScript)

	carrier := builders.NewParticipantBuilder(testutils.Alice).WithEgg(1)
	bob := builders.NewParticipantBuilder(testutils.Bob).Build()

	snap := builders.NewMatchBuilder(testutils.TestMatchID).WithParticipants(carrier.Build(), bob).Snapshot()
	choice, err := strat.Choose(s.ctx, &bot.ChooseInput{Self: testutils.Alice, Snapshot: snap})
	s.Require().NoError(err)
	s.Equal(entities.MoveSausage, choice.Move)
	s.Nil(choice.Target)

	carrier.WithHistory(entities.MoveSausage, entities.MoveSausage)
	snap = builders.NewMatchBuilder(testutils.TestMatchID).WithParticipants(carrier.Build(), bob).Snapshot()
	choice, err = strat.Choose(s.ctx, &bot.ChooseInput{Self: testutils.Alice, Snapshot: snap})
	s.Require().NoError(err)
	s.Equal(entities.MoveBarrier, choice.Move)
}

func (s *LuaStrategyTestSuite) TestUnusableAnswersFallBackToBarrier() {
	testCases := []struct {
		name   string
		source string
	}{
		{name: "unknown move", source: `function choose(state) return "fireball" end`},
		{name: "nothing", source: `function choose(state) end`},
		{name: "unknown target", source: `function choose(state) return "egg", "mallory" end`},
		{name: "self target", source: `function choose(state) return "attack", state.self end`},
		{name: "guarded move", source: `function choose(state) return "sausage" end`},
	}

	snap := builders.NewMatchBuilder(testutils.TestMatchID).
		WithParticipants(
			builders.NewParticipantBuilder(testutils.Alice).WithHistory(entities.MoveSausage, entities.MoveSausage).Build(),
			builders.NewParticipantBuilder(testutils.Bob).Build(),
		).
		Snapshot()

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			choice, err := s.newStrategy(tc.source).Choose(s.ctx, &bot.ChooseInput{Self: testutils.Alice, Snapshot: snap})
			s.Require().NoError(err)
			s.Equal(entities.MoveBarrier, choice.Move)
			s.Nil(choice.Target)
		})
	}
}

func (s *LuaStrategyTestSuite) TestMissingTargetPicksFirstOpponent() {
	strat := s.newStrategy(`function choose(state) return "attack" end`)

	choice, err := strat.Choose(s.ctx, &bot.ChooseInput{
		Self:     testutils.Bob,
		Snapshot: testutils.CreateTestSnapshot(testutils.Alice, testutils.Bob, testutils.Carol),
	})
	s.Require().NoError(err)
	s.Equal(testutils.Alice, *choice.Target)
}

func (s *LuaStrategyTestSuite) TestRuntimeError() {
	strat := s.newStrategy(`function choose(state) error("boom") end`)

	_, err := strat.Choose(s.ctx, &bot.ChooseInput{
		Self:     testutils.Alice,
		Snapshot: testutils.CreateTestSnapshot(testutils.Alice, testutils.Bob),
	})
	s.Error(err)
	s.Contains(err.Error(), "test.lua")
}

func (s *LuaStrategyTestSuite) TestHonorsCancellation() {
	strat := s.newStrategy(`function choose(state) while true do end end`)

	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := strat.Choose(ctx, &bot.ChooseInput{
		Self:     testutils.Alice,
		Snapshot: testutils.CreateTestSnapshot(testutils.Alice, testutils.Bob),
	})
	s.Error(err)
	s.False(errors.IsMalformedSnapshot(err))
}

func TestLuaStrategySuite(t *testing.T) {
	suite.Run(t, new(LuaStrategyTestSuite))
}
