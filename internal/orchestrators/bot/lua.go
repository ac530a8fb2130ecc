package bot

import (
	"context"
	"log/slog"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/KirkDiggler/egg-brawl/internal/entities"
	"github.com/KirkDiggler/egg-brawl/internal/errors"
)

// LuaChooseFunc is the global a script must define.
// It receives the state table and returns a move name and an optional target ID.
const LuaChooseFunc = "choose"

// LuaConfig holds the script for a Lua strategy
type LuaConfig struct {
	// Name labels the script in logs and errors
	Name   string
	Source string
}

// Validate ensures the script is present
func (c *LuaConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("Source", c.Source, vb)
	return vb.Build()
}

// LuaStrategy runs a script in a sandbox with only the base, table, string
// and math libraries. An LState is single threaded, so calls are serialized.
type LuaStrategy struct {
	name string

	mu sync.Mutex
	L  *lua.LState
	fn lua.LValue
}

// NewLuaStrategy compiles the script and checks that it defines choose(state)
func NewLuaStrategy(cfg *LuaConfig) (*LuaStrategy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	name := cfg.Name
	if name == "" {
		name = "script"
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := L.CallByParam(lua.P{Fn: L.NewFunction(lib.open), NRet: 0, Protect: true}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, errors.Wrapf(err, "failed to open lua library %s", lib.name)
		}
	}

	if err := L.DoString(cfg.Source); err != nil {
		L.Close()
		return nil, errors.WrapWithCodef(err, errors.CodeInvalidArgument, "failed to load %s", name)
	}

	fn := L.GetGlobal(LuaChooseFunc)
	if fn.Type() != lua.LTFunction {
		L.Close()
		return nil, errors.InvalidArgumentf("%s does not define %s(state)", name, LuaChooseFunc)
	}

	return &LuaStrategy{name: name, L: L, fn: fn}, nil
}

func (s *LuaStrategy) Choose(ctx context.Context, input *ChooseInput) (*Choice, error) {
	self, err := selfOf(input)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	state := s.stateTable(input, self)
	if err := s.L.CallByParam(lua.P{Fn: s.fn, NRet: 2, Protect: true}, state); err != nil {
		return nil, errors.Wrapf(err, "%s failed", s.name)
	}

	rawMove := s.L.Get(-2)
	rawTarget := s.L.Get(-1)
	s.L.Pop(2)

	choice := s.toChoice(input, self, rawMove, rawTarget)
	slog.Debug("Lua strategy chose",
		"script", s.name,
		"participant_id", input.Self,
		"move", choice.Move.String(),
	)
	return choice, nil
}

// toChoice turns the script's answer into a legal choice. Anything the
// guard or the target rules would refuse becomes a Barrier.
func (s *LuaStrategy) toChoice(
	input *ChooseInput, self *entities.ParticipantSnapshot, rawMove, rawTarget lua.LValue,
) *Choice {
	fallback := &Choice{Move: entities.MoveBarrier}

	move, err := entities.ParseMove(lua.LVAsString(rawMove))
	if err != nil || !(&entities.Participant{MoveHistory: self.MoveHistory}).CanUseMove(move) {
		slog.Warn("Lua strategy returned an unusable move",
			"script", s.name,
			"move", rawMove.String(),
		)
		return fallback
	}

	choice := &Choice{Move: move}
	if !move.NeedsTarget() {
		return choice
	}

	opps := opponents(input.Snapshot, input.Self)
	if rawTarget == lua.LNil {
		if len(opps) == 0 {
			return fallback
		}
		choice.Target = &opps[0]
		return choice
	}

	want := entities.ParticipantID(lua.LVAsString(rawTarget))
	for _, id := range opps {
		if id == want {
			choice.Target = &want
			return choice
		}
	}

	slog.Warn("Lua strategy returned an unusable target",
		"script", s.name,
		"target", string(want),
	)
	return fallback
}

func (s *LuaStrategy) stateTable(input *ChooseInput, self *entities.ParticipantSnapshot) *lua.LTable {
	L := s.L

	state := L.NewTable()
	state.RawSetString("self", lua.LString(self.ID))
	state.RawSetString("health", lua.LNumber(self.Health))
	state.RawSetString("round", lua.LNumber(input.Snapshot.Round))
	state.RawSetString("effects", effectsTable(L, self.StatusEffects))

	history := L.NewTable()
	for _, m := range self.MoveHistory {
		history.Append(lua.LString(m.String()))
	}
	state.RawSetString("history", history)

	allowed := L.NewTable()
	for _, m := range allowedMoves(self) {
		allowed.Append(lua.LString(m.String()))
	}
	state.RawSetString("allowed", allowed)

	opps := L.NewTable()
	for _, id := range opponents(input.Snapshot, input.Self) {
		p, _ := input.Snapshot.Participant(id)
		o := L.NewTable()
		o.RawSetString("id", lua.LString(p.ID))
		o.RawSetString("health", lua.LNumber(p.Health))
		o.RawSetString("effects", effectsTable(L, p.StatusEffects))
		opps.Append(o)
	}
	state.RawSetString("opponents", opps)

	return state
}

func effectsTable(L *lua.LState, effects []entities.StatusEffect) *lua.LTable {
	t := L.NewTable()
	for _, e := range effects {
		et := L.NewTable()
		et.RawSetString("turnsRemaining", lua.LNumber(e.TurnsRemaining))
		et.RawSetString("reflected", lua.LBool(e.Reflected))
		t.Append(et)
	}
	return t
}

// Close releases the interpreter. The strategy must not be used afterwards.
func (s *LuaStrategy) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.L.Close()
}
