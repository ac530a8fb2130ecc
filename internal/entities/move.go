package entities

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/egg-brawl/internal/errors"
)

// Move is one of the four actions a participant can commit in a round
type Move int

// Moves
const (
	MoveAttack Move = iota + 1
	MoveEgg
	MoveSausage
	MoveBarrier
)

// AllMoves lists every move in a stable order
var AllMoves = []Move{MoveAttack, MoveEgg, MoveSausage, MoveBarrier}

var moveNames = map[Move]string{
	MoveAttack:  "attack",
	MoveEgg:     "egg",
	MoveSausage: "sausage",
	MoveBarrier: "barrier",
}

// MoveNames returns the wire names of all moves
func MoveNames() []string {
	names := make([]string, 0, len(AllMoves))
	for _, m := range AllMoves {
		names = append(names, moveNames[m])
	}
	return names
}

// String returns the wire name of the move
func (m Move) String() string {
	if name, ok := moveNames[m]; ok {
		return name
	}
	return fmt.Sprintf("move(%d)", int(m))
}

// Valid reports whether m is one of the defined moves
func (m Move) Valid() bool {
	_, ok := moveNames[m]
	return ok
}

// NeedsTarget reports whether the move acts on another participant
func (m Move) NeedsTarget() bool {
	return m == MoveAttack || m == MoveEgg
}

// ParseMove converts a wire name into a Move
func ParseMove(s string) (Move, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for m, n := range moveNames {
		if n == name {
			return m, nil
		}
	}
	return 0, errors.InvalidArgumentf("unknown move %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (m Move) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, errors.InvalidArgumentf("unknown move %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *Move) UnmarshalText(text []byte) error {
	parsed, err := ParseMove(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
