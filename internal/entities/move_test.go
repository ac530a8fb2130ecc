package entities_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/egg-brawl/internal/entities"
)

func TestParseMove(t *testing.T) {
	for _, m := range entities.AllMoves {
		parsed, err := entities.ParseMove(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}

	parsed, err := entities.ParseMove("  Barrier ")
	require.NoError(t, err)
	assert.Equal(t, entities.MoveBarrier, parsed)

	_, err = entities.ParseMove("fireball")
	assert.Error(t, err)
}

func TestMoveNeedsTarget(t *testing.T) {
	assert.True(t, entities.MoveAttack.NeedsTarget())
	assert.True(t, entities.MoveEgg.NeedsTarget())
	assert.False(t, entities.MoveSausage.NeedsTarget())
	assert.False(t, entities.MoveBarrier.NeedsTarget())
}

func TestMoveJSON(t *testing.T) {
	data, err := json.Marshal([]entities.Move{entities.MoveEgg, entities.MoveSausage})
	require.NoError(t, err)
	assert.JSONEq(t, `["egg","sausage"]`, string(data))

	var moves []entities.Move
	require.NoError(t, json.Unmarshal([]byte(`["attack","barrier"]`), &moves))
	assert.Equal(t, []entities.Move{entities.MoveAttack, entities.MoveBarrier}, moves)

	_, err = json.Marshal(entities.Move(42))
	assert.Error(t, err)
	assert.Equal(t, "move(42)", entities.Move(42).String())
}

func TestMoveNames(t *testing.T) {
	assert.Equal(t, []string{"attack", "egg", "sausage", "barrier"}, entities.MoveNames())
}
