package idgen_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/egg-brawl/internal/pkg/idgen"
)

func TestSequentialGenerator(t *testing.T) {
	gen := idgen.NewSequential("match")
	assert.Equal(t, "match_1", gen.Generate())
	assert.Equal(t, "match_2", gen.Generate())

	bare := idgen.NewSequential("")
	assert.Equal(t, "1", bare.Generate())
}

func TestUUIDGenerator(t *testing.T) {
	gen := idgen.NewUUID("match")
	id := gen.Generate()
	require.True(t, strings.HasPrefix(id, "match_"))

	_, err := uuid.Parse(strings.TrimPrefix(id, "match_"))
	assert.NoError(t, err)
	assert.NotEqual(t, id, gen.Generate())
}
