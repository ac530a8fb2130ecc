// Package engine resolves rounds of simultaneous moves
package engine

//go:generate mockgen -destination=mock/mock_engine.go -package=enginemock github.com/KirkDiggler/egg-brawl/internal/engine Engine

import (
	"context"
)

// Engine turns a set of committed moves into the post-round state.
// Implementations must be pure over their input: nothing passed in is mutated.
type Engine interface {
	// Resolve runs every phase of a round against a snapshot of the living participants
	Resolve(ctx context.Context, input *ResolveInput) (*ResolveOutput, error)
}
