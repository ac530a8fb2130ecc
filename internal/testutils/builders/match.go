package builders

import (
	"github.com/KirkDiggler/egg-brawl/internal/entities"
)

// MatchBuilder provides a fluent interface for building test matches
type MatchBuilder struct {
	m *entities.Match
}

// NewMatchBuilder creates an authoritative match at round 1
func NewMatchBuilder(id string) *MatchBuilder {
	return &MatchBuilder{m: entities.NewMatch(id, true)}
}

// WithParticipants adds participants in join order
func (b *MatchBuilder) WithParticipants(ps ...*entities.Participant) *MatchBuilder {
	for _, p := range ps {
		b.m.Add(p.Clone())
	}
	return b
}

// WithRound sets the current round
func (b *MatchBuilder) WithRound(round int) *MatchBuilder {
	b.m.Round = round
	return b
}

// WithLog appends event log lines
func (b *MatchBuilder) WithLog(lines ...string) *MatchBuilder {
	b.m.Log(lines...)
	return b
}

// Build returns the match
func (b *MatchBuilder) Build() *entities.Match {
	return b.m
}

// Snapshot returns the match as a snapshot
func (b *MatchBuilder) Snapshot() *entities.Snapshot {
	return b.m.Snapshot()
}
