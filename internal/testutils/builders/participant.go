// Package builders provides test data builders for creating test fixtures
package builders

import (
	"github.com/KirkDiggler/egg-brawl/internal/entities"
)

// ParticipantBuilder provides a fluent interface for building test participants
type ParticipantBuilder struct {
	p *entities.Participant
}

// NewParticipantBuilder starts from a full-health participant with no effects
func NewParticipantBuilder(id entities.ParticipantID) *ParticipantBuilder {
	return &ParticipantBuilder{p: entities.NewParticipant(id, string(id))}
}

// WithDisplayName sets the display name
func (b *ParticipantBuilder) WithDisplayName(name string) *ParticipantBuilder {
	b.p.DisplayName = name
	return b
}

// WithHealth sets health, killing the participant at 0
func (b *ParticipantBuilder) WithHealth(health int) *ParticipantBuilder {
	b.p.Health = health
	b.p.Alive = health > 0
	return b
}

// WithEgg adds an egg with the given timer
func (b *ParticipantBuilder) WithEgg(turnsRemaining int) *ParticipantBuilder {
	b.p.StatusEffects = append(b.p.StatusEffects, entities.StatusEffect{TurnsRemaining: turnsRemaining})
	return b
}

// WithReflectedEgg adds an uncurable egg with the given timer
func (b *ParticipantBuilder) WithReflectedEgg(turnsRemaining int) *ParticipantBuilder {
	b.p.StatusEffects = append(b.p.StatusEffects, entities.StatusEffect{
		TurnsRemaining: turnsRemaining,
		Reflected:      true,
	})
	return b
}

// WithHistory sets the move history
func (b *ParticipantBuilder) WithHistory(moves ...entities.Move) *ParticipantBuilder {
	b.p.MoveHistory = append([]entities.Move{}, moves...)
	return b
}

// Dead marks the participant as dead
func (b *ParticipantBuilder) Dead() *ParticipantBuilder {
	b.p.Kill()
	return b
}

// Build returns the participant
func (b *ParticipantBuilder) Build() *entities.Participant {
	return b.p.Clone()
}
