package entities

import (
	"github.com/KirkDiggler/rpg-toolkit/core"
)

// ParticipantID identifies a participant within a match
type ParticipantID string

// String returns the raw identifier
func (id ParticipantID) String() string {
	return string(id)
}

// EntityTypeParticipant is the core.Entity type reported by participants
const EntityTypeParticipant = "participant"

// Participant is the per-match record of one combatant.
// Only the match orchestrator mutates it; everything else works on clones.
type Participant struct {
	ID            ParticipantID
	DisplayName   string
	Health        int
	StatusEffects []StatusEffect
	MoveHistory   []Move
	Alive         bool
	PendingMove   *Move
	PendingTarget *ParticipantID
}

var _ core.Entity = (*Participant)(nil)

// NewParticipant returns a participant at full health
func NewParticipant(id ParticipantID, displayName string) *Participant {
	if displayName == "" {
		displayName = string(id)
	}
	return &Participant{
		ID:          id,
		DisplayName: displayName,
		Health:      MaxHP,
		Alive:       true,
	}
}

// GetID returns the participant ID
func (p *Participant) GetID() string {
	return string(p.ID)
}

// GetType returns the entity type for rpg-toolkit
func (p *Participant) GetType() string {
	return EntityTypeParticipant
}

// IsAlive reports whether the participant is still in play
func (p *Participant) IsAlive() bool {
	return p.Alive && p.Health > 0
}

// HasEffects reports whether the participant holds at least one egg
func (p *Participant) HasEffects() bool {
	return len(p.StatusEffects) > 0
}

// HasCommitted reports whether a move is pending for the open round
func (p *Participant) HasCommitted() bool {
	return p.PendingMove != nil
}

// CanUseMove applies the limited-use guard. Sausage is refused when each of the
// last SausageLimit moves was a Sausage.
func (p *Participant) CanUseMove(m Move) bool {
	if !m.Valid() {
		return false
	}
	if m != MoveSausage {
		return true
	}
	if len(p.MoveHistory) < SausageLimit {
		return true
	}
	for _, prev := range p.MoveHistory[len(p.MoveHistory)-SausageLimit:] {
		if prev != MoveSausage {
			return true
		}
	}
	return false
}

// AllowedMoves returns the moves the guard currently permits
func (p *Participant) AllowedMoves() []Move {
	allowed := make([]Move, 0, len(AllMoves))
	for _, m := range AllMoves {
		if p.CanUseMove(m) {
			allowed = append(allowed, m)
		}
	}
	return allowed
}

// ApplyEgg adds a fresh egg. Stacking rules are decided by the resolver before this is called.
func (p *Participant) ApplyEgg(reflected bool) {
	p.StatusEffects = append(p.StatusEffects, NewEgg(reflected))
}

// Tick decrements every egg timer and reports whether one exploded.
// An explosion kills the participant. With no effects this is a no-op.
func (p *Participant) Tick() bool {
	if len(p.StatusEffects) == 0 {
		return false
	}

	exploded := false
	for i := range p.StatusEffects {
		p.StatusEffects[i].TurnsRemaining--
		if p.StatusEffects[i].Exploded() {
			exploded = true
		}
	}

	if exploded {
		p.Kill()
	}
	return exploded
}

// TryCure removes every curable egg and reports whether any was removed.
// Eggs applied this round are never removed; reflected eggs stay unless curableOnly is false.
func (p *Participant) TryCure(curableOnly bool) bool {
	if len(p.StatusEffects) == 0 {
		return false
	}

	kept := p.StatusEffects[:0]
	removed := false
	for _, e := range p.StatusEffects {
		if e.Curable(curableOnly) {
			removed = true
			continue
		}
		kept = append(kept, e)
	}

	if len(kept) == 0 {
		p.StatusEffects = nil
	} else {
		p.StatusEffects = kept
	}
	return removed
}

// TakeDamage lowers health, never below zero
func (p *Participant) TakeDamage(amount int) {
	p.Health -= amount
	if p.Health < 0 {
		p.Health = 0
	}
}

// Kill forces health to zero and marks the participant dead
func (p *Participant) Kill() {
	p.Health = 0
	p.Alive = false
}

// Commit records a pending move and target
func (p *Participant) Commit(m Move, target *ParticipantID) {
	move := m
	p.PendingMove = &move
	if target != nil {
		t := *target
		p.PendingTarget = &t
	} else {
		p.PendingTarget = nil
	}
}

// ClearPending empties the pending move slot
func (p *Participant) ClearPending() {
	p.PendingMove = nil
	p.PendingTarget = nil
}

// Clone returns a deep copy
func (p *Participant) Clone() *Participant {
	if p == nil {
		return nil
	}

	c := *p
	if p.StatusEffects != nil {
		c.StatusEffects = append([]StatusEffect(nil), p.StatusEffects...)
	}
	if p.MoveHistory != nil {
		c.MoveHistory = append([]Move(nil), p.MoveHistory...)
	}
	if p.PendingMove != nil {
		m := *p.PendingMove
		c.PendingMove = &m
	}
	if p.PendingTarget != nil {
		t := *p.PendingTarget
		c.PendingTarget = &t
	}
	return &c
}
