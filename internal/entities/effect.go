package entities

// Game constants
const (
	// MaxHP is the starting and maximum health of a participant
	MaxHP = 5

	// EggTimer is the turn count a freshly applied egg starts with
	EggTimer = 2

	// SausageLimit is how many consecutive Sausage moves are allowed
	SausageLimit = 2

	// AttackDamage is the health removed by one landed Attack
	AttackDamage = 1
)

// StatusEffect is a timed egg debuff. It explodes once TurnsRemaining drops below zero.
type StatusEffect struct {
	TurnsRemaining int  `json:"turnsRemaining"`
	Reflected      bool `json:"reflected"`
}

// NewEgg returns a freshly applied egg
func NewEgg(reflected bool) StatusEffect {
	return StatusEffect{
		TurnsRemaining: EggTimer,
		Reflected:      reflected,
	}
}

// IsNew reports whether the egg was applied this round and so cannot be cured yet
func (e StatusEffect) IsNew() bool {
	return e.TurnsRemaining >= EggTimer
}

// Exploded reports whether the timer ran out
func (e StatusEffect) Exploded() bool {
	return e.TurnsRemaining < 0
}

// Curable reports whether a cure attempt may remove this effect
func (e StatusEffect) Curable(curableOnly bool) bool {
	if e.IsNew() {
		return false
	}
	return !curableOnly || !e.Reflected
}
