package engine

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/egg-brawl/internal/entities"
	"github.com/KirkDiggler/egg-brawl/internal/errors"
)

type engine struct {
	suddenDeath bool
}

// Config holds the rule switches for the engine
type Config struct {
	// SuddenDeath revives both participants at 1 health when the last two
	// knock each other out in the same round. Off means the round is a draw.
	SuddenDeath bool
}

// Validate ensures the configuration is usable
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config is required")
	}
	return nil
}

// New creates an engine
func New(cfg *Config) (Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &engine{suddenDeath: cfg.SuddenDeath}, nil
}

// Resolve runs the round phases in order:
// snapshot, self actions, incoming interactions, apply, instant deaths, timers.
func (e *engine) Resolve(ctx context.Context, input *ResolveInput) (*ResolveOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeCanceled, "round resolution canceled")
	}

	r, err := newRound(input)
	if err != nil {
		return nil, err
	}

	r.revealMoves()
	r.selfActions()
	r.incomingInteractions()
	r.apply()

	if !r.deathCheck() {
		r.timers()
	}

	if e.suddenDeath {
		r.suddenDeath()
	}

	return r.output(), nil
}

// round holds the working state of one resolution. Participants are clones.
type round struct {
	number       int
	order        []entities.ParticipantID
	participants map[entities.ParticipantID]*entities.Participant
	commits      map[entities.ParticipantID]Commit

	// hadEggAtStart is read by every reflect decision; live state never is
	hadEggAtStart map[entities.ParticipantID]bool

	deltas       map[entities.ParticipantID]*Delta
	events       []Event
	deaths       []Death
	aliveAtStart int

	over     bool
	winnerID *entities.ParticipantID
	draw     bool
	revived  bool
}

func newRound(input *ResolveInput) (*round, error) {
	r := &round{
		number:        input.Round,
		order:         make([]entities.ParticipantID, 0, len(input.Participants)),
		participants:  make(map[entities.ParticipantID]*entities.Participant, len(input.Participants)),
		commits:       make(map[entities.ParticipantID]Commit, len(input.Commits)),
		hadEggAtStart: make(map[entities.ParticipantID]bool, len(input.Participants)),
		deltas:        make(map[entities.ParticipantID]*Delta, len(input.Participants)),
	}

	for _, p := range input.Participants {
		if p == nil {
			return nil, errors.InvalidArgument("participant is required")
		}
		if _, dup := r.participants[p.ID]; dup {
			return nil, errors.InvalidArgumentf("participant %s listed twice", p.ID)
		}
		if !p.IsAlive() {
			return nil, errors.InvalidParticipantf("participant %s is dead", p.ID)
		}

		c := p.Clone()
		c.ClearPending()
		r.order = append(r.order, c.ID)
		r.participants[c.ID] = c
		r.deltas[c.ID] = &Delta{}

		// Snapshot phase
		r.hadEggAtStart[c.ID] = c.HasEffects()
	}
	r.aliveAtStart = len(r.order)

	for _, id := range r.order {
		commit, ok := input.Commits[id]
		if !ok {
			return nil, errors.InvalidArgumentf("participant %s has not committed a move", id)
		}
		if !commit.Move.Valid() {
			return nil, errors.InvalidArgumentf("participant %s committed an unknown move", id)
		}
		if commit.Move.NeedsTarget() && commit.Target != nil {
			if _, ok := r.participants[*commit.Target]; !ok {
				return nil, errors.InvalidParticipantf("target %s of %s is not a living participant", *commit.Target, id)
			}
		}
		r.commits[id] = commit
	}
	for id := range input.Commits {
		if _, ok := r.participants[id]; !ok {
			return nil, errors.InvalidParticipantf("commit from %s who is not a living participant", id)
		}
	}

	return r, nil
}

func (r *round) name(id entities.ParticipantID) string {
	if p, ok := r.participants[id]; ok {
		return p.DisplayName
	}
	return string(id)
}

func (r *round) emit(ev Event) {
	r.events = append(r.events, ev)
}

func (r *round) revealMoves() {
	for _, id := range r.order {
		c := r.commits[id]
		msg := fmt.Sprintf("%s used %s", r.name(id), c.Move)
		target := entities.ParticipantID("")
		if c.Move.NeedsTarget() && c.Target != nil {
			target = *c.Target
			msg = fmt.Sprintf("%s used %s on %s", r.name(id), c.Move, r.name(target))
		}
		r.emit(Event{Kind: EventMoveRevealed, Actor: id, Target: target, Move: c.Move, Message: msg})
	}
}

// selfActions lets a Sausage eater who started the round with an egg try to cure it
func (r *round) selfActions() {
	for _, id := range r.order {
		if r.commits[id].Move != entities.MoveSausage || !r.hadEggAtStart[id] {
			continue
		}
		if r.participants[id].TryCure(true) {
			r.deltas[id].Cured = true
			r.emit(Event{
				Kind:    EventCured,
				Actor:   id,
				Move:    entities.MoveSausage,
				Message: fmt.Sprintf("%s ate a sausage and cured an egg", r.name(id)),
			})
		}
	}
}

// incomingInteractions accumulates damage and eggs without touching health
func (r *round) incomingInteractions() {
	for _, defender := range r.order {
		defMove := r.commits[defender].Move

		for _, attacker := range r.order {
			c := r.commits[attacker]
			if attacker == defender || !c.Move.NeedsTarget() || c.Target == nil || *c.Target != defender {
				continue
			}

			switch c.Move {
			case entities.MoveAttack:
				r.attack(attacker, defender, defMove)
			case entities.MoveEgg:
				r.egg(attacker, defender, defMove)
			}
		}
	}
}

func (r *round) attack(attacker, defender entities.ParticipantID, defMove entities.Move) {
	ev := Event{Actor: attacker, Target: defender, Move: entities.MoveAttack}

	switch {
	case defMove == entities.MoveSausage && !r.hadEggAtStart[defender]:
		r.deltas[attacker].Damage += entities.AttackDamage
		ev.Kind = EventAttackReflected
		ev.Message = fmt.Sprintf("%s's sausage reflected the attack back at %s", r.name(defender), r.name(attacker))
	case defMove == entities.MoveSausage:
		r.deltas[defender].Damage += entities.AttackDamage
		ev.Kind = EventAttackHit
		ev.Message = fmt.Sprintf("%s's attack hit %s, whose sausage went to the egg", r.name(attacker), r.name(defender))
	case defMove == entities.MoveBarrier:
		r.deltas[defender].Damage += entities.AttackDamage
		ev.Kind = EventBarrierFailed
		ev.Message = fmt.Sprintf("%s's barrier did not stop the attack from %s", r.name(defender), r.name(attacker))
	default:
		r.deltas[defender].Damage += entities.AttackDamage
		ev.Kind = EventAttackHit
		ev.Message = fmt.Sprintf("%s attacked %s", r.name(attacker), r.name(defender))
	}

	r.emit(ev)
}

func (r *round) egg(attacker, defender entities.ParticipantID, defMove entities.Move) {
	ev := Event{Actor: attacker, Target: defender, Move: entities.MoveEgg}

	if defMove == entities.MoveBarrier {
		r.deltas[attacker].ReflectedEggs++
		ev.Kind = EventEggReflected
		ev.Message = fmt.Sprintf("%s's barrier bounced the egg back onto %s", r.name(defender), r.name(attacker))
	} else {
		r.deltas[defender].NewEggs++
		ev.Kind = EventEggLanded
		ev.Message = fmt.Sprintf("%s's egg landed on %s", r.name(attacker), r.name(defender))
	}

	r.emit(ev)
}

// apply subtracts damage and resolves egg stacking
func (r *round) apply() {
	for _, id := range r.order {
		p := r.participants[id]
		d := r.deltas[id]

		if d.Damage > 0 {
			p.TakeDamage(d.Damage)
			r.emit(Event{
				Kind:    EventDamaged,
				Actor:   id,
				Message: fmt.Sprintf("%s took %d damage (%d health left)", r.name(id), d.Damage, p.Health),
			})
		}

		incoming := d.NewEggs + d.ReflectedEggs
		if incoming == 0 {
			continue
		}

		if incoming >= 2 || p.HasEffects() {
			p.Health = 0
			d.InstantDeath = true
			reason := "was hit by two eggs at once"
			if incoming < 2 {
				reason = "already carried an egg"
			}
			r.emit(Event{
				Kind:    EventEggsStacked,
				Actor:   id,
				Move:    entities.MoveEgg,
				Message: fmt.Sprintf("%s %s and cracked instantly", r.name(id), reason),
			})
			continue
		}

		for i := 0; i < d.NewEggs; i++ {
			p.ApplyEgg(false)
		}
		for i := 0; i < d.ReflectedEggs; i++ {
			p.ApplyEgg(true)
		}
		kind := "an egg"
		if d.ReflectedEggs > 0 {
			kind = "an uncurable egg"
		}
		r.emit(Event{
			Kind:    EventEggApplied,
			Actor:   id,
			Move:    entities.MoveEgg,
			Message: fmt.Sprintf("%s now carries %s (%d turns)", r.name(id), kind, entities.EggTimer),
		})
	}
}

// deathCheck marks everyone at zero health dead and reports whether the match ended
func (r *round) deathCheck() bool {
	for _, id := range r.order {
		p := r.participants[id]
		if !p.Alive || p.Health > 0 {
			continue
		}
		p.Kill()
		r.deaths = append(r.deaths, Death{ParticipantID: id, Reason: DeathReasonInstant})
		r.emit(Event{
			Kind:    EventDied,
			Actor:   id,
			Message: fmt.Sprintf("%s was knocked out", r.name(id)),
		})
	}
	return r.checkTermination()
}

// timers ticks every egg on living participants
func (r *round) timers() {
	for _, id := range r.order {
		p := r.participants[id]
		if !p.IsAlive() {
			continue
		}
		if p.Tick() {
			r.deltas[id].Exploded = true
			r.deaths = append(r.deaths, Death{ParticipantID: id, Reason: DeathReasonTimer})
			r.emit(Event{
				Kind:    EventExploded,
				Actor:   id,
				Message: fmt.Sprintf("%s's egg exploded", r.name(id)),
			})
		}
	}
	r.checkTermination()
}

func (r *round) living() []entities.ParticipantID {
	var ids []entities.ParticipantID
	for _, id := range r.order {
		if r.participants[id].IsAlive() {
			ids = append(ids, id)
		}
	}
	return ids
}

func (r *round) checkTermination() bool {
	living := r.living()
	if len(living) > 1 {
		return false
	}

	r.over = true
	if len(living) == 1 {
		w := living[0]
		r.winnerID = &w
		r.draw = false
	} else {
		r.winnerID = nil
		r.draw = true
	}
	return true
}

// suddenDeath revives a two-way double knockout at 1 health each
func (r *round) suddenDeath() {
	if !r.draw || r.aliveAtStart != 2 || len(r.deaths) != 2 {
		return
	}

	for _, d := range r.deaths {
		p := r.participants[d.ParticipantID]
		p.Health = 1
		p.Alive = true
		p.StatusEffects = nil
	}
	r.deaths = nil
	r.over = false
	r.draw = false
	r.revived = true

	r.emit(Event{
		Kind: EventSuddenDeath,
		Message: fmt.Sprintf("Double knockout! %s and %s return with 1 health for sudden death",
			r.name(r.order[0]), r.name(r.order[1])),
	})
}

func (r *round) output() *ResolveOutput {
	if r.over {
		msg := "The match ended in a draw"
		if r.winnerID != nil {
			msg = fmt.Sprintf("%s wins the match", r.name(*r.winnerID))
		}
		ev := Event{Kind: EventMatchOver, Message: msg}
		if r.winnerID != nil {
			ev.Actor = *r.winnerID
		}
		r.emit(ev)
	}

	out := &ResolveOutput{
		Round:        r.number,
		Participants: make([]*entities.Participant, 0, len(r.order)),
		Deltas:       r.deltas,
		Events:       r.events,
		Deaths:       r.deaths,
		Over:         r.over,
		WinnerID:     r.winnerID,
		Draw:         r.draw,
		SuddenDeath:  r.revived,
	}

	for _, id := range r.order {
		p := r.participants[id]
		p.MoveHistory = append(p.MoveHistory, r.commits[id].Move)
		out.Participants = append(out.Participants, p)
	}
	return out
}
