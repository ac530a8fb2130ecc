package entities

// EntityTypeMatch is the core.Entity type reported by matches
const EntityTypeMatch = "match"

// Match is the state shared by the authority and its replicas.
// Participants are addressed by ID; Order keeps join order for deterministic iteration.
type Match struct {
	ID            string
	Participants  map[ParticipantID]*Participant
	Order         []ParticipantID
	Round         int
	Over          bool
	WinnerID      *ParticipantID
	Draw          bool
	EventLog      []string
	Authoritative bool
}

// NewMatch returns an empty match at round 1
func NewMatch(id string, authoritative bool) *Match {
	return &Match{
		ID:            id,
		Participants:  make(map[ParticipantID]*Participant),
		Round:         1,
		Authoritative: authoritative,
	}
}

// GetID returns the match ID
func (m *Match) GetID() string {
	return m.ID
}

// GetType returns the entity type for rpg-toolkit
func (m *Match) GetType() string {
	return EntityTypeMatch
}

// Add places a participant in the arena. It reports false if the ID is taken.
func (m *Match) Add(p *Participant) bool {
	if _, exists := m.Participants[p.ID]; exists {
		return false
	}
	m.Participants[p.ID] = p
	m.Order = append(m.Order, p.ID)
	return true
}

// Get returns the participant with the given ID
func (m *Match) Get(id ParticipantID) (*Participant, bool) {
	p, ok := m.Participants[id]
	return p, ok
}

// Living returns living participants in join order
func (m *Match) Living() []*Participant {
	living := make([]*Participant, 0, len(m.Order))
	for _, id := range m.Order {
		if p := m.Participants[id]; p != nil && p.IsAlive() {
			living = append(living, p)
		}
	}
	return living
}

// AllReady reports whether every living participant has a pending move.
// A match with nobody alive is never ready.
func (m *Match) AllReady() bool {
	living := m.Living()
	if len(living) == 0 {
		return false
	}
	for _, p := range living {
		if !p.HasCommitted() {
			return false
		}
	}
	return true
}

// CheckTermination ends the match when at most one participant is alive.
// It reports whether this call ended the match.
func (m *Match) CheckTermination() bool {
	if m.Over {
		return false
	}

	living := m.Living()
	if len(living) > 1 {
		return false
	}

	m.Over = true
	if len(living) == 1 {
		id := living[0].ID
		m.WinnerID = &id
		m.Draw = false
	} else {
		m.WinnerID = nil
		m.Draw = true
	}
	return true
}

// Log appends lines to the event log
func (m *Match) Log(lines ...string) {
	m.EventLog = append(m.EventLog, lines...)
}

// Snapshot returns the wire representation. The result shares nothing with m.
func (m *Match) Snapshot() *Snapshot {
	snap := &Snapshot{
		MatchID:      m.ID,
		Round:        m.Round,
		Over:         m.Over,
		Draw:         m.Draw,
		EventLog:     append([]string{}, m.EventLog...),
		Participants: make([]ParticipantSnapshot, 0, len(m.Order)),
	}
	if m.WinnerID != nil {
		w := *m.WinnerID
		snap.WinnerID = &w
	}

	for _, id := range m.Order {
		p := m.Participants[id]
		if p == nil {
			continue
		}
		snap.Participants = append(snap.Participants, participantSnapshot(p))
	}
	return snap
}

// Restore rebuilds match state from a snapshot, replacing everything in m.
// Pending moves are not part of the snapshot and are cleared.
func (m *Match) Restore(snap *Snapshot) {
	m.ID = snap.MatchID
	m.Round = snap.Round
	m.Over = snap.Over
	m.Draw = snap.Draw
	m.WinnerID = nil
	if snap.WinnerID != nil {
		w := *snap.WinnerID
		m.WinnerID = &w
	}
	m.EventLog = append([]string{}, snap.EventLog...)
	m.Participants = make(map[ParticipantID]*Participant, len(snap.Participants))
	m.Order = make([]ParticipantID, 0, len(snap.Participants))

	for _, ps := range snap.Participants {
		p := &Participant{
			ID:            ps.ID,
			DisplayName:   ps.DisplayName,
			Health:        ps.Health,
			StatusEffects: append([]StatusEffect(nil), ps.StatusEffects...),
			MoveHistory:   append([]Move(nil), ps.MoveHistory...),
			Alive:         ps.Alive,
		}
		m.Participants[p.ID] = p
		m.Order = append(m.Order, p.ID)
	}
}

func participantSnapshot(p *Participant) ParticipantSnapshot {
	return ParticipantSnapshot{
		ID:            p.ID,
		DisplayName:   p.DisplayName,
		Health:        p.Health,
		StatusEffects: append([]StatusEffect{}, p.StatusEffects...),
		MoveHistory:   append([]Move{}, p.MoveHistory...),
		Alive:         p.Alive,
	}
}
