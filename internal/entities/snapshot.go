package entities

import (
	"bytes"
	"encoding/json"

	"github.com/KirkDiggler/egg-brawl/internal/errors"
)

// Snapshot is the authoritative state message sent to replicas once at match
// start and once per resolved round
type Snapshot struct {
	MatchID      string                `json:"matchId"`
	Round        int                   `json:"round"`
	Over         bool                  `json:"over"`
	WinnerID     *ParticipantID        `json:"winnerId,omitempty"`
	Draw         bool                  `json:"draw,omitempty"`
	EventLog     []string              `json:"eventLog"`
	Participants []ParticipantSnapshot `json:"participants"`
}

// ParticipantSnapshot is the public view of a participant. Pending moves are never shared.
type ParticipantSnapshot struct {
	ID            ParticipantID  `json:"id"`
	DisplayName   string         `json:"displayName"`
	Health        int            `json:"health"`
	StatusEffects []StatusEffect `json:"statusEffects"`
	MoveHistory   []Move         `json:"moveHistory"`
	Alive         bool           `json:"alive"`
}

// Participant returns the snapshot entry for id
func (s *Snapshot) Participant(id ParticipantID) (*ParticipantSnapshot, bool) {
	for i := range s.Participants {
		if s.Participants[i].ID == id {
			return &s.Participants[i], true
		}
	}
	return nil, false
}

// Living returns IDs of living participants in snapshot order
func (s *Snapshot) Living() []ParticipantID {
	var ids []ParticipantID
	for _, p := range s.Participants {
		if p.Alive {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// Clone returns a deep copy
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	m := &Match{}
	m.Restore(s)
	m.Authoritative = false
	return m.Snapshot()
}

// Validate checks the snapshot against the documented shape
func (s *Snapshot) Validate() error {
	if s == nil {
		return errors.MalformedSnapshot("snapshot is required")
	}
	if s.Round < 1 {
		return errors.MalformedSnapshotf("round must be >= 1, got %d", s.Round)
	}

	seen := make(map[ParticipantID]bool, len(s.Participants))
	for _, p := range s.Participants {
		if p.ID == "" {
			return errors.MalformedSnapshot("participant id is required")
		}
		if seen[p.ID] {
			return errors.MalformedSnapshotf("duplicate participant %s", p.ID)
		}
		seen[p.ID] = true

		if p.Health < 0 || p.Health > MaxHP {
			return errors.MalformedSnapshotf("participant %s health %d outside 0..%d", p.ID, p.Health, MaxHP)
		}
		if p.Alive && p.Health == 0 {
			return errors.MalformedSnapshotf("participant %s is alive with no health", p.ID)
		}
		for _, e := range p.StatusEffects {
			if e.TurnsRemaining < -1 || e.TurnsRemaining > EggTimer {
				return errors.MalformedSnapshotf("participant %s effect timer %d outside -1..%d",
					p.ID, e.TurnsRemaining, EggTimer)
			}
		}
		for _, m := range p.MoveHistory {
			if !m.Valid() {
				return errors.MalformedSnapshotf("participant %s history holds unknown move", p.ID)
			}
		}
	}

	if s.WinnerID != nil {
		if !s.Over {
			return errors.MalformedSnapshot("winner set on a match that is not over")
		}
		if !seen[*s.WinnerID] {
			return errors.MalformedSnapshotf("winner %s is not a participant", *s.WinnerID)
		}
	}
	return nil
}

// DecodeSnapshot strictly decodes a snapshot message. Unknown fields, unknown
// move names or trailing data yield MalformedSnapshot.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var snap Snapshot
	if err := dec.Decode(&snap); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeMalformedSnapshot, "failed to decode snapshot")
	}
	if dec.More() {
		return nil, errors.MalformedSnapshot("trailing data after snapshot")
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// EncodeSnapshot marshals a snapshot for the wire
func EncodeSnapshot(s *Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode snapshot")
	}
	return data, nil
}
