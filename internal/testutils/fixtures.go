package testutils

import (
	"github.com/KirkDiggler/egg-brawl/internal/entities"
)

// Default IDs used across tests
const (
	TestMatchID = "match_test_001"

	Alice entities.ParticipantID = "alice"
	Bob   entities.ParticipantID = "bob"
	Carol entities.ParticipantID = "carol"
)

// CreateTestSnapshot returns a round 1 snapshot with full-health participants
func CreateTestSnapshot(ids ...entities.ParticipantID) *entities.Snapshot {
	m := entities.NewMatch(TestMatchID, true)
	for _, id := range ids {
		m.Add(entities.NewParticipant(id, string(id)))
	}
	return m.Snapshot()
}

// TargetOf returns a pointer to id for commit targets
func TargetOf(id entities.ParticipantID) *entities.ParticipantID {
	return &id
}
