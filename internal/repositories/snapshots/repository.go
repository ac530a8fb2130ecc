// Package snapshots stores the latest authoritative snapshot of each match
// so replicas can resync after a missed or malformed update
package snapshots

import (
	"context"
	"time"

	"github.com/KirkDiggler/egg-brawl/internal/entities"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=snapshotsmock github.com/KirkDiggler/egg-brawl/internal/repositories/snapshots Repository

// Record is a stored snapshot
type Record struct {
	Snapshot *entities.Snapshot `json:"snapshot"`
	SavedAt  time.Time          `json:"savedAt"`
}

// SaveInput contains parameters for storing a snapshot
type SaveInput struct {
	Snapshot *entities.Snapshot
	TTL      time.Duration // zero uses the repository default
}

// SaveOutput contains the stored record
type SaveOutput struct {
	Record *Record
}

// GetInput contains parameters for retrieving a snapshot
type GetInput struct {
	MatchID string
}

// GetOutput contains the stored record
type GetOutput struct {
	Record *Record
}

// DeleteInput contains parameters for removing a snapshot
type DeleteInput struct {
	MatchID string
}

// DeleteOutput is empty; kept for symmetry with the other operations
type DeleteOutput struct{}

// Repository defines the interface for snapshot storage operations
type Repository interface {
	// Save replaces the latest snapshot for the match
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)

	// Get returns the latest snapshot for the match
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Delete removes the snapshot for the match
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}
