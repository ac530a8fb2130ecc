package snapshots

import (
	"context"
	"sync"

	"github.com/KirkDiggler/egg-brawl/internal/errors"
	"github.com/KirkDiggler/egg-brawl/internal/pkg/clock"
)

// InMemoryConfig holds the configuration for the in-memory repository
type InMemoryConfig struct {
	Clock clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *InMemoryConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	return vb.Build()
}

// inMemoryRepository keeps snapshots for a single process. TTLs are not enforced.
type inMemoryRepository struct {
	mu      sync.RWMutex
	clock   clock.Clock
	records map[string]*Record
}

// NewInMemoryRepository creates a repository backed by a map
func NewInMemoryRepository(cfg *InMemoryConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &inMemoryRepository{
		clock:   cfg.Clock,
		records: make(map[string]*Record),
	}, nil
}

var _ Repository = (*inMemoryRepository)(nil)

func (r *inMemoryRepository) Save(_ context.Context, input SaveInput) (*SaveOutput, error) {
	if input.Snapshot == nil {
		return nil, errors.InvalidArgument(errSnapshotNil)
	}
	if input.Snapshot.MatchID == "" {
		return nil, errors.InvalidArgument(errMatchIDEmpty)
	}
	if err := input.Snapshot.Validate(); err != nil {
		return nil, err
	}

	record := &Record{
		Snapshot: input.Snapshot.Clone(),
		SavedAt:  r.clock.Now(),
	}

	r.mu.Lock()
	r.records[input.Snapshot.MatchID] = record
	r.mu.Unlock()

	return &SaveOutput{Record: copyRecord(record)}, nil
}

func (r *inMemoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if input.MatchID == "" {
		return nil, errors.InvalidArgument(errMatchIDEmpty)
	}

	r.mu.RLock()
	record, ok := r.records[input.MatchID]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.NotFoundf("snapshot for match %s not found", input.MatchID)
	}

	return &GetOutput{Record: copyRecord(record)}, nil
}

func (r *inMemoryRepository) Delete(_ context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.MatchID == "" {
		return nil, errors.InvalidArgument(errMatchIDEmpty)
	}

	r.mu.Lock()
	delete(r.records, input.MatchID)
	r.mu.Unlock()

	return &DeleteOutput{}, nil
}

func copyRecord(r *Record) *Record {
	return &Record{
		Snapshot: r.Snapshot.Clone(),
		SavedAt:  r.SavedAt,
	}
}
