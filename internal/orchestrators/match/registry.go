package match

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/egg-brawl/internal/engine"
	"github.com/KirkDiggler/egg-brawl/internal/errors"
	"github.com/KirkDiggler/egg-brawl/internal/metrics"
	"github.com/KirkDiggler/egg-brawl/internal/pkg/idgen"
	"github.com/KirkDiggler/egg-brawl/internal/repositories/snapshots"
)

// Registry tracks the matches hosted by this process
type Registry interface {
	// Create hosts a new match
	Create(ctx context.Context, input *CreateInput) (*CreateOutput, error)

	// Get returns the authority for a hosted match
	Get(ctx context.Context, matchID string) (Authority, error)

	// GetOrCreate returns the hosted match, creating an empty one if needed
	GetOrCreate(ctx context.Context, matchID string) (Authority, error)

	// Remove stops hosting a match and drops its stored snapshot
	Remove(ctx context.Context, matchID string) error

	// List returns the hosted match IDs in sorted order
	List(ctx context.Context) []string
}

// RegistryConfig holds the dependencies shared by every hosted match
type RegistryConfig struct {
	Engine      engine.Engine
	EventBus    events.EventBus
	IDGenerator idgen.Generator

	// SnapshotRepo is optional
	SnapshotRepo snapshots.Repository

	// Metrics is optional
	Metrics *metrics.Metrics

	// AutoStartAt is the default for matches that do not set one
	AutoStartAt int
}

// Validate ensures all required dependencies are provided
func (c *RegistryConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	if c.Engine == nil {
		vb.RequiredField("Engine")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.AutoStartAt != 0 && c.AutoStartAt < MinParticipants {
		vb.Fieldf("AutoStartAt", "must be 0 or at least %d", MinParticipants)
	}
	return vb.Build()
}

type registry struct {
	engine      engine.Engine
	bus         events.EventBus
	idGen       idgen.Generator
	repo        snapshots.Repository
	metrics     *metrics.Metrics
	autoStartAt int

	mu      sync.RWMutex
	matches map[string]Authority
}

// NewRegistry creates an empty registry
func NewRegistry(cfg *RegistryConfig) (Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &registry{
		engine:      cfg.Engine,
		bus:         cfg.EventBus,
		idGen:       cfg.IDGenerator,
		repo:        cfg.SnapshotRepo,
		metrics:     cfg.Metrics,
		autoStartAt: cfg.AutoStartAt,
		matches:     make(map[string]Authority),
	}, nil
}

func (r *registry) Create(ctx context.Context, input *CreateInput) (*CreateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, err := r.createLocked(input)
	if err != nil {
		return nil, err
	}

	slog.Info("Match created",
		"match_id", a.ID(),
		"participant_count", len(input.Participants),
	)

	return &CreateOutput{Authority: a}, nil
}

func (r *registry) createLocked(input *CreateInput) (Authority, error) {
	matchID := input.MatchID
	if matchID == "" {
		matchID = r.idGen.Generate()
	}
	if _, exists := r.matches[matchID]; exists {
		return nil, errors.AlreadyExistsf("match %s already exists", matchID)
	}

	autoStart := input.AutoStartAt
	if autoStart == 0 {
		autoStart = r.autoStartAt
	}

	a, err := NewAuthority(&AuthorityConfig{
		MatchID:      matchID,
		Engine:       r.engine,
		EventBus:     r.bus,
		SnapshotRepo: r.repo,
		Metrics:      r.metrics,
		Participants: input.Participants,
		AutoStartAt:  autoStart,
	})
	if err != nil {
		return nil, err
	}

	r.matches[matchID] = a
	return a, nil
}

func (r *registry) Get(_ context.Context, matchID string) (Authority, error) {
	if matchID == "" {
		return nil, errors.InvalidArgument("match ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.matches[matchID]
	if !ok {
		return nil, errors.NotFoundf("match %s not found", matchID)
	}
	return a, nil
}

func (r *registry) GetOrCreate(_ context.Context, matchID string) (Authority, error) {
	if matchID == "" {
		return nil, errors.InvalidArgument("match ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.matches[matchID]; ok {
		return a, nil
	}

	a, err := r.createLocked(&CreateInput{MatchID: matchID})
	if err != nil {
		return nil, err
	}
	slog.Info("Match created on join", "match_id", matchID)
	return a, nil
}

func (r *registry) Remove(ctx context.Context, matchID string) error {
	r.mu.Lock()
	_, ok := r.matches[matchID]
	delete(r.matches, matchID)
	r.mu.Unlock()

	if !ok {
		return errors.NotFoundf("match %s not found", matchID)
	}

	if r.repo != nil {
		if _, err := r.repo.Delete(ctx, snapshots.DeleteInput{MatchID: matchID}); err != nil {
			return errors.Wrapf(err, "failed to delete snapshot for match %s", matchID)
		}
	}

	slog.Info("Match removed", "match_id", matchID)
	return nil
}

func (r *registry) List(_ context.Context) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.matches))
	for id := range r.matches {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
