package snapshots

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/egg-brawl/internal/errors"
	"github.com/KirkDiggler/egg-brawl/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/egg-brawl/internal/redis"
)

const (
	// Key pattern: match_snapshot:{match_id}
	snapshotKeyPrefix = "match_snapshot:"

	// DefaultTTL keeps finished matches around long enough for late spectators
	DefaultTTL = 2 * time.Hour

	errMatchIDEmpty = "match ID cannot be empty"
	errSnapshotNil  = "snapshot cannot be nil"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock
	TTL    time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	if c.Client == nil {
		vb.RequiredField("Client")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.TTL < 0 {
		vb.Field("TTL", "cannot be negative")
	}
	return vb.Build()
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
	ttl    time.Duration
}

// NewRedisRepository creates a new Redis repository for snapshots
func NewRedisRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
		ttl:    ttl,
	}, nil
}

var _ Repository = (*redisRepository)(nil)

// Save stores the snapshot as JSON with a TTL
func (r *redisRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.Snapshot == nil {
		return nil, errors.InvalidArgument(errSnapshotNil)
	}
	if input.Snapshot.MatchID == "" {
		return nil, errors.InvalidArgument(errMatchIDEmpty)
	}
	if err := input.Snapshot.Validate(); err != nil {
		return nil, err
	}

	ttl := input.TTL
	if ttl == 0 {
		ttl = r.ttl
	}

	record := &Record{
		Snapshot: input.Snapshot.Clone(),
		SavedAt:  r.clock.Now(),
	}

	data, err := json.Marshal(record)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal snapshot")
	}

	if err := r.client.Set(ctx, buildKey(input.Snapshot.MatchID), data, ttl).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to store snapshot in Redis")
	}

	return &SaveOutput{Record: record}, nil
}

// Get loads and validates the stored snapshot
func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.MatchID == "" {
		return nil, errors.InvalidArgument(errMatchIDEmpty)
	}

	data, err := r.client.Get(ctx, buildKey(input.MatchID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("snapshot for match %s not found", input.MatchID)
		}
		return nil, errors.Wrapf(err, "failed to get snapshot from Redis")
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeMalformedSnapshot, "failed to unmarshal snapshot")
	}
	if record.Snapshot == nil {
		return nil, errors.MalformedSnapshot("stored record has no snapshot")
	}
	if err := record.Snapshot.Validate(); err != nil {
		return nil, err
	}

	return &GetOutput{Record: &record}, nil
}

// Delete removes the stored snapshot. Deleting a missing key is not an error.
func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.MatchID == "" {
		return nil, errors.InvalidArgument(errMatchIDEmpty)
	}

	if err := r.client.Del(ctx, buildKey(input.MatchID)).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to delete snapshot from Redis")
	}

	return &DeleteOutput{}, nil
}

func buildKey(matchID string) string {
	return snapshotKeyPrefix + matchID
}

// KeyPattern matches every stored snapshot key, for SCAN
const KeyPattern = snapshotKeyPrefix + "*"

// MatchIDFromKey returns the match ID a snapshot key belongs to
func MatchIDFromKey(key string) (string, bool) {
	id, ok := strings.CutPrefix(key, snapshotKeyPrefix)
	return id, ok && id != ""
}
