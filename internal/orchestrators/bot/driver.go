package bot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/egg-brawl/internal/entities"
	"github.com/KirkDiggler/egg-brawl/internal/errors"
	"github.com/KirkDiggler/egg-brawl/internal/orchestrators/match"
	"github.com/KirkDiggler/egg-brawl/internal/pkg/clock"
)

// MoveSubmitter is the public commit interface shared with human clients
type MoveSubmitter interface {
	CommitMove(ctx context.Context, input *match.CommitMoveInput) (*match.CommitMoveOutput, error)
}

// DriverConfig holds the dependencies for a driver
type DriverConfig struct {
	MatchID   string
	Self      entities.ParticipantID
	Strategy  Strategy
	Submitter MoveSubmitter
	Clock     clock.Clock

	// Delay is waited before every commit. It only affects pacing.
	Delay time.Duration
}

// Validate ensures all required dependencies are provided
func (c *DriverConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("MatchID", c.MatchID, vb)
	errors.ValidateRequired("Self", string(c.Self), vb)
	if c.Strategy == nil {
		vb.RequiredField("Strategy")
	}
	if c.Submitter == nil {
		vb.RequiredField("Submitter")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.Delay < 0 {
		vb.Field("Delay", "cannot be negative")
	}
	return vb.Build()
}

// Driver plays one participant
type Driver struct {
	matchID   string
	self      entities.ParticipantID
	strategy  Strategy
	submitter MoveSubmitter
	clock     clock.Clock
	delay     time.Duration

	wg sync.WaitGroup

	mu     sync.Mutex
	played int
}

// NewDriver creates a driver
func NewDriver(cfg *DriverConfig) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Driver{
		matchID:   cfg.MatchID,
		self:      cfg.Self,
		strategy:  cfg.Strategy,
		submitter: cfg.Submitter,
		clock:     cfg.Clock,
		delay:     cfg.Delay,
	}, nil
}

// Play commits a move for the round open in snap. It returns nil without
// committing when the match is over or the participant is not alive.
func (d *Driver) Play(ctx context.Context, snap *entities.Snapshot) error {
	if snap == nil {
		return errors.InvalidArgument("snapshot is required")
	}
	if snap.Over {
		return nil
	}
	if self, ok := snap.Participant(d.self); !ok || !self.Alive {
		return nil
	}

	if d.delay > 0 {
		select {
		case <-ctx.Done():
			return errors.WrapWithCode(ctx.Err(), errors.CodeCanceled, "bot delay interrupted")
		case <-d.clock.After(d.delay):
		}
	}

	choice, err := d.strategy.Choose(ctx, &ChooseInput{Self: d.self, Snapshot: snap})
	if err != nil {
		return errors.Wrapf(err, "strategy failed for %s", d.self)
	}

	_, err = d.submitter.CommitMove(ctx, &match.CommitMoveInput{
		MatchID:       d.matchID,
		ParticipantID: d.self,
		Move:          choice.Move,
		TargetID:      choice.Target,
		Round:         snap.Round,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to commit %s for %s", choice.Move, d.self)
	}

	slog.Info("Bot committed move",
		"match_id", d.matchID,
		"participant_id", d.self,
		"round", snap.Round,
		"move", choice.Move.String(),
	)
	return nil
}

// Observe plays the round open in snap unless it was already played. It is
// meant to be fed every snapshot of a remote match: a commit rejected because
// the match has not started is retried on the next snapshot.
func (d *Driver) Observe(ctx context.Context, snap *entities.Snapshot) error {
	if snap == nil {
		return errors.InvalidArgument("snapshot is required")
	}

	d.mu.Lock()
	played := d.played
	d.mu.Unlock()
	if snap.Round <= played {
		return nil
	}

	err := d.Play(ctx, snap)
	switch {
	case err == nil, errors.IsAborted(err):
	case errors.IsFailedPrecondition(err):
		slog.Debug("Bot waiting for match start", "match_id", d.matchID, "participant_id", d.self)
		return nil
	default:
		return err
	}

	d.mu.Lock()
	if snap.Round > d.played {
		d.played = snap.Round
	}
	d.mu.Unlock()
	return nil
}

// Attach plays every round announced on the bus until the returned stop
// function is called. Stop waits for in-flight plays to finish.
func (d *Driver) Attach(ctx context.Context, bus events.EventBus) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	stopped := false

	unsubscribe := match.Subscribe(bus, d.matchID, func(_ context.Context, n *match.Notification) error {
		if n.Type != match.EventMatchStarted && n.Type != match.EventRoundResolved {
			return nil
		}

		// Add must not race the Wait in stop
		d.mu.Lock()
		if stopped {
			d.mu.Unlock()
			return nil
		}
		d.wg.Add(1)
		d.mu.Unlock()

		go func() {
			defer d.wg.Done()
			if err := d.Play(ctx, n.Snapshot); err != nil {
				d.logPlayError(n.Snapshot.Round, err)
			}
		}()
		return nil
	})

	return func() {
		d.mu.Lock()
		stopped = true
		d.mu.Unlock()

		unsubscribe()
		cancel()
		d.wg.Wait()
	}
}

func (d *Driver) logPlayError(round int, err error) {
	// a closed round or a stopped driver is routine
	if errors.IsAborted(err) || errors.IsCanceled(err) {
		slog.Debug("Bot skipped round",
			"match_id", d.matchID,
			"participant_id", d.self,
			"round", round,
			"error", err,
		)
		return
	}

	slog.Error("Bot failed to play round",
		"match_id", d.matchID,
		"participant_id", d.self,
		"round", round,
		"error", err,
	)
}
