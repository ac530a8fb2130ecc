// Package v1alpha1 serves hosted matches over gRPC
package v1alpha1

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"google.golang.org/grpc"

	"github.com/KirkDiggler/egg-brawl/internal/entities"
	"github.com/KirkDiggler/egg-brawl/internal/errors"
	"github.com/KirkDiggler/egg-brawl/internal/orchestrators/match"
)

// HandlerConfig holds dependencies for the handler
type HandlerConfig struct {
	Registry match.Registry

	// EventBus must be the bus the registry's authorities publish on
	EventBus events.EventBus
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	if c.Registry == nil {
		vb.RequiredField("Registry")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	return vb.Build()
}

// Handler implements MatchServiceServer on top of a match registry
type Handler struct {
	registry match.Registry
	bus      events.EventBus
}

// NewHandler creates a new handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Handler{
		registry: cfg.Registry,
		bus:      cfg.EventBus,
	}, nil
}

// Join adds a participant, hosting the match on first join
func (h *Handler) Join(ctx context.Context, req *JoinRequest) (*JoinResponse, error) {
	if req.MatchID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("match_id is required"))
	}
	if req.ParticipantID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("participant_id is required"))
	}

	a, err := h.registry.GetOrCreate(ctx, req.MatchID)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := a.Join(ctx, &match.JoinInput{
		MatchID:       req.MatchID,
		ParticipantID: entities.ParticipantID(req.ParticipantID),
		DisplayName:   req.DisplayName,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &JoinResponse{
		Snapshot: out.Snapshot,
		Started:  out.Started,
	}, nil
}

// Leave removes a participant from play
func (h *Handler) Leave(ctx context.Context, req *LeaveRequest) (*LeaveResponse, error) {
	if req.ParticipantID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("participant_id is required"))
	}

	a, err := h.registry.Get(ctx, req.MatchID)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := a.Leave(ctx, &match.LeaveInput{
		MatchID:       req.MatchID,
		ParticipantID: entities.ParticipantID(req.ParticipantID),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &LeaveResponse{Snapshot: out.Snapshot}, nil
}

// CommitMove commits a participant's move for the open round
func (h *Handler) CommitMove(ctx context.Context, req *CommitMoveRequest) (*CommitMoveResponse, error) {
	if req.ParticipantID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("participant_id is required"))
	}
	move, err := entities.ParseMove(req.Move)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	a, err := h.registry.Get(ctx, req.MatchID)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	input := &match.CommitMoveInput{
		MatchID:       req.MatchID,
		ParticipantID: entities.ParticipantID(req.ParticipantID),
		Move:          move,
		Round:         req.Round,
	}
	if req.TargetID != nil {
		target := entities.ParticipantID(*req.TargetID)
		input.TargetID = &target
	}

	out, err := a.CommitMove(ctx, input)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	resp := &CommitMoveResponse{
		Round:    out.Round,
		Resolved: out.Resolved,
		Snapshot: out.Snapshot,
	}
	if out.TargetID != nil {
		target := string(*out.TargetID)
		resp.TargetID = &target
	}
	return resp, nil
}

// GetSnapshot returns the latest authoritative snapshot
func (h *Handler) GetSnapshot(ctx context.Context, req *GetSnapshotRequest) (*GetSnapshotResponse, error) {
	a, err := h.registry.Get(ctx, req.MatchID)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	snap, err := a.Snapshot(ctx)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &GetSnapshotResponse{Snapshot: snap}, nil
}

// WatchMatch streams the current snapshot followed by one snapshot per state
// change. Changes that arrive while the client is slow are coalesced into the
// latest snapshot. The stream ends after the match is over.
func (h *Handler) WatchMatch(req *WatchMatchRequest, stream grpc.ServerStreamingServer[WatchMatchResponse]) error {
	ctx := stream.Context()

	a, err := h.registry.Get(ctx, req.MatchID)
	if err != nil {
		return errors.ToGRPCError(err)
	}

	follower := match.Follow(h.bus, req.MatchID)
	defer follower.Stop()

	snap, err := a.Snapshot(ctx)
	if err != nil {
		return errors.ToGRPCError(err)
	}
	if err := stream.Send(&WatchMatchResponse{Snapshot: snap}); err != nil {
		return err
	}

	slog.Info("Watcher attached", "match_id", req.MatchID, "round", snap.Round)

	last := snap
	for !last.Over {
		select {
		case <-ctx.Done():
			return nil
		case <-follower.Ready():
		}

		n := follower.Next()
		if n == nil || n.Snapshot.Round < last.Round {
			continue
		}
		if err := stream.Send(&WatchMatchResponse{Event: n.Type, Snapshot: n.Snapshot}); err != nil {
			return err
		}
		last = n.Snapshot
	}

	slog.Info("Watcher finished", "match_id", req.MatchID, "round", last.Round)
	return nil
}
