package v1alpha1

import (
	"context"
	"io"

	"google.golang.org/grpc"

	"github.com/KirkDiggler/egg-brawl/internal/entities"
	"github.com/KirkDiggler/egg-brawl/internal/errors"
	"github.com/KirkDiggler/egg-brawl/internal/orchestrators/match"
)

// ClientConfig holds the connection a client talks over
type ClientConfig struct {
	Conn grpc.ClientConnInterface
}

// Validate ensures all required dependencies are present
func (c *ClientConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if c.Conn == nil {
		return errors.InvalidArgument("connection is required")
	}
	return nil
}

// Client calls a remote match service. It sends commits for a replica or a
// bot and is the replica's snapshot source.
type Client struct {
	conn grpc.ClientConnInterface
	opts []grpc.CallOption
}

// NewClient creates a client on an existing connection
func NewClient(cfg *ClientConfig) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Client{
		conn: cfg.Conn,
		opts: []grpc.CallOption{grpc.CallContentSubtype(CodecName)},
	}, nil
}

// Join adds a participant to a remote match
func (c *Client) Join(ctx context.Context, input *match.JoinInput) (*match.JoinOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	resp := new(JoinResponse)
	err := c.conn.Invoke(ctx, MatchServiceJoinFullMethod, &JoinRequest{
		MatchID:       input.MatchID,
		ParticipantID: string(input.ParticipantID),
		DisplayName:   input.DisplayName,
	}, resp, c.opts...)
	if err != nil {
		return nil, errors.Wrap(errors.FromGRPCError(err), "join failed")
	}

	return &match.JoinOutput{
		Snapshot: resp.Snapshot,
		Started:  resp.Started,
	}, nil
}

// Leave removes a participant from a remote match
func (c *Client) Leave(ctx context.Context, input *match.LeaveInput) (*match.LeaveOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	resp := new(LeaveResponse)
	err := c.conn.Invoke(ctx, MatchServiceLeaveFullMethod, &LeaveRequest{
		MatchID:       input.MatchID,
		ParticipantID: string(input.ParticipantID),
	}, resp, c.opts...)
	if err != nil {
		return nil, errors.Wrap(errors.FromGRPCError(err), "leave failed")
	}

	return &match.LeaveOutput{Snapshot: resp.Snapshot}, nil
}

// CommitMove forwards a commit to the authority
func (c *Client) CommitMove(ctx context.Context, input *match.CommitMoveInput) (*match.CommitMoveOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	req := &CommitMoveRequest{
		MatchID:       input.MatchID,
		ParticipantID: string(input.ParticipantID),
		Move:          input.Move.String(),
		Round:         input.Round,
	}
	if input.TargetID != nil {
		target := string(*input.TargetID)
		req.TargetID = &target
	}

	resp := new(CommitMoveResponse)
	if err := c.conn.Invoke(ctx, MatchServiceCommitMoveFullMethod, req, resp, c.opts...); err != nil {
		return nil, errors.Wrapf(errors.FromGRPCError(err), "commit %s failed", input.Move)
	}

	out := &match.CommitMoveOutput{
		Round:    resp.Round,
		Resolved: resp.Resolved,
		Snapshot: resp.Snapshot,
	}
	if resp.TargetID != nil {
		target := entities.ParticipantID(*resp.TargetID)
		out.TargetID = &target
	}
	return out, nil
}

// GetSnapshot fetches the latest authoritative snapshot
func (c *Client) GetSnapshot(ctx context.Context, matchID string) (*entities.Snapshot, error) {
	resp := new(GetSnapshotResponse)
	err := c.conn.Invoke(ctx, MatchServiceGetSnapshotFullMethod, &GetSnapshotRequest{MatchID: matchID}, resp, c.opts...)
	if err != nil {
		return nil, errors.Wrap(errors.FromGRPCError(err), "get snapshot failed")
	}
	if resp.Snapshot == nil {
		return nil, errors.MalformedSnapshotf("no snapshot returned for match %s", matchID)
	}
	return resp.Snapshot, nil
}

// Watch calls fn with every snapshot streamed for the match until the match
// is over, ctx ends or fn returns an error
func (c *Client) Watch(ctx context.Context, matchID string, fn func(context.Context, *entities.Snapshot) error) error {
	stream, err := c.conn.NewStream(ctx, &MatchServiceDesc.Streams[0], MatchServiceWatchMatchFullMethod, c.opts...)
	if err != nil {
		return errors.Wrap(errors.FromGRPCError(err), "watch failed")
	}
	if err := stream.SendMsg(&WatchMatchRequest{MatchID: matchID}); err != nil {
		return errors.Wrap(errors.FromGRPCError(err), "watch failed")
	}
	if err := stream.CloseSend(); err != nil {
		return errors.Wrap(errors.FromGRPCError(err), "watch failed")
	}

	for {
		resp := new(WatchMatchResponse)
		if err := stream.RecvMsg(resp); err != nil {
			if err == io.EOF {
				return nil
			}
			if ctx.Err() != nil {
				return errors.WrapWithCode(ctx.Err(), errors.CodeCanceled, "watch stopped")
			}
			return errors.Wrap(errors.FromGRPCError(err), "watch interrupted")
		}
		if resp.Snapshot == nil {
			continue
		}
		if err := fn(ctx, resp.Snapshot); err != nil {
			return err
		}
	}
}
