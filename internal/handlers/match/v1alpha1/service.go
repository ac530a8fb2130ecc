package v1alpha1

import (
	"context"

	"google.golang.org/grpc"

	"github.com/KirkDiggler/egg-brawl/internal/entities"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "eggbrawl.api.v1alpha1.MatchService"

// Full method names
const (
	MatchServiceJoinFullMethod        = "/" + ServiceName + "/Join"
	MatchServiceLeaveFullMethod       = "/" + ServiceName + "/Leave"
	MatchServiceCommitMoveFullMethod  = "/" + ServiceName + "/CommitMove"
	MatchServiceGetSnapshotFullMethod = "/" + ServiceName + "/GetSnapshot"
	MatchServiceWatchMatchFullMethod  = "/" + ServiceName + "/WatchMatch"
)

// JoinRequest adds a participant to a match, creating the match if needed
type JoinRequest struct {
	MatchID       string `json:"matchId"`
	ParticipantID string `json:"participantId"`
	DisplayName   string `json:"displayName,omitempty"`
}

// JoinResponse carries the match after the join
type JoinResponse struct {
	Snapshot *entities.Snapshot `json:"snapshot"`
	Started  bool               `json:"started"`
}

// LeaveRequest removes a participant from play
type LeaveRequest struct {
	MatchID       string `json:"matchId"`
	ParticipantID string `json:"participantId"`
}

// LeaveResponse carries the match after the leave
type LeaveResponse struct {
	Snapshot *entities.Snapshot `json:"snapshot"`
}

// CommitMoveRequest is the move-commit message on the wire
type CommitMoveRequest struct {
	MatchID       string  `json:"matchId"`
	ParticipantID string  `json:"participantId"`
	Move          string  `json:"move"`
	TargetID      *string `json:"targetId,omitempty"`
	Round         int     `json:"round,omitempty"`
}

// CommitMoveResponse reports where the commit landed
type CommitMoveResponse struct {
	Round    int                `json:"round"`
	Resolved bool               `json:"resolved"`
	TargetID *string            `json:"targetId,omitempty"`
	Snapshot *entities.Snapshot `json:"snapshot"`
}

// GetSnapshotRequest asks for the latest authoritative snapshot
type GetSnapshotRequest struct {
	MatchID string `json:"matchId"`
}

// GetSnapshotResponse carries the latest authoritative snapshot
type GetSnapshotResponse struct {
	Snapshot *entities.Snapshot `json:"snapshot"`
}

// WatchMatchRequest subscribes to a match
type WatchMatchRequest struct {
	MatchID string `json:"matchId"`
}

// WatchMatchResponse is one state change. Event is empty for the initial snapshot.
type WatchMatchResponse struct {
	Event    string             `json:"event,omitempty"`
	Snapshot *entities.Snapshot `json:"snapshot"`
}

// MatchServiceServer is the server API for the match service
type MatchServiceServer interface {
	Join(context.Context, *JoinRequest) (*JoinResponse, error)
	Leave(context.Context, *LeaveRequest) (*LeaveResponse, error)
	CommitMove(context.Context, *CommitMoveRequest) (*CommitMoveResponse, error)
	GetSnapshot(context.Context, *GetSnapshotRequest) (*GetSnapshotResponse, error)
	WatchMatch(*WatchMatchRequest, grpc.ServerStreamingServer[WatchMatchResponse]) error
}

// RegisterMatchServiceServer registers srv on s
func RegisterMatchServiceServer(s grpc.ServiceRegistrar, srv MatchServiceServer) {
	s.RegisterService(&MatchServiceDesc, srv)
}

// MatchServiceDesc describes the match service for grpc.ServiceRegistrar
var MatchServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MatchServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Join",
			Handler:    unaryHandler(MatchServiceJoinFullMethod, MatchServiceServer.Join),
		},
		{
			MethodName: "Leave",
			Handler:    unaryHandler(MatchServiceLeaveFullMethod, MatchServiceServer.Leave),
		},
		{
			MethodName: "CommitMove",
			Handler:    unaryHandler(MatchServiceCommitMoveFullMethod, MatchServiceServer.CommitMove),
		},
		{
			MethodName: "GetSnapshot",
			Handler:    unaryHandler(MatchServiceGetSnapshotFullMethod, MatchServiceServer.GetSnapshot),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchMatch",
			Handler:       watchMatchHandler,
			ServerStreams: true,
		},
	},
	Metadata: "eggbrawl/api/v1alpha1/match.proto",
}

func unaryHandler[Req, Resp any](
	fullMethod string,
	call func(MatchServiceServer, context.Context, *Req) (*Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(MatchServiceServer), ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(MatchServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func watchMatchHandler(srv any, stream grpc.ServerStream) error {
	in := new(WatchMatchRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(MatchServiceServer).WatchMatch(in, &grpc.GenericServerStream[WatchMatchRequest, WatchMatchResponse]{ServerStream: stream})
}
