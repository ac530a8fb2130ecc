package errors

import (
	"fmt"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// errorDomain identifies errors raised by this service in ErrorInfo details
const errorDomain = "egg-brawl"

// ToGRPCError converts an error to a gRPC status error. The original code and
// metadata travel as an ErrorInfo detail so FromGRPCError can restore game codes
// that share a gRPC code with generic ones.
func ToGRPCError(err error) error {
	if err == nil {
		return nil
	}

	if _, ok := status.FromError(err); ok {
		return err
	}

	var customErr *Error
	if As(err, &customErr) {
		st := status.New(customErr.Code.GRPCCode(), customErr.Message)

		info := &errdetails.ErrorInfo{
			Reason:   string(customErr.Code),
			Domain:   errorDomain,
			Metadata: make(map[string]string, len(customErr.Meta)),
		}
		for k, v := range customErr.Meta {
			info.Metadata[k] = fmt.Sprint(v)
		}
		if withDetails, detailErr := st.WithDetails(info); detailErr == nil {
			st = withDetails
		}

		return st.Err()
	}

	return status.Error(codes.Internal, err.Error())
}

// FromGRPCError turns a status error back into an *Error, restoring the
// original code and meta from the ErrorInfo detail when present
func FromGRPCError(err error) error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	customErr := &Error{
		Code:    grpcCodeToCode(st.Code()),
		Message: st.Message(),
	}

	for _, detail := range st.Details() {
		info, ok := detail.(*errdetails.ErrorInfo)
		if !ok || info.GetDomain() != errorDomain {
			continue
		}
		if info.GetReason() != "" {
			customErr.Code = Code(info.GetReason())
		}
		if len(info.GetMetadata()) > 0 {
			customErr.Meta = make(map[string]interface{}, len(info.GetMetadata()))
			for k, v := range info.GetMetadata() {
				customErr.Meta[k] = v
			}
		}
		break
	}

	return customErr
}

// GRPCCode returns the status code a code travels under. Game codes share
// a gRPC code with a generic one and are told apart by the ErrorInfo detail.
func (c Code) GRPCCode() codes.Code {
	switch c {
	case CodeOK:
		return codes.OK
	case CodeCanceled:
		return codes.Canceled
	case CodeInvalidArgument:
		return codes.InvalidArgument
	case CodeDeadlineExceeded:
		return codes.DeadlineExceeded
	case CodeNotFound, CodeInvalidParticipant:
		return codes.NotFound
	case CodeAlreadyExists:
		return codes.AlreadyExists
	case CodeFailedPrecondition, CodeMoveNotAllowed:
		return codes.FailedPrecondition
	case CodeAborted:
		return codes.Aborted
	case CodeInternal:
		return codes.Internal
	case CodeUnavailable:
		return codes.Unavailable
	case CodeMalformedSnapshot:
		return codes.DataLoss
	default:
		return codes.Unknown
	}
}

// grpcCodeToCode is the fallback when a status carries no ErrorInfo
func grpcCodeToCode(grpcCode codes.Code) Code {
	switch grpcCode {
	case codes.OK:
		return CodeOK
	case codes.Canceled:
		return CodeCanceled
	case codes.InvalidArgument:
		return CodeInvalidArgument
	case codes.DeadlineExceeded:
		return CodeDeadlineExceeded
	case codes.NotFound:
		return CodeNotFound
	case codes.AlreadyExists:
		return CodeAlreadyExists
	case codes.FailedPrecondition:
		return CodeFailedPrecondition
	case codes.Aborted:
		return CodeAborted
	case codes.Unavailable:
		return CodeUnavailable
	case codes.DataLoss:
		return CodeMalformedSnapshot
	default:
		return CodeInternal
	}
}
