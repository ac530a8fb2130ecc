package errors

import "net/http"

// Code classifies an error for callers and transports
type Code string

// Codes raised by the match service, plus the transport failures a remote
// client can observe
const (
	CodeOK                 Code = "OK"
	CodeCanceled           Code = "CANCELED"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeDeadlineExceeded   Code = "DEADLINE_EXCEEDED"
	CodeNotFound           Code = "NOT_FOUND"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodeFailedPrecondition Code = "FAILED_PRECONDITION"
	CodeAborted            Code = "ABORTED"
	CodeInternal           Code = "INTERNAL"
	CodeUnavailable        Code = "UNAVAILABLE"

	// Game codes
	CodeInvalidParticipant Code = "INVALID_PARTICIPANT"
	CodeMoveNotAllowed     Code = "MOVE_NOT_ALLOWED"
	CodeMalformedSnapshot  Code = "MALFORMED_SNAPSHOT"
)

func (c Code) String() string {
	return string(c)
}

// HTTPStatus maps a code onto the spectator API's responses
func (c Code) HTTPStatus() int {
	switch c {
	case CodeOK:
		return http.StatusOK
	case CodeCanceled:
		return http.StatusRequestTimeout
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeDeadlineExceeded:
		return http.StatusGatewayTimeout
	case CodeNotFound, CodeInvalidParticipant:
		return http.StatusNotFound
	case CodeAlreadyExists, CodeAborted:
		return http.StatusConflict
	case CodeFailedPrecondition:
		return http.StatusPreconditionFailed
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	case CodeMoveNotAllowed, CodeMalformedSnapshot:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
