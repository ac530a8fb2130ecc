package errors

import (
	"errors"
)

// As is errors.As narrowed to *Error
func As(err error, target **Error) bool {
	return errors.As(err, target)
}

// codeOf returns the code of the outermost *Error in the chain.
// Foreign errors count as Internal.
func codeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// Request and lifecycle errors

// NotFound creates a not found error
func NotFound(message string) *Error { return New(CodeNotFound, message) }

// NotFoundf creates a not found error with formatted message
func NotFoundf(format string, args ...interface{}) *Error { return Newf(CodeNotFound, format, args...) }

// InvalidArgument creates an invalid argument error
func InvalidArgument(message string) *Error { return New(CodeInvalidArgument, message) }

// InvalidArgumentf creates an invalid argument error with formatted message
func InvalidArgumentf(format string, args ...interface{}) *Error {
	return Newf(CodeInvalidArgument, format, args...)
}

// AlreadyExistsf reports a participant or match that is already present
func AlreadyExistsf(format string, args ...interface{}) *Error {
	return Newf(CodeAlreadyExists, format, args...)
}

// FailedPrecondition reports an operation the match is not ready for, like a commit before start
func FailedPrecondition(message string) *Error { return New(CodeFailedPrecondition, message) }

// FailedPreconditionf creates a failed precondition error with formatted message
func FailedPreconditionf(format string, args ...interface{}) *Error {
	return Newf(CodeFailedPrecondition, format, args...)
}

// Aborted reports a commit for a round that already closed
func Aborted(message string) *Error { return New(CodeAborted, message) }

// Abortedf creates an aborted error with formatted message
func Abortedf(format string, args ...interface{}) *Error { return Newf(CodeAborted, format, args...) }

// Internal creates an internal error
func Internal(message string) *Error { return New(CodeInternal, message) }

// Internalf creates an internal error with formatted message
func Internalf(format string, args ...interface{}) *Error { return Newf(CodeInternal, format, args...) }

// Game errors

// InvalidParticipant reports an unknown or dead participant used as actor or target
func InvalidParticipant(message string) *Error { return New(CodeInvalidParticipant, message) }

// InvalidParticipantf creates an invalid participant error with formatted message
func InvalidParticipantf(format string, args ...interface{}) *Error {
	return Newf(CodeInvalidParticipant, format, args...)
}

// MoveNotAllowed reports a move rejected by a limited-use guard
func MoveNotAllowed(message string) *Error { return New(CodeMoveNotAllowed, message) }

// MoveNotAllowedf creates a move not allowed error with formatted message
func MoveNotAllowedf(format string, args ...interface{}) *Error {
	return Newf(CodeMoveNotAllowed, format, args...)
}

// MalformedSnapshot reports a snapshot outside the documented shape
func MalformedSnapshot(message string) *Error { return New(CodeMalformedSnapshot, message) }

// MalformedSnapshotf creates a malformed snapshot error with formatted message
func MalformedSnapshotf(format string, args ...interface{}) *Error {
	return Newf(CodeMalformedSnapshot, format, args...)
}

// Predicates

func IsNotFound(err error) bool           { return codeOf(err) == CodeNotFound }
func IsInvalidArgument(err error) bool    { return codeOf(err) == CodeInvalidArgument }
func IsAlreadyExists(err error) bool      { return codeOf(err) == CodeAlreadyExists }
func IsFailedPrecondition(err error) bool { return codeOf(err) == CodeFailedPrecondition }
func IsAborted(err error) bool            { return codeOf(err) == CodeAborted }
func IsCanceled(err error) bool           { return codeOf(err) == CodeCanceled }
func IsInternal(err error) bool           { return codeOf(err) == CodeInternal }
func IsInvalidParticipant(err error) bool { return codeOf(err) == CodeInvalidParticipant }
func IsMoveNotAllowed(err error) bool     { return codeOf(err) == CodeMoveNotAllowed }
func IsMalformedSnapshot(err error) bool  { return codeOf(err) == CodeMalformedSnapshot }
