package errors

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Code is a standardized, stable error classification.
type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeForbidden       Code = "FORBIDDEN"
	CodeTimeout         Code = "TIMEOUT"
	CodeUnavailable     Code = "UNAVAILABLE"
	CodeInternal        Code = "INTERNAL"
)

// AppError is the standard error type used across the system.
type AppError struct {
	Code    Code
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates an AppError with an explicit code.
func New(code Code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

// Wrap attaches a message to an existing error, preserving its code if it is
// already an AppError, defaulting to CodeInternal otherwise.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	var ae *AppError
	if errors.As(err, &ae) {
		return &AppError{Code: ae.Code, Message: message, Cause: err}
	}

	return &AppError{Code: CodeInternal, Message: message, Cause: err}
}

// InvalidArgument constructs a CodeInvalidArgument error.
func InvalidArgument(message string, cause error) *AppError {
	return New(CodeInvalidArgument, message, cause)
}

// NotFound constructs a CodeNotFound error.
func NotFound(message string, cause error) *AppError {
	return New(CodeNotFound, message, cause)
}

// Conflict constructs a CodeConflict error.
func Conflict(message string, cause error) *AppError {
	return New(CodeConflict, message, cause)
}

// Forbidden constructs a CodeForbidden error.
func Forbidden(message string, cause error) *AppError {
	return New(CodeForbidden, message, cause)
}

// Timeout constructs a CodeTimeout error.
func Timeout(message string, cause error) *AppError {
	return New(CodeTimeout, message, cause)
}

// Unavailable constructs a CodeUnavailable error.
func Unavailable(message string, cause error) *AppError {
	return New(CodeUnavailable, message, cause)
}

// Internal constructs a CodeInternal error.
func Internal(message string, cause error) *AppError {
	return New(CodeInternal, message, cause)
}

// Is reports whether err (or anything it wraps) carries the given code.
func Is(err error, code Code) bool {
	var ae *AppError
	if !errors.As(err, &ae) {
		return false
	}
	return ae.Code == code
}

// ToGRPCStatus maps an AppError's code to a gRPC status, falling back to
// codes.Unknown for errors that never went through this package.
func ToGRPCStatus(err error) error {
	if err == nil {
		return nil
	}

	var ae *AppError
	if !errors.As(err, &ae) {
		return status.Error(codes.Unknown, err.Error())
	}

	var c codes.Code
	switch ae.Code {
	case CodeInvalidArgument:
		c = codes.InvalidArgument
	case CodeNotFound:
		c = codes.NotFound
	case CodeConflict:
		c = codes.Aborted
	case CodeForbidden:
		c = codes.PermissionDenied
	case CodeTimeout:
		c = codes.DeadlineExceeded
	case CodeUnavailable:
		c = codes.Unavailable
	default:
		c = codes.Internal
	}

	return status.Error(c, ae.Error())
}
