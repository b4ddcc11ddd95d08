package ir

import (
	"errors"
	"fmt"
)

// Error is the structured error returned across minikb package boundaries.
//
// Errors carry a Code for programmatic handling; absence of data is never an
// error (callers get empty results instead).
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Op names the operation that failed (e.g., "add", "match").
	Op string

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes errors.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates malformed input: wrong arity, a
	// variable where a ground term is required, an empty model set.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// ErrCodeStorageUnavailable indicates the persistence substrate could not
	// be reached or a transaction failed.
	ErrCodeStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"
)

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = fmt.Sprintf("%s: %v", msg, e.Err)
		}
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Op, msg)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewInvalidArgument creates an Error for malformed input.
func NewInvalidArgument(op, message string) *Error {
	return &Error{Code: ErrCodeInvalidArgument, Op: op, Message: message}
}

// NewStorageUnavailable wraps a storage failure.
func NewStorageUnavailable(op string, err error) *Error {
	return &Error{Code: ErrCodeStorageUnavailable, Op: op, Err: err}
}

// IsInvalidArgument returns true if err is an InvalidArgument error.
// Uses errors.As to handle wrapped errors.
func IsInvalidArgument(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == ErrCodeInvalidArgument
	}
	return false
}

// IsStorageUnavailable returns true if err is a StorageUnavailable error.
// Uses errors.As to handle wrapped errors.
func IsStorageUnavailable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == ErrCodeStorageUnavailable
	}
	return false
}
