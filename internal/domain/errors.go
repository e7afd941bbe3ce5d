package domain

import (
	"errors"
	"fmt"
)

var (
	ErrArticleNotFound = errors.New("article not found")
	ErrDuplicateURL    = errors.New("article url already stored")
	ErrSessionNotFound = errors.New("selection session not found")
	ErrSelectionFull   = errors.New("selection already holds the maximum number of categories")
)

// ErrorKind classifies failures for logging and user-facing replies.
type ErrorKind string

const (
	KindValidation      ErrorKind = "validation"
	KindExternalService ErrorKind = "external_service"
	KindDatabase        ErrorKind = "database"
	KindProtocol        ErrorKind = "protocol"
	KindInternal        ErrorKind = "internal"
)

// ValidationError is a user input problem. Message is shown as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ExternalServiceError wraps a failed call to a third-party service.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s error: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// DatabaseError wraps a failed store operation.
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database %s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error { return e.Err }

// ProtocolError wraps a failed acknowledgement, reply, or edit on the platform.
type ProtocolError struct {
	Op  string
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("platform %s: %v", e.Op, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// KindOf classifies err. Unrecognized errors are KindInternal.
func KindOf(err error) ErrorKind {
	var (
		validation *ValidationError
		external   *ExternalServiceError
		database   *DatabaseError
		protocol   *ProtocolError
	)
	switch {
	case errors.As(err, &validation):
		return KindValidation
	case errors.As(err, &external):
		return KindExternalService
	case errors.As(err, &database):
		return KindDatabase
	case errors.As(err, &protocol):
		return KindProtocol
	default:
		return KindInternal
	}
}
