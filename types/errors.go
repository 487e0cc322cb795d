package types

import (
	"errors"
	"fmt"
)

// ErrorKind identifies a class of assistant failure. Kinds map onto HTTP
// statuses at the endpoint layer.
type ErrorKind string

const (
	ErrUnknownIntent        ErrorKind = "unknown_intent"
	ErrInvalidParams        ErrorKind = "invalid_params"
	ErrNotFound             ErrorKind = "not_found"
	ErrInvalidRange         ErrorKind = "invalid_range"
	ErrScheduleConflict     ErrorKind = "schedule_conflict"
	ErrExecution            ErrorKind = "execution_error"
	ErrMissingInput         ErrorKind = "missing_text"
	ErrUnauthenticated      ErrorKind = "not_authenticated"
	ErrMissingConfiguration ErrorKind = "missing_configuration"
	ErrTranscription        ErrorKind = "transcription_failed"
)

// DomainError carries an error kind plus a human-readable message. Need is
// populated only for invalid_params.
type DomainError struct {
	Kind    ErrorKind
	Message string
	Need    []string
}

func (e *DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Kind)
}

// NewError builds a DomainError with a formatted message.
func NewError(kind ErrorKind, format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// InvalidParams builds the aggregated missing/invalid-fields error.
func InvalidParams(need []string) *DomainError {
	return &DomainError{
		Kind:    ErrInvalidParams,
		Message: fmt.Sprintf("missing or invalid fields: %v", need),
		Need:    need,
	}
}

// KindOf extracts the error kind, defaulting to execution_error for
// anything that is not a DomainError.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ErrExecution
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(kind ErrorKind) int {
	switch kind {
	case ErrInvalidParams, ErrInvalidRange, ErrMissingInput, ErrUnknownIntent:
		return 400
	case ErrUnauthenticated:
		return 401
	case ErrNotFound:
		return 404
	case ErrScheduleConflict:
		return 409
	default:
		return 500
	}
}
