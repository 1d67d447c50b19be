package engine

import (
	"errors"
	"fmt"
)

// SearchError represents a failure that aborted a run.
//
// Dead ends are not errors: they are an expected outcome of the rules and
// only prune a branch. A SearchError means the run produced no usable
// result set.
type SearchError struct {
	// Code identifies the error category.
	Code SearchErrorCode

	// Message is a human-readable description.
	Message string

	// RunID identifies the affected run.
	RunID string

	// Err is the underlying cause, if any.
	Err error
}

// SearchErrorCode categorizes search errors.
type SearchErrorCode string

const (
	// ErrCodeQuotaExceeded indicates the run expanded more states than allowed.
	ErrCodeQuotaExceeded SearchErrorCode = "QUOTA_EXCEEDED"

	// ErrCodeCancelled indicates the run's context was cancelled.
	ErrCodeCancelled SearchErrorCode = "CANCELLED"

	// ErrCodeSinkFailed indicates a result sink rejected a completed line.
	ErrCodeSinkFailed SearchErrorCode = "SINK_FAILED"
)

// Error implements the error interface.
func (e *SearchError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.RunID != "" {
		msg = fmt.Sprintf("%s (run=%s)", msg, e.RunID)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *SearchError) Unwrap() error {
	return e.Err
}

// IsQuotaError returns true if err is a quota failure, either a
// SearchError with ErrCodeQuotaExceeded or a bare StatesExceededError.
func IsQuotaError(err error) bool {
	var se *SearchError
	if errors.As(err, &se) && se.Code == ErrCodeQuotaExceeded {
		return true
	}
	return IsStatesExceededError(err)
}

// wrapSearchError classifies err for the run.
func wrapSearchError(runID string, err error) error {
	if err == nil {
		return nil
	}
	var se *SearchError
	if errors.As(err, &se) {
		return err
	}
	switch {
	case IsStatesExceededError(err):
		return &SearchError{Code: ErrCodeQuotaExceeded, Message: "search budget exhausted", RunID: runID, Err: err}
	case isContextError(err):
		return &SearchError{Code: ErrCodeCancelled, Message: "search cancelled", RunID: runID, Err: err}
	default:
		return err
	}
}
