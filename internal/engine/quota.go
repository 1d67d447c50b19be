package engine

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// DefaultMaxStates is the default expansion budget: unbounded. The search
// always terminates; the budget exists to cap runaway cantus lengths.
const DefaultMaxStates = 0

// QuotaEnforcer counts expansions and enforces an optional maximum.
// Safe for concurrent use: parallel workers share one enforcer.
type QuotaEnforcer struct {
	maxStates int64
	current   atomic.Int64
}

// NewQuotaEnforcer creates an enforcer. maxStates <= 0 disables the limit.
func NewQuotaEnforcer(maxStates int) *QuotaEnforcer {
	return &QuotaEnforcer{maxStates: int64(maxStates)}
}

// Check counts one expansion and returns StatesExceededError once the
// count passes the limit.
func (q *QuotaEnforcer) Check(runID string) error {
	n := q.current.Add(1)
	if q.maxStates > 0 && n > q.maxStates {
		return &StatesExceededError{RunID: runID, States: n, Limit: q.maxStates}
	}
	return nil
}

// Current returns the number of expansions counted so far.
func (q *QuotaEnforcer) Current() int64 {
	return q.current.Load()
}

// MaxStates returns the limit, 0 when unbounded.
func (q *QuotaEnforcer) MaxStates() int64 {
	return q.maxStates
}

// StatesExceededError is returned when a run expands more states than its
// budget allows. The partial results are discarded.
type StatesExceededError struct {
	RunID  string
	States int64
	Limit  int64
}

// Error implements the error interface.
func (e *StatesExceededError) Error() string {
	return fmt.Sprintf("run %s exceeded max states quota: %d states > %d limit",
		e.RunID, e.States, e.Limit)
}

// IsStatesExceededError returns true if the error is a StatesExceededError.
// Uses errors.As to handle wrapped errors.
func IsStatesExceededError(err error) bool {
	var se *StatesExceededError
	return errors.As(err, &se)
}
