// Package agenda implements the search frontier for state-space searches.
//
// An Agenda holds states waiting to be expanded. Its policy, fixed at
// construction, decides which state comes out next: the most recently put
// one (depth-first, a stack) or the least recently put one (breadth-first,
// a queue). The payload is opaque to the Agenda.
package agenda

import (
	"errors"
	"fmt"
)

// Policy selects the removal discipline of an Agenda.
type Policy int

const (
	// DepthFirst removes the most recently put item.
	DepthFirst Policy = iota + 1
	// BreadthFirst removes the least recently put item.
	BreadthFirst
)

// Policy names as accepted by ParsePolicy.
const (
	depthFirstName   = "depth-first"
	breadthFirstName = "breadth-first"
)

// ErrInvalidPolicy is returned for policies other than DepthFirst and BreadthFirst.
var ErrInvalidPolicy = errors.New("invalid agenda policy")

// ErrEmptyFrontier is returned by Get on an empty Agenda.
var ErrEmptyFrontier = errors.New("get from an empty agenda")

// InvalidPolicyError reports the rejected policy value.
type InvalidPolicyError struct {
	Policy string
}

// Error implements the error interface.
func (e *InvalidPolicyError) Error() string {
	return fmt.Sprintf("%s %s: must be %q or %q", ErrInvalidPolicy, e.Policy, depthFirstName, breadthFirstName)
}

// Unwrap lets errors.Is match ErrInvalidPolicy.
func (e *InvalidPolicyError) Unwrap() error {
	return ErrInvalidPolicy
}

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case DepthFirst:
		return depthFirstName
	case BreadthFirst:
		return breadthFirstName
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// Valid reports whether p is one of the recognized policies.
func (p Policy) Valid() bool {
	return p == DepthFirst || p == BreadthFirst
}

// ParsePolicy converts "depth-first" or "breadth-first" to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case depthFirstName:
		return DepthFirst, nil
	case breadthFirstName:
		return BreadthFirst, nil
	default:
		return 0, &InvalidPolicyError{Policy: fmt.Sprintf("%q", s)}
	}
}

// Agenda is a search frontier with a fixed removal policy.
//
// An Agenda is not safe for concurrent use; concurrent searches give each
// worker its own Agenda.
type Agenda[T any] struct {
	policy Policy
	items  []T
}

// New creates an empty Agenda with the given policy.
func New[T any](policy Policy) (*Agenda[T], error) {
	if !policy.Valid() {
		return nil, &InvalidPolicyError{Policy: policy.String()}
	}
	return &Agenda[T]{
		policy: policy,
		items:  make([]T, 0, 64),
	}, nil
}

// Policy returns the Agenda's removal policy.
func (a *Agenda[T]) Policy() Policy {
	return a.policy
}

// Put adds an item to the Agenda.
func (a *Agenda[T]) Put(item T) {
	a.items = append(a.items, item)
}

// Get removes and returns the next item according to the policy.
// Returns ErrEmptyFrontier if the Agenda is empty; callers check IsEmpty
// first.
func (a *Agenda[T]) Get() (T, error) {
	var zero T
	if len(a.items) == 0 {
		return zero, ErrEmptyFrontier
	}

	var item T
	if a.policy == DepthFirst {
		last := len(a.items) - 1
		item = a.items[last]
		// Clear the slot so the backing array does not pin consumed states.
		a.items[last] = zero
		a.items = a.items[:last]
		return item, nil
	}

	item = a.items[0]
	a.items[0] = zero
	if len(a.items) == 1 {
		a.items = a.items[:0]
	} else {
		a.items = a.items[1:]
	}
	return item, nil
}

// IsEmpty reports whether the Agenda holds no items.
func (a *Agenda[T]) IsEmpty() bool {
	return len(a.items) == 0
}

// Len returns the number of items waiting in the Agenda.
func (a *Agenda[T]) Len() int {
	return len(a.items)
}

// String describes the Agenda for debugging.
func (a *Agenda[T]) String() string {
	return fmt.Sprintf("<Agenda %s: %d>", a.policy, len(a.items))
}
