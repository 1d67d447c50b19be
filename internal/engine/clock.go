package engine

import "sync/atomic"

// Clock is a monotonic logical clock stamping every expansion.
//
// Trace events carry its sequence numbers, so the order in which a policy
// visits states is observable and reproducible. Safe for concurrent use;
// under RunParallel the interleaving of workers is not deterministic, but
// every stamp is still unique.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0. The first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
