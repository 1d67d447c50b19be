package engine

import (
	"sort"
	"sync"

	"github.com/roach88/cantus/internal/agenda"
	"github.com/roach88/cantus/internal/canonical"
	"github.com/roach88/cantus/internal/pitch"
)

// Entry is one distinct completed line and the number of times the search
// derived it.
type Entry struct {
	Key   string       `json:"line"`
	Line  []pitch.Note `json:"-"`
	Count int          `json:"count"`
}

// Stats summarizes the work a run did.
type Stats struct {
	Expanded  int64 `json:"expanded"`
	DeadEnds  int64 `json:"dead_ends"`
	Completed int64 `json:"completed"`
	// MaxFrontier is the largest Agenda size observed. Under RunParallel it
	// is the largest of any single worker's Agenda.
	MaxFrontier int64 `json:"max_frontier"`
}

// Results is the tally of a run: every distinct completed line keyed by its
// rendered form, with an occurrence count.
//
// Results is safe for concurrent use; parallel workers record into one
// tally.
type Results struct {
	RunID  string
	Policy agenda.Policy

	clock *Clock

	mu      sync.Mutex
	counts  map[string]int
	lines   map[string][]pitch.Note
	stats   Stats
	pending int
}

func newResults(runID string, policy agenda.Policy) *Results {
	return &Results{
		RunID:   runID,
		Policy:  policy,
		clock:   NewClock(),
		counts:  make(map[string]int),
		lines:   make(map[string][]pitch.Note),
		pending: 1, // the root
	}
}

// record tallies a completed line and returns its new count.
func (r *Results) record(key string, line []pitch.Note) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stats.Completed++
	if _, ok := r.lines[key]; !ok {
		r.lines[key] = line
	}
	r.counts[key]++
	return r.counts[key]
}

// expanded counts one expansion. frontier is the size of the caller's
// Agenda afterwards and delta the change it made to it. It returns the
// number of states pending across every Agenda of the run.
func (r *Results) expanded(frontier, delta int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stats.Expanded++
	if int64(frontier) > r.stats.MaxFrontier {
		r.stats.MaxFrontier = int64(frontier)
	}
	r.pending += delta
	return r.pending
}

// Pending returns the number of states still waiting on the run's Agendas.
// It is 0 once a run completes.
func (r *Results) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending
}

func (r *Results) deadEnd() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.DeadEnds++
}

// Len returns the number of distinct lines.
func (r *Results) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.counts)
}

// Total returns the number of completed derivations, duplicates included.
func (r *Results) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int(r.stats.Completed)
}

// Count returns how many times the line with the given key was derived.
func (r *Results) Count(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[key]
}

// Counts returns a copy of the key -> count map.
func (r *Results) Counts() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]int, len(r.counts))
	for k, v := range r.counts {
		out[k] = v
	}
	return out
}

// Entries returns every distinct line sorted by key.
func (r *Results) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(r.counts))
	for k := range r.counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]Entry, len(keys))
	for i, k := range keys {
		line := make([]pitch.Note, len(r.lines[k]))
		copy(line, r.lines[k])
		entries[i] = Entry{Key: k, Line: line, Count: r.counts[k]}
	}
	return entries
}

// Duplicates returns the entries derived more than once, sorted by key.
func (r *Results) Duplicates() []Entry {
	var dups []Entry
	for _, e := range r.Entries() {
		if e.Count > 1 {
			dups = append(dups, e)
		}
	}
	return dups
}

// Stats returns a snapshot of the run statistics.
func (r *Results) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// Digest returns a content digest of the result map. Two runs over the
// same inputs produce the same digest regardless of policy, worker count or
// run ID.
func (r *Results) Digest() (string, error) {
	r.mu.Lock()
	obj := make(map[string]any, len(r.counts))
	for k, v := range r.counts {
		obj[k] = v
	}
	r.mu.Unlock()

	return canonical.Digest(canonical.DomainResults, obj)
}
