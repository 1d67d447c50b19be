package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/cantus/internal/agenda"
	"github.com/roach88/cantus/internal/counterpoint"
	"github.com/roach88/cantus/internal/pitch"
	"github.com/roach88/cantus/internal/telemetry"
)

// KeyFunc renders a completed line to the key it is tallied under.
type KeyFunc func([]pitch.Note) string

// Sink receives every completed line as it is found, duplicates included.
// A Sink error aborts the run.
type Sink interface {
	Record(ctx context.Context, runID, key string, line []pitch.Note) error
}

// TraceEvent describes one expansion.
type TraceEvent struct {
	Seq        int64                `json:"seq"`
	Index      int                  `json:"index"`
	Outcome    counterpoint.Outcome `json:"outcome"`
	Line       string               `json:"line"`
	Successors int                  `json:"successors"`
}

// TraceFunc observes expansions. Under RunParallel it is called from
// several goroutines and must be safe for concurrent use.
type TraceFunc func(TraceEvent)

// Engine enumerates every first species counterpoint for one cantus
// firmus, voice and mode.
//
// An Engine is immutable after New and may Run any number of times; each
// run starts from the same root and gets its own Agenda, tally, trace clock
// and run ID.
type Engine struct {
	root      *counterpoint.State
	policy    agenda.Policy
	maxStates int
	keyFunc   KeyFunc
	runIDs    RunIDGenerator
	metrics   *telemetry.Metrics
	sinks     []Sink
	trace     TraceFunc
	logger    *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithPolicy sets the Agenda policy. Default: agenda.DepthFirst.
func WithPolicy(p agenda.Policy) EngineOption {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithMaxStates caps the number of expansions per run. 0 means unbounded
// (DefaultMaxStates).
func WithMaxStates(n int) EngineOption {
	return func(e *Engine) {
		e.maxStates = n
	}
}

// WithKeyFunc sets how completed lines are rendered for the tally.
// Default: pitch.Line.
func WithKeyFunc(f KeyFunc) EngineOption {
	return func(e *Engine) {
		e.keyFunc = f
	}
}

// WithRunIDGenerator sets the run ID source. Default: UUIDv7Generator.
func WithRunIDGenerator(g RunIDGenerator) EngineOption {
	return func(e *Engine) {
		e.runIDs = g
	}
}

// WithMetrics records search metrics into m.
func WithMetrics(m *telemetry.Metrics) EngineOption {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithSink forwards every completed line to s. May be given several times.
func WithSink(s Sink) EngineOption {
	return func(e *Engine) {
		e.sinks = append(e.sinks, s)
	}
}

// WithTrace calls f for every expansion.
func WithTrace(f TraceFunc) EngineOption {
	return func(e *Engine) {
		e.trace = f
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = l
	}
}

// New validates the inputs, builds the root State and returns an Engine.
func New(cf []pitch.Note, voice counterpoint.Voice, mode pitch.Mode, opts ...EngineOption) (*Engine, error) {
	root, err := counterpoint.New(cf, voice, mode)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	e := &Engine{
		root:      root,
		policy:    agenda.DepthFirst,
		maxStates: DefaultMaxStates,
		keyFunc:   pitch.Line,
		runIDs:    UUIDv7Generator{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if !e.policy.Valid() {
		return nil, fmt.Errorf("engine: %w", &agenda.InvalidPolicyError{Policy: e.policy.String()})
	}
	return e, nil
}

// Root returns the root State of every run.
func (e *Engine) Root() *counterpoint.State {
	return e.root
}

// Policy returns the Agenda policy.
func (e *Engine) Policy() agenda.Policy {
	return e.policy
}

// Run enumerates the whole search tree on one goroutine.
//
// It returns the tally once the Agenda is empty. Dead ends are counted in
// the stats, not reported as errors. The only errors are cancellation of
// ctx, an exhausted state budget and sink failures; partial results are
// discarded in each case.
func (e *Engine) Run(ctx context.Context) (*Results, error) {
	r := e.start()
	quota := NewQuotaEnforcer(e.maxStates)

	frontier, err := agenda.New[*counterpoint.State](e.policy)
	if err != nil {
		return nil, err
	}
	frontier.Put(e.root)

	start := time.Now()
	err = e.drain(ctx, frontier, r, quota)
	return e.finish(r, start, wrapSearchError(r.RunID, err))
}

// start allocates the tally for a new run and logs its parameters.
func (e *Engine) start() *Results {
	r := newResults(e.runIDs.Generate(), e.policy)
	e.logger.Info("search starting",
		"run_id", r.RunID,
		"cantus", pitch.Line(e.root.Cantus()),
		"voice", e.root.Voice().String(),
		"mode", e.root.Mode().Name(),
		"policy", e.policy.String(),
	)
	e.metrics.RunStarted(e.policy.String())
	return r
}

func (e *Engine) finish(r *Results, start time.Time, err error) (*Results, error) {
	elapsed := time.Since(start)
	if err != nil {
		e.logger.Error("search failed", "run_id", r.RunID, "error", err)
		e.metrics.RunFinished(e.policy.String(), "error", elapsed)
		return nil, err
	}

	stats := r.Stats()
	e.logger.Info("search finished",
		"run_id", r.RunID,
		"distinct", r.Len(),
		"completed", stats.Completed,
		"dead_ends", stats.DeadEnds,
		"expanded", stats.Expanded,
		"elapsed", elapsed,
	)
	if e.trace != nil {
		e.logger.Debug("trace complete", "run_id", r.RunID, "events", r.clock.Current())
	}
	if dups := r.Duplicates(); len(dups) > 0 {
		e.logger.Warn("duplicate derivations found", "run_id", r.RunID, "lines", len(dups))
	}
	e.metrics.RunFinished(e.policy.String(), "ok", elapsed)
	return r, nil
}

// drain runs the pop/expand/push loop until frontier is empty.
func (e *Engine) drain(ctx context.Context, frontier *agenda.Agenda[*counterpoint.State], r *Results, quota *QuotaEnforcer) error {
	for !frontier.IsEmpty() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := quota.Check(r.RunID); err != nil {
			return err
		}

		s, err := frontier.Get()
		if err != nil {
			return err
		}
		next, err := e.expand(ctx, s, r)
		if err != nil {
			return err
		}
		for _, k := range next {
			frontier.Put(k)
		}

		pending := r.expanded(frontier.Len(), len(next)-1)
		e.metrics.FrontierSize(pending)
	}
	return nil
}

// expand applies one transition and records its outcome. It returns the
// successors to put back on the frontier.
func (e *Engine) expand(ctx context.Context, s *counterpoint.State, r *Results) ([]*counterpoint.State, error) {
	outcome, next := s.Next()
	e.metrics.Expanded(outcome.String())

	if e.trace != nil {
		e.trace(TraceEvent{
			Seq:        r.clock.Next(),
			Index:      s.Index(),
			Outcome:    outcome,
			Line:       pitch.Line(s.Counterpoint()),
			Successors: len(next),
		})
	}

	switch outcome {
	case counterpoint.DeadEnd:
		r.deadEnd()
		e.logger.Debug("dead end: no indirect motion to a perfect consonance",
			"run_id", r.RunID,
			"index", s.Index(),
			"cp", pitch.Line(s.Counterpoint()),
		)
		return nil, nil

	case counterpoint.Done:
		line := s.Counterpoint()
		key := e.keyFunc(line)
		if n := r.record(key, line); n > 1 {
			e.metrics.Duplicate()
			e.logger.Warn("line derived more than once", "run_id", r.RunID, "line", key, "count", n)
		}
		for _, sink := range e.sinks {
			if err := sink.Record(ctx, r.RunID, key, line); err != nil {
				return nil, &SearchError{Code: ErrCodeSinkFailed, Message: "recording completed line", RunID: r.RunID, Err: err}
			}
		}
		return nil, nil

	default:
		return next, nil
	}
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
