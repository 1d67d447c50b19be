package engine

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/cantus/internal/agenda"
	"github.com/roach88/cantus/internal/counterpoint"
)

// RunParallel enumerates the search tree with the given number of workers.
//
// The tree is first expanded breadth-first until the frontier holds at
// least one state per worker. The frontier is then dealt round-robin to the
// workers, each draining its own Agenda under the Engine's policy into a
// shared tally. Subtrees are disjoint, so the result map equals the one Run
// produces. The first worker error cancels the others.
func (e *Engine) RunParallel(ctx context.Context, workers int) (*Results, error) {
	if workers <= 1 {
		return e.Run(ctx)
	}

	r := e.start()
	quota := NewQuotaEnforcer(e.maxStates)
	start := time.Now()

	seeds, err := e.seed(ctx, workers, r, quota)
	if err != nil {
		return e.finish(r, start, wrapSearchError(r.RunID, err))
	}

	frontiers := make([]*agenda.Agenda[*counterpoint.State], 0, workers)
	for i := 0; i < workers && i < len(seeds); i++ {
		a, err := agenda.New[*counterpoint.State](e.policy)
		if err != nil {
			return nil, err
		}
		frontiers = append(frontiers, a)
	}
	for i, s := range seeds {
		frontiers[i%len(frontiers)].Put(s)
	}

	e.logger.Debug("parallel search seeded",
		"run_id", r.RunID,
		"workers", len(frontiers),
		"seeds", len(seeds),
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, f := range frontiers {
		f := f
		g.Go(func() error {
			return e.drain(gctx, f, r, quota)
		})
	}
	err = g.Wait()
	return e.finish(r, start, wrapSearchError(r.RunID, err))
}

// seed expands breadth-first from the root until at least n states are
// pending or the tree is exhausted, and returns the pending states.
func (e *Engine) seed(ctx context.Context, n int, r *Results, quota *QuotaEnforcer) ([]*counterpoint.State, error) {
	frontier, err := agenda.New[*counterpoint.State](agenda.BreadthFirst)
	if err != nil {
		return nil, err
	}
	frontier.Put(e.root)

	for !frontier.IsEmpty() && frontier.Len() < n {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := quota.Check(r.RunID); err != nil {
			return nil, err
		}
		s, err := frontier.Get()
		if err != nil {
			return nil, err
		}
		next, err := e.expand(ctx, s, r)
		if err != nil {
			return nil, err
		}
		for _, k := range next {
			frontier.Put(k)
		}
		e.metrics.FrontierSize(r.expanded(frontier.Len(), len(next)-1))
	}

	seeds := make([]*counterpoint.State, 0, frontier.Len())
	for !frontier.IsEmpty() {
		s, _ := frontier.Get()
		seeds = append(seeds, s)
	}
	return seeds, nil
}
