package harness

import (
	"context"
	"fmt"

	"github.com/roach88/cantus/internal/engine"
	"github.com/roach88/cantus/internal/pitch"
	"github.com/roach88/cantus/internal/store"
	"github.com/roach88/cantus/internal/testutil"
)

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation. The
// engine records every completed line into it, and assertions query it.
//
// An error means the scenario could not run (bad exercise, search failure);
// failed assertions are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	ex, err := scenario.resolveExercise()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve exercise: %w", err)
	}

	st, err := store.Open(store.Memory)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	runIDs := testutil.NewFixedRunIDGenerator(scenario.RunID)
	runID := runIDs.Generate()

	eng, err := ex.Engine(
		engine.WithSink(st),
		engine.WithRunIDGenerator(runIDs),
		engine.WithLogger(testutil.QuietLogger()), // Suppress logs in tests
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	if err := st.WriteRun(ctx, store.Run{
		ID:       runID,
		Exercise: ex.Name,
		Cantus:   pitch.Line(ex.Cantus),
		Voice:    ex.Voice.String(),
		Mode:     ex.Mode.Name(),
		Policy:   ex.Policy.String(),
	}); err != nil {
		return nil, err
	}

	var results *engine.Results
	if scenario.Workers > 1 {
		results, err = eng.RunParallel(ctx, scenario.Workers)
	} else {
		results, err = eng.Run(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	digest, err := results.Digest()
	if err != nil {
		return nil, err
	}
	if err := st.FinishRun(ctx, runID, digest, results.Len(), results.Total()); err != nil {
		return nil, err
	}

	result := NewResult()
	result.RunID = runID
	result.Digest = digest
	result.Stats = results.Stats()
	for _, e := range results.Entries() {
		result.Lines = append(result.Lines, LineResult{Line: e.Key, Count: e.Count})
	}

	actx := &AssertionContext{
		Ctx:      ctx,
		Store:    st,
		RunID:    runID,
		Exercise: ex,
		Results:  results,
	}
	for _, msg := range EvaluateAssertions(scenario.Assertions, actx) {
		result.AddError(msg)
	}
	return result, nil
}

// RunDir loads and runs every scenario in dir.
func RunDir(ctx context.Context, dir string) (map[string]*Result, error) {
	scenarios, err := LoadScenarios(dir)
	if err != nil {
		return nil, err
	}

	out := make(map[string]*Result, len(scenarios))
	for _, s := range scenarios {
		r, err := RunContext(ctx, s)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
		}
		out[s.Name] = r
	}
	return out, nil
}
