package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/cantus/internal/canonical"
)

// Snapshot renders a result as canonical JSON for golden comparison.
//
// The snapshot leaves out the peak frontier size, which depends on the
// policy; everything it keeps is identical for every policy and worker
// count.
func Snapshot(name string, r *Result) ([]byte, error) {
	lines := make([]any, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = map[string]any{
			"line":  l.Line,
			"count": l.Count,
		}
	}

	return canonical.Marshal(map[string]any{
		"scenario": name,
		"run_id":   r.RunID,
		"digest":   r.Digest,
		"lines":    lines,
		"stats": map[string]any{
			"expanded":  r.Stats.Expanded,
			"dead_ends": r.Stats.DeadEnds,
			"completed": r.Stats.Completed,
		},
	})
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an already computed result against its golden
// file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Snapshot(name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
