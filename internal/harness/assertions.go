package harness

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/cantus/internal/counterpoint"
	"github.com/roach88/cantus/internal/engine"
	"github.com/roach88/cantus/internal/exercise"
	"github.com/roach88/cantus/internal/store"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// AssertionContext is what assertions are evaluated against.
type AssertionContext struct {
	Ctx      context.Context
	Store    *store.Store
	RunID    string
	Exercise *exercise.Exercise
	Results  *engine.Results
}

// EvaluateAssertions checks every assertion and returns the failure
// messages, empty when all hold.
func EvaluateAssertions(assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, a := range assertions {
		var err error

		switch a.Type {
		case AssertResultCount:
			err = assertResultCount(actx, a)
		case AssertTotalCount:
			err = assertTotalCount(actx, a)
		case AssertDeadEnds:
			err = assertCount(a.Type, int(actx.Results.Stats().DeadEnds), *a.Count)
		case AssertContains:
			err = assertContains(actx, a, true)
		case AssertExcludes:
			err = assertContains(actx, a, false)
		case AssertLineCount:
			err = assertCount(a.Type+" "+a.Line, actx.Results.Count(a.Line), *a.Count)
		case AssertNoDuplicates:
			err = assertNoDuplicates(actx)
		case AssertPositionIn:
			err = assertPositionIn(actx, a)
		case AssertAllValid:
			err = assertAllValid(actx)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}
	return errors
}

func assertCount(what string, actual, expected int) error {
	if actual == expected {
		return nil
	}
	return &AssertionError{
		Type:     what,
		Expected: fmt.Sprintf("%d", expected),
		Actual:   fmt.Sprintf("%d", actual),
	}
}

// assertResultCount checks the distinct line count against both the tally
// and the store.
func assertResultCount(actx *AssertionContext, a Assertion) error {
	distinct, _, err := actx.Store.CountLines(actx.Ctx, actx.RunID)
	if err != nil {
		return err
	}
	if distinct != actx.Results.Len() {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("store and tally agree (tally %d)", actx.Results.Len()),
			Actual:   fmt.Sprintf("store has %d", distinct),
		}
	}
	return assertCount(a.Type, distinct, *a.Count)
}

func assertTotalCount(actx *AssertionContext, a Assertion) error {
	_, total, err := actx.Store.CountLines(actx.Ctx, actx.RunID)
	if err != nil {
		return err
	}
	return assertCount(a.Type, total, *a.Count)
}

func assertContains(actx *AssertionContext, a Assertion, want bool) error {
	found := actx.Results.Count(a.Line) > 0
	if found == want {
		return nil
	}
	if want {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("line %q", a.Line), Actual: "not found in results"}
	}
	return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("no line %q", a.Line), Actual: "found in results"}
}

func assertNoDuplicates(actx *AssertionContext) error {
	dups, err := actx.Store.Duplicates(actx.Ctx, actx.RunID)
	if err != nil {
		return err
	}
	if len(dups) == 0 {
		return nil
	}

	lines := make([]string, len(dups))
	for i, d := range dups {
		lines[i] = fmt.Sprintf("%q x%d", d.Line, d.Count)
	}
	return &AssertionError{
		Type:     AssertNoDuplicates,
		Expected: "every line derived once",
		Actual:   strings.Join(lines, ", "),
	}
}

// assertPositionIn checks the exact set of notes used at a position.
func assertPositionIn(actx *AssertionContext, a Assertion) error {
	actual, err := actx.Store.NotesAt(actx.Ctx, actx.RunID, *a.Index)
	if err != nil {
		return err
	}

	expected := slices.Clone(a.Notes)
	got := slices.Clone(actual)
	slices.Sort(expected)
	slices.Sort(got)
	if slices.Equal(expected, got) {
		return nil
	}
	return &AssertionError{
		Type:     fmt.Sprintf("%s[%d]", AssertPositionIn, *a.Index),
		Expected: strings.Join(a.Notes, " "),
		Actual:   strings.Join(actual, " "),
	}
}

// assertAllValid re-checks every line against the hard rules.
func assertAllValid(actx *AssertionContext) error {
	ex := actx.Exercise
	for _, e := range actx.Results.Entries() {
		violations := counterpoint.Verify(ex.Cantus, e.Line, ex.Voice, ex.Mode)
		if len(violations) > 0 {
			return &AssertionError{
				Type:     AssertAllValid,
				Expected: fmt.Sprintf("%q satisfies every rule", e.Key),
				Actual:   violations[0].String(),
			}
		}
	}
	return nil
}
