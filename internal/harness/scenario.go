package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/cantus/internal/exercise"
	"github.com/roach88/cantus/internal/testutil"
)

// DefaultRunID is the run ID of scenarios that do not set one.
const DefaultRunID = testutil.DefaultRunID

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Exercise is an inline exercise definition.
	Exercise *exercise.Definition `yaml:"exercise,omitempty"`

	// ExerciseFile is a CUE file holding the exercise, relative to the
	// scenario file. ExerciseName selects the exercise in it.
	ExerciseFile string `yaml:"exercise_file,omitempty"`
	ExerciseName string `yaml:"exercise_name,omitempty"`

	// Workers runs the search in parallel when greater than 1.
	Workers int `yaml:"workers,omitempty"`

	// Assertions validate the result set.
	Assertions []Assertion `yaml:"assertions"`

	// RunID is an optional fixed run ID. Defaults to DefaultRunID.
	RunID string `yaml:"run_id,omitempty"`
}

// Assertion validates the result set.
type Assertion struct {
	// Type selects the assertion, see the Assert* constants.
	Type string `yaml:"type"`

	// Count is the expected number (result_count, total_count, dead_ends,
	// line_count).
	Count *int `yaml:"count,omitempty"`

	// Line is a rendered line (contains, excludes, line_count).
	Line string `yaml:"line,omitempty"`

	// Index is a 0-based position (position_in).
	Index *int `yaml:"index,omitempty"`

	// Notes are note names (position_in).
	Notes []string `yaml:"notes,omitempty"`
}

// Assertion type constants.
const (
	AssertResultCount  = "result_count"
	AssertTotalCount   = "total_count"
	AssertDeadEnds     = "dead_ends"
	AssertContains     = "contains"
	AssertExcludes     = "excludes"
	AssertLineCount    = "line_count"
	AssertNoDuplicates = "no_duplicates"
	AssertPositionIn   = "position_in"
	AssertAllValid     = "all_valid"
)

// LoadScenario reads and parses a scenario YAML file. A relative
// exercise_file is resolved against the scenario's directory.
//
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.ExerciseFile != "" && !filepath.IsAbs(scenario.ExerciseFile) {
		scenario.ExerciseFile = filepath.Join(filepath.Dir(path), scenario.ExerciseFile)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every *.yaml file in dir, in name order.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.Exercise != nil && s.ExerciseFile != "":
		return fmt.Errorf("exercise and exercise_file are mutually exclusive")
	case s.Exercise == nil && s.ExerciseFile == "":
		return fmt.Errorf("exercise or exercise_file is required")
	case s.ExerciseFile != "":
		if s.ExerciseName == "" {
			return fmt.Errorf("exercise_name is required with exercise_file")
		}
		if _, err := os.Stat(s.ExerciseFile); os.IsNotExist(err) {
			return fmt.Errorf("exercise file not found: %s", s.ExerciseFile)
		}
	}

	if s.Workers < 0 {
		return fmt.Errorf("workers must be non-negative")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	needCount := func() error {
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for %s", index, a.Type)
		}
		return nil
	}
	needLine := func() error {
		if a.Line == "" {
			return fmt.Errorf("assertions[%d]: line is required for %s", index, a.Type)
		}
		return nil
	}

	switch a.Type {
	case AssertResultCount, AssertTotalCount, AssertDeadEnds:
		return needCount()
	case AssertContains, AssertExcludes:
		return needLine()
	case AssertLineCount:
		if err := needLine(); err != nil {
			return err
		}
		return needCount()
	case AssertPositionIn:
		if a.Index == nil || *a.Index < 0 {
			return fmt.Errorf("assertions[%d]: non-negative index is required for position_in", index)
		}
		if len(a.Notes) == 0 {
			return fmt.Errorf("assertions[%d]: notes list is required for position_in", index)
		}
	case AssertNoDuplicates, AssertAllValid:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

// resolveExercise compiles the scenario's exercise.
func (s *Scenario) resolveExercise() (*exercise.Exercise, error) {
	if s.Exercise != nil {
		return exercise.FromDefinition(s.Name, *s.Exercise)
	}

	exercises, errs := exercise.LoadFile(s.ExerciseFile, exercise.LoadModeCollectAll)
	for _, ex := range exercises {
		if ex.Name == s.ExerciseName {
			return ex, nil
		}
	}
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return nil, fmt.Errorf("exercise %q not found in %s", s.ExerciseName, s.ExerciseFile)
}
