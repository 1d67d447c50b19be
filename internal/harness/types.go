package harness

import "github.com/roach88/cantus/internal/engine"

// LineResult is one distinct line of a scenario run.
type LineResult struct {
	Line  string `json:"line"`
	Count int    `json:"count"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success: every assertion held.
	Pass bool `json:"pass"`

	RunID  string       `json:"run_id"`
	Digest string       `json:"digest"`
	Lines  []LineResult `json:"lines"`
	Stats  engine.Stats `json:"stats"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Lines:  []LineResult{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
