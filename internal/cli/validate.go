package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/cantus/internal/exercise"
	"github.com/roach88/cantus/internal/pitch"
)

// ValidationError is one invalid exercise or load failure.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
}

// ValidatedExercise summarizes an exercise that compiled.
type ValidatedExercise struct {
	Name   string `json:"name"`
	Cantus string `json:"cantus"`
	Voice  string `json:"voice"`
	Mode   string `json:"mode"`
	Policy string `json:"policy"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool                `json:"valid"`
	Exercises []ValidatedExercise `json:"exercises,omitempty"`
	Errors    []ValidationError   `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <exercise-path>",
		Short: "Validate exercise files without searching",
		Long: `Validate CUE exercise files without running a search.

Checks every exercise against the schema, resolves its mode and voice, and
parses its cantus firmus. All errors are reported, not just the first.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	info, err := os.Stat(path)
	if err != nil {
		return outputValidateError(formatter, exercise.ErrCodeNotFound, fmt.Sprintf("path not found: %s", path))
	}

	var (
		exercises []*exercise.Exercise
		loadErrs  []error
	)
	if info.IsDir() {
		res, errs := exercise.LoadDir(path, exercise.LoadModeCollectAll)
		if res == nil && len(errs) > 0 {
			var le *exercise.LoadError
			if errors.As(errs[0], &le) {
				return outputValidateError(formatter, le.Code, le.Message)
			}
			return outputValidateError(formatter, exercise.ErrCodeGeneric, errs[0].Error())
		}
		formatter.VerboseLog("Found %d CUE file(s) in %s", res.FileCount, path)
		exercises, loadErrs = res.Exercises, errs
	} else {
		exercises, loadErrs = exercise.LoadFile(path, exercise.LoadModeCollectAll)
	}

	for _, ex := range exercises {
		formatter.VerboseLog("Validated exercise: %s", ex.Name)
	}

	if len(loadErrs) > 0 {
		return outputValidationErrors(formatter, toValidationErrors(loadErrs))
	}
	return outputValidateSuccess(formatter, exercises)
}

func toValidationErrors(errs []error) []ValidationError {
	out := make([]ValidationError, 0, len(errs))
	for _, err := range errs {
		var le *exercise.LoadError
		if errors.As(err, &le) {
			ve := ValidationError{Code: le.Code, Message: le.Message}
			if le.Pos.IsValid() {
				ve.File = le.Pos.Filename()
				ve.Line = le.Pos.Line()
			}
			out = append(out, ve)
			continue
		}
		out = append(out, ValidationError{Code: exercise.ErrCodeGeneric, Message: err.Error()})
	}
	return out
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, exercises []*exercise.Exercise) error {
	if formatter.Format == "json" {
		result := ValidationResult{Valid: true, Exercises: make([]ValidatedExercise, len(exercises))}
		for i, ex := range exercises {
			result.Exercises[i] = ValidatedExercise{
				Name:   ex.Name,
				Cantus: pitch.Line(ex.Cantus),
				Voice:  ex.Voice.String(),
				Mode:   ex.Mode.Name(),
				Policy: ex.Policy.String(),
			}
		}
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ All exercises valid (%d)\n", len(exercises))
	return nil
}

// outputValidateError outputs a single load error.
func outputValidateError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	// Unreadable input is a command-level error (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []ValidationError) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "%s:%d\n", err.File, err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", err.Code, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
