package exercise

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Error codes shared by every command that loads exercises.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error

	// Exercise validation errors
	ErrCodeSchema  = "E100" // Does not unify with #Exercise
	ErrCodeMode    = "E101" // Unknown mode or bad degree table
	ErrCodeVoice   = "E102" // Invalid voice
	ErrCodeCantus  = "E103" // Bad note name, too short, or outside the mode
	ErrCodePolicy  = "E104" // Invalid policy
	ErrCodeMissing = "E105" // Required field missing
)

// CompileError reports an exercise that could not be compiled.
type CompileError struct {
	Exercise string
	Field    string
	Message  string
	Pos      token.Pos
	Err      error
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: exercise %s: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Exercise, e.Field, e.Message)
	}
	return fmt.Sprintf("exercise %s: %s: %s", e.Exercise, e.Field, e.Message)
}

// Unwrap returns the underlying cause.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// Code maps the failing field to an error code.
func (e *CompileError) Code() string {
	return MapFieldToErrorCode(e.Field)
}

// MapFieldToErrorCode maps a compile error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch field {
	case "cue":
		return ErrCodeSchema
	case "mode", "degrees":
		return ErrCodeMode
	case "voice":
		return ErrCodeVoice
	case "cantus":
		return ErrCodeCantus
	case "policy":
		return ErrCodePolicy
	case "required":
		return ErrCodeMissing
	default:
		return ErrCodeGeneric
	}
}

// LoadError represents an error that occurred while loading a directory.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(name string, err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &CompileError{Exercise: name, Field: "cue", Message: err.Error(), Err: err}
	}

	first := errs[0]
	ce := &CompileError{Exercise: name, Field: "cue", Message: first.Error(), Err: err}
	if positions := errors.Positions(first); len(positions) > 0 {
		ce.Pos = positions[0]
	}
	return ce
}
