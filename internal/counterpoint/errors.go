package counterpoint

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidVoice is returned for voices other than Above and Below.
	ErrInvalidVoice = errors.New("invalid voice")

	// ErrCantusTooShort is returned for a cantus firmus of fewer than two notes.
	ErrCantusTooShort = errors.New("cantus firmus too short")

	// ErrNoteOutsideMode is returned when a cantus note is not a degree of the mode.
	ErrNoteOutsideMode = errors.New("cantus note outside mode")
)

// InvalidVoiceError reports the rejected voice value.
type InvalidVoiceError struct {
	Voice Voice
}

// Error implements the error interface.
func (e *InvalidVoiceError) Error() string {
	return fmt.Sprintf("%s %d: must be above (%d) or below (%d)", ErrInvalidVoice, int(e.Voice), int(Above), int(Below))
}

// Unwrap lets errors.Is match ErrInvalidVoice.
func (e *InvalidVoiceError) Unwrap() error {
	return ErrInvalidVoice
}
