package counterpoint

import (
	"fmt"
	"strings"
)

// Voice says whether the composed line sounds above or below the cantus
// firmus.
type Voice int

const (
	Above Voice = 1
	Below Voice = -1
)

// String returns "above" or "below".
func (v Voice) String() string {
	switch v {
	case Above:
		return "above"
	case Below:
		return "below"
	default:
		return fmt.Sprintf("Voice(%d)", int(v))
	}
}

// Valid reports whether v is Above or Below.
func (v Voice) Valid() bool {
	return v == Above || v == Below
}

// ParseVoice converts "above" or "below" (case-insensitive) to a Voice.
func ParseVoice(s string) (Voice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "above":
		return Above, nil
	case "below":
		return Below, nil
	default:
		return 0, fmt.Errorf("%w %q: must be \"above\" or \"below\"", ErrInvalidVoice, s)
	}
}
