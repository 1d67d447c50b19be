package pitch

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownMode is returned by LookupMode for names not in the mode table.
var ErrUnknownMode = errors.New("unknown mode")

// ErrInvalidMode is returned by NewMode for malformed degree tables.
var ErrInvalidMode = errors.New("invalid mode")

// Mode is an ordered table of scale degrees.
//
// Each degree is an offset in half-steps above C of the mode's base octave.
// Degrees are strictly increasing and span less than an octave, so every
// pitch class appears at most once. A degree of 12 or more lands in the next
// octave: D dorian is [2 4 5 7 9 11 12], and its seventh degree is the C
// above the B, not the C below the D.
//
// Modes are immutable once built; Degrees returns a copy.
type Mode struct {
	name    string
	degrees []int
}

// Built-in church modes, each one octave on its final.
var (
	Ionian     = mustMode("ionian", 0, 2, 4, 5, 7, 9, 11)
	Dorian     = mustMode("dorian", 2, 4, 5, 7, 9, 11, 12)
	Phrygian   = mustMode("phrygian", 4, 5, 7, 9, 11, 12, 14)
	Lydian     = mustMode("lydian", 5, 7, 9, 11, 12, 14, 16)
	Mixolydian = mustMode("mixolydian", 7, 9, 11, 12, 14, 16, 17)
	Aeolian    = mustMode("aeolian", 9, 11, 12, 14, 16, 17, 19)
)

var builtinModes = map[string]Mode{
	Ionian.name:     Ionian,
	Dorian.name:     Dorian,
	Phrygian.name:   Phrygian,
	Lydian.name:     Lydian,
	Mixolydian.name: Mixolydian,
	Aeolian.name:    Aeolian,
}

// NewMode validates a degree table and returns it as a Mode.
func NewMode(name string, degrees ...int) (Mode, error) {
	if len(degrees) == 0 {
		return Mode{}, fmt.Errorf("%w %q: no degrees", ErrInvalidMode, name)
	}
	if degrees[0] < 0 || degrees[0] > 11 {
		return Mode{}, fmt.Errorf("%w %q: first degree %d outside 0..11", ErrInvalidMode, name, degrees[0])
	}
	for i := 1; i < len(degrees); i++ {
		if degrees[i] <= degrees[i-1] {
			return Mode{}, fmt.Errorf("%w %q: degrees must be strictly increasing (%d after %d)",
				ErrInvalidMode, name, degrees[i], degrees[i-1])
		}
	}
	if span := degrees[len(degrees)-1] - degrees[0]; span >= 12 {
		return Mode{}, fmt.Errorf("%w %q: degrees span %d half-steps, must be under an octave",
			ErrInvalidMode, name, span)
	}

	d := make([]int, len(degrees))
	copy(d, degrees)
	return Mode{name: name, degrees: d}, nil
}

func mustMode(name string, degrees ...int) Mode {
	m, err := NewMode(name, degrees...)
	if err != nil {
		panic(err)
	}
	return m
}

// LookupMode returns the built-in mode with the given name (case-insensitive).
func LookupMode(name string) (Mode, error) {
	m, ok := builtinModes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Mode{}, fmt.Errorf("%w %q (known: %s)", ErrUnknownMode, name, strings.Join(ModeNames(), ", "))
	}
	return m, nil
}

// ModeNames returns the names of the built-in modes in sorted order.
func ModeNames() []string {
	names := make([]string, 0, len(builtinModes))
	for name := range builtinModes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Name returns the mode's name.
func (m Mode) Name() string {
	return m.name
}

// Degrees returns a copy of the degree table.
func (m Mode) Degrees() []int {
	d := make([]int, len(m.degrees))
	copy(d, m.degrees)
	return d
}

// Len returns the number of degrees in the mode.
func (m Mode) Len() int {
	return len(m.degrees)
}

// Final returns the mode's first degree in the given octave.
func (m Mode) Final(octave int) Note {
	return N(m.degrees[0], octave)
}

// Contains reports whether the pitch class of n is a degree of the mode.
func (m Mode) Contains(n Note) bool {
	_, _, ok := m.locate(n)
	return ok
}

// Above returns the nth note above n within the mode, counting n itself as
// the first: Above(n, 1) is n, Above(n, 3) is the third above, Above(n, 8)
// the octave. Stepping past the top of the table continues in the next
// octave.
//
// n must belong to the mode (see Contains) and degree must be positive.
// Callers validate their inputs up front, so a violation here is a
// programming error and panics.
func (m Mode) Above(n Note, degree int) Note {
	if degree < 1 {
		panic(fmt.Sprintf("pitch: degree %d must be >= 1", degree))
	}
	k, base, ok := m.locate(n)
	if !ok {
		panic(fmt.Sprintf("pitch: note %s not in mode %s", n, m.name))
	}

	j := k + degree - 1
	octaves := j / len(m.degrees)
	return N(m.degrees[j%len(m.degrees)], base+octaves)
}

// locate finds the table index of n's pitch class and the octave the
// table is anchored at for n. For D dorian, C5 sits at index 6 (degree 12)
// of the table anchored at octave 4.
func (m Mode) locate(n Note) (index, base int, ok bool) {
	if !n.IsSet() {
		return 0, 0, false
	}
	for k, d := range m.degrees {
		if d%12 == n.Class {
			return k, n.Octave - d/12, true
		}
	}
	return 0, 0, false
}

// String returns the mode name and its degree table.
func (m Mode) String() string {
	return fmt.Sprintf("%s%v", m.name, m.degrees)
}
