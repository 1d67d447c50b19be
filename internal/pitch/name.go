package pitch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidNoteName is returned by ParseNote for malformed note names.
var ErrInvalidNoteName = errors.New("invalid note name")

var classNames = [12]string{"c", "c#", "d", "d#", "e", "f", "f#", "g", "g#", "a", "a#", "b"}

var letterClasses = map[byte]int{'c': C, 'd': D, 'e': E, 'f': F, 'g': G, 'a': A, 'b': B}

// Name renders a note as a lower-case letter name with sharps and an
// octave marker:
//
//	octave 3  c,     octave 4  c     octave 5  c'
//
// Every other octave is written as a trailing number (c2, c6). Notes that
// are not set render as "-".
func Name(n Note) string {
	if !n.IsSet() {
		return "-"
	}
	s := classNames[n.Class]
	switch n.Octave {
	case MiddleOctave - 1:
		return s + ","
	case MiddleOctave:
		return s
	case MiddleOctave + 1:
		return s + "'"
	default:
		return s + strconv.Itoa(n.Octave)
	}
}

// Line renders a sequence of notes as space separated names. Unset
// positions render as "-".
func Line(notes []Note) string {
	parts := make([]string, len(notes))
	for i, n := range notes {
		parts[i] = n.String()
	}
	return strings.Join(parts, " ")
}

// ParseNote is the inverse of Name. It also accepts upper-case letters and
// flats written as a trailing "b" ("eb" is D#, "bb" is A#).
func ParseNote(s string) (Note, error) {
	raw := s
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Unset, fmt.Errorf("%w: empty", ErrInvalidNoteName)
	}

	class, ok := letterClasses[s[0]]
	if !ok {
		return Unset, fmt.Errorf("%w %q: unknown letter %q", ErrInvalidNoteName, raw, s[0])
	}
	s = s[1:]

	shift := 0
	if strings.HasPrefix(s, "#") {
		shift, s = 1, s[1:]
	} else if strings.HasPrefix(s, "b") {
		shift, s = -1, s[1:]
	}

	octave := MiddleOctave
	switch s {
	case "":
	case ",":
		octave = MiddleOctave - 1
	case "'":
		octave = MiddleOctave + 1
	default:
		o, err := strconv.Atoi(s)
		if err != nil {
			return Unset, fmt.Errorf("%w %q: bad octave marker %q", ErrInvalidNoteName, raw, s)
		}
		octave = o
	}

	return N(class+shift, octave), nil
}

// ParseLine parses space separated note names.
func ParseLine(s string) ([]Note, error) {
	fields := strings.Fields(s)
	notes := make([]Note, 0, len(fields))
	for i, f := range fields {
		n, err := ParseNote(f)
		if err != nil {
			return nil, fmt.Errorf("note %d: %w", i+1, err)
		}
		notes = append(notes, n)
	}
	return notes, nil
}

// MustParseLine is like ParseLine but panics on error.
// Use only in tests or with literal input.
func MustParseLine(s string) []Note {
	notes, err := ParseLine(s)
	if err != nil {
		panic(err)
	}
	return notes
}
