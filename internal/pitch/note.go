package pitch

import "fmt"

// Pitch classes, in half-steps above C.
const (
	C      = 0
	CSharp = 1
	D      = 2
	DSharp = 3
	E      = 4
	F      = 5
	FSharp = 6
	G      = 7
	GSharp = 8
	A      = 9
	ASharp = 10
	B      = 11
)

// MiddleOctave is the octave of middle C. Note names in this octave carry
// no octave marker.
const MiddleOctave = 4

// Note is a pitch class and an octave.
// Notes are values: copy them freely, never mutate them in place.
type Note struct {
	Class  int `json:"class"`
	Octave int `json:"octave"`
}

// Unset marks a position of a counterpoint line that has not been assigned.
var Unset = Note{Class: -1}

// N builds a Note. It normalizes classes outside 0..11 by carrying into the
// octave, so N(12, 4) == N(C, 5).
func N(class, octave int) Note {
	return Note{}.transpose(class + octave*12)
}

// IsSet reports whether n is a real note rather than the Unset sentinel.
func (n Note) IsSet() bool {
	return n.Class >= 0 && n.Class < 12
}

// Semitones returns the absolute pitch of n in half-steps above C0.
func (n Note) Semitones() int {
	return n.Octave*12 + n.Class
}

// transpose returns the note k half-steps above n, carrying the octave.
// Integer division and modulo by 12 keep the class in range for k >= 0;
// negative totals are floored so the class never goes negative.
func (n Note) transpose(k int) Note {
	abs := n.Semitones() + k
	octave := abs / 12
	class := abs % 12
	if class < 0 {
		class += 12
		octave--
	}
	return Note{Class: class, Octave: octave}
}

// String renders the note in the notation used for result lines.
func (n Note) String() string {
	if !n.IsSet() {
		return "-"
	}
	return Name(n)
}

// GoString renders the note as a (class, octave) pair for debugging.
func (n Note) GoString() string {
	return fmt.Sprintf("(%d,%d)", n.Class, n.Octave)
}
