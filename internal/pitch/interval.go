package pitch

// Motion is the direction one voice moves between two successive notes.
type Motion int

// Motion values. The numeric values match the sign of the pitch change.
const (
	Descending Motion = -1
	Static     Motion = 0
	Ascending  Motion = 1
)

// String returns the motion name.
func (m Motion) String() string {
	switch m {
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	default:
		return "static"
	}
}

// Half-step sizes of the fixed intervals.
const (
	minorThirdSteps = 3
	majorSixthSteps = 9
)

// Scale degrees of the consonances, counting the lower note as 1.
const (
	degreeUnison = 1
	degreeThird  = 3
	degreeFifth  = 5
	degreeSixth  = 6
)

// PerfectConsonances returns the unison, the fifth above and the octave
// above n within m, in that order.
func PerfectConsonances(n Note, m Mode) []Note {
	return []Note{
		m.Above(n, degreeUnison),
		m.Above(n, degreeFifth),
		{Class: n.Class, Octave: n.Octave + 1},
	}
}

// ImperfectConsonances returns the third and the sixth above n within m,
// in that order.
func ImperfectConsonances(n Note, m Mode) []Note {
	return []Note{
		m.Above(n, degreeThird),
		m.Above(n, degreeSixth),
	}
}

// IsPerfectConsonance reports whether upper is one of PerfectConsonances(lower, m).
func IsPerfectConsonance(lower, upper Note, m Mode) bool {
	return containsNote(PerfectConsonances(lower, m), upper)
}

// IsImperfectConsonance reports whether upper is one of ImperfectConsonances(lower, m).
func IsImperfectConsonance(lower, upper Note, m Mode) bool {
	return containsNote(ImperfectConsonances(lower, m), upper)
}

// MajorSixth returns the note nine half-steps above n.
func MajorSixth(n Note) Note {
	return n.transpose(majorSixthSteps)
}

// MinorThird returns the note three half-steps above n.
func MinorThird(n Note) Note {
	return n.transpose(minorThirdSteps)
}

// RelativeMotion compares two notes of one voice, octave first and then
// pitch class.
func RelativeMotion(from, to Note) Motion {
	switch {
	case to.Octave > from.Octave:
		return Ascending
	case to.Octave < from.Octave:
		return Descending
	case to.Class > from.Class:
		return Ascending
	case to.Class < from.Class:
		return Descending
	default:
		return Static
	}
}

// Direct reports whether two voices move in the same direction, both
// holding included.
func Direct(lowerFrom, lowerTo, upperFrom, upperTo Note) bool {
	return RelativeMotion(lowerFrom, lowerTo) == RelativeMotion(upperFrom, upperTo)
}

func containsNote(notes []Note, n Note) bool {
	for _, c := range notes {
		if c == n {
			return true
		}
	}
	return false
}
