package counterpoint

import (
	"fmt"
	"strings"

	"github.com/roach88/cantus/internal/pitch"
)

// consonance tags a candidate with the tally it increments.
type consonance int

const (
	imperfect consonance = iota
	perfect
)

// State is a partial counterpoint: the notes composed so far against the
// cantus firmus, the next position to compose, and the running tally of
// perfect and imperfect consonances.
//
// INVARIANTS:
//   - 0 <= index <= len(cf)
//   - cp[:index] are set, cp[index:] are pitch.Unset
//   - countPerfect + countImperfect == index
//   - cf is shared by every State of one search and never written
type State struct {
	cf             []pitch.Note
	cp             []pitch.Note
	index          int
	countPerfect   int
	countImperfect int
	mode           pitch.Mode
	voice          Voice
}

// New creates the root State of a search: nothing composed yet.
//
// The cantus firmus is copied once and shared, read-only, by every State
// derived from the root. It must have at least two notes, all of them in
// the mode.
func New(cf []pitch.Note, voice Voice, mode pitch.Mode) (*State, error) {
	if !voice.Valid() {
		return nil, &InvalidVoiceError{Voice: voice}
	}
	if len(cf) < 2 {
		return nil, fmt.Errorf("%w: %d notes, need at least 2", ErrCantusTooShort, len(cf))
	}
	for i, n := range cf {
		if !mode.Contains(n) {
			return nil, fmt.Errorf("%w: note %d (%s) is not in %s", ErrNoteOutsideMode, i+1, n, mode)
		}
	}

	shared := make([]pitch.Note, len(cf))
	copy(shared, cf)

	cp := make([]pitch.Note, len(cf))
	for i := range cp {
		cp[i] = pitch.Unset
	}

	return &State{
		cf:    shared,
		cp:    cp,
		mode:  mode,
		voice: voice,
	}, nil
}

// Phase returns the rule regime for the next position. The opening is
// tested first, so a two-note cantus goes straight from opening to final.
func (s *State) Phase() Phase {
	switch {
	case s.index == 0:
		return Opening
	case s.index > s.ult():
		return Complete
	case s.index == s.ult():
		return Final
	case s.index == s.penult():
		return Penultimate
	default:
		return Interior
	}
}

// Next expands the State.
//
// It returns Done with no successors when the line is complete, DeadEnd
// with no successors when the final position has no legal note, and
// Expanded with one successor per legal note otherwise. Successors are
// ordered by consonance: for interior positions the imperfect candidates
// (third, sixth) come before the perfect ones (unison, fifth, octave).
func (s *State) Next() (Outcome, []*State) {
	switch s.Phase() {
	case Opening:
		return Expanded, s.extend(pitch.PerfectConsonances(s.cf[0], s.mode), perfect)

	case Interior:
		cantus := s.cf[s.index]
		next := s.extend(pitch.ImperfectConsonances(cantus, s.mode), imperfect)
		// Strict comparison: a tie still allows perfect consonances.
		if s.countPerfect > s.countImperfect {
			return Expanded, next
		}
		legal := s.withoutDirectMotion(pitch.PerfectConsonances(cantus, s.mode))
		return Expanded, append(next, s.extend(legal, perfect)...)

	case Penultimate:
		cantus := s.cf[s.index]
		if s.voice == Above {
			return Expanded, s.extend([]pitch.Note{pitch.MajorSixth(cantus)}, imperfect)
		}
		return Expanded, s.extend([]pitch.Note{pitch.MinorThird(cantus)}, imperfect)

	case Final:
		legal := s.withoutDirectMotion(pitch.PerfectConsonances(s.cf[s.index], s.mode))
		if len(legal) == 0 {
			return DeadEnd, nil
		}
		return Expanded, s.extend(legal, perfect)

	default:
		return Done, nil
	}
}

// withoutDirectMotion drops the candidates that would reach the current
// position in the same direction as the cantus firmus. Both voices holding
// counts as the same direction.
func (s *State) withoutDirectMotion(candidates []pitch.Note) []pitch.Note {
	i := s.index
	cantusMotion := pitch.RelativeMotion(s.cf[i-1], s.cf[i])

	legal := make([]pitch.Note, 0, len(candidates))
	for _, c := range candidates {
		if pitch.RelativeMotion(s.cp[i-1], c) != cantusMotion {
			legal = append(legal, c)
		}
	}
	return legal
}

// extend returns one successor per candidate.
func (s *State) extend(candidates []pitch.Note, kind consonance) []*State {
	next := make([]*State, 0, len(candidates))
	for _, c := range candidates {
		next = append(next, s.child(c, kind))
	}
	return next
}

// child copies the State, assigns n at the current index and advances.
func (s *State) child(n pitch.Note, kind consonance) *State {
	cp := make([]pitch.Note, len(s.cp))
	copy(cp, s.cp)
	cp[s.index] = n

	k := &State{
		cf:             s.cf,
		cp:             cp,
		index:          s.index + 1,
		countPerfect:   s.countPerfect,
		countImperfect: s.countImperfect,
		mode:           s.mode,
		voice:          s.voice,
	}
	if kind == perfect {
		k.countPerfect++
	} else {
		k.countImperfect++
	}
	return k
}

func (s *State) ult() int    { return len(s.cf) - 1 }
func (s *State) penult() int { return len(s.cf) - 2 }

// Index returns the next position to compose.
func (s *State) Index() int { return s.index }

// Len returns the length of the cantus firmus.
func (s *State) Len() int { return len(s.cf) }

// CountPerfect returns the number of perfect consonances composed so far.
func (s *State) CountPerfect() int { return s.countPerfect }

// CountImperfect returns the number of imperfect consonances composed so far.
func (s *State) CountImperfect() int { return s.countImperfect }

// Voice returns the voice of the counterpoint.
func (s *State) Voice() Voice { return s.voice }

// Mode returns the mode of the search.
func (s *State) Mode() pitch.Mode { return s.mode }

// Counterpoint returns a copy of the composed line. Positions not yet
// composed are pitch.Unset.
func (s *State) Counterpoint() []pitch.Note {
	out := make([]pitch.Note, len(s.cp))
	copy(out, s.cp)
	return out
}

// Cantus returns a copy of the cantus firmus.
func (s *State) Cantus() []pitch.Note {
	out := make([]pitch.Note, len(s.cf))
	copy(out, s.cf)
	return out
}

// String shows both voices, the higher one first.
func (s *State) String() string {
	var b strings.Builder
	b.WriteString("<Counterpoint\n")
	if s.voice == Above {
		fmt.Fprintf(&b, "cp %s\ncf %s\n", pitch.Line(s.cp), pitch.Line(s.cf))
	} else {
		fmt.Fprintf(&b, "cf %s\ncp %s\n", pitch.Line(s.cf), pitch.Line(s.cp))
	}
	fmt.Fprintf(&b, "len %d penult %d ult %d index %d voice %s mode %s>",
		len(s.cf), s.penult(), s.ult(), s.index, s.voice, s.mode.Name())
	return b.String()
}
