package counterpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cantus/internal/pitch"
)

var (
	d4 = pitch.N(pitch.D, 4)
	e4 = pitch.N(pitch.E, 4)
	f4 = pitch.N(pitch.F, 4)
	g4 = pitch.N(pitch.G, 4)
	a4 = pitch.N(pitch.A, 4)
	b4 = pitch.N(pitch.B, 4)
	c5 = pitch.N(pitch.C, 5)
	d5 = pitch.N(pitch.D, 5)
	e5 = pitch.N(pitch.E, 5)

	cs5 = pitch.N(pitch.CSharp, 5)
)

// fuxDorian is the cantus firmus from Fux's first dorian example.
var fuxDorian = pitch.MustParseLine("d f e d g f a g f e d")

func mustNew(t *testing.T, cf []pitch.Note, voice Voice) *State {
	t.Helper()
	s, err := New(cf, voice, pitch.Dorian)
	require.NoError(t, err)
	return s
}

// follow expands s choosing the successor whose newest note is n.
func follow(t *testing.T, s *State, n pitch.Note) *State {
	t.Helper()
	outcome, next := s.Next()
	require.Equal(t, Expanded, outcome)
	for _, k := range next {
		if k.cp[s.index] == n {
			return k
		}
	}
	t.Fatalf("no successor with %s at %d; state %s", n, s.index, s)
	return nil
}

func newest(states []*State) []pitch.Note {
	out := make([]pitch.Note, len(states))
	for i, s := range states {
		out[i] = s.cp[s.index-1]
	}
	return out
}

func TestNew_Root(t *testing.T) {
	s := mustNew(t, fuxDorian, Above)

	assert.Equal(t, 0, s.Index())
	assert.Equal(t, 11, s.Len())
	assert.Equal(t, 0, s.CountPerfect())
	assert.Equal(t, 0, s.CountImperfect())
	assert.Equal(t, Opening, s.Phase())
	for i, n := range s.Counterpoint() {
		assert.False(t, n.IsSet(), "position %d should be unset", i)
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name  string
		cf    []pitch.Note
		voice Voice
		want  error
	}{
		{"zero voice", fuxDorian, 0, ErrInvalidVoice},
		{"voice out of range", fuxDorian, 2, ErrInvalidVoice},
		{"empty cantus", nil, Above, ErrCantusTooShort},
		{"single note", []pitch.Note{d4}, Above, ErrCantusTooShort},
		{"chromatic note", []pitch.Note{d4, pitch.N(pitch.FSharp, 4), d4}, Above, ErrNoteOutsideMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.cf, tt.voice, pitch.Dorian)
			assert.Nil(t, s)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNew_InvalidVoiceErrorCarriesValue(t *testing.T) {
	_, err := New(fuxDorian, 7, pitch.Dorian)
	var ve *InvalidVoiceError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, Voice(7), ve.Voice)
}

func TestNew_CopiesCantus(t *testing.T) {
	cf := []pitch.Note{d4, e4, d4}
	s := mustNew(t, cf, Above)

	cf[1] = f4
	assert.Equal(t, e4, s.Cantus()[1])
}

func TestNext_Opening(t *testing.T) {
	root := mustNew(t, fuxDorian, Above)

	outcome, next := root.Next()
	require.Equal(t, Expanded, outcome)
	assert.Equal(t, []pitch.Note{d4, a4, d5}, newest(next))

	for _, k := range next {
		assert.Equal(t, 1, k.Index())
		assert.Equal(t, 1, k.CountPerfect())
		assert.Equal(t, 0, k.CountImperfect())
	}

	// Parent untouched.
	assert.Equal(t, 0, root.Index())
	assert.False(t, root.Counterpoint()[0].IsSet())
}

func TestNext_SuccessorsDoNotAlias(t *testing.T) {
	root := mustNew(t, fuxDorian, Above)
	_, next := root.Next()
	require.Len(t, next, 3)

	for i := range next {
		for j := i + 1; j < len(next); j++ {
			assert.NotSame(t, &next[i].cp[0], &next[j].cp[0], "successors %d and %d share cp", i, j)
		}
		assert.NotSame(t, &root.cp[0], &next[i].cp[0])
		assert.Same(t, &root.cf[0], &next[i].cf[0], "cantus is shared read-only")
	}
}

func TestNext_InteriorPrefersImperfectWhenPerfectLeads(t *testing.T) {
	// After a perfect opening the tally is 1-0, so only thirds and sixths.
	s := follow(t, mustNew(t, fuxDorian, Above), d4)
	require.Equal(t, Interior, s.Phase())

	outcome, next := s.Next()
	require.Equal(t, Expanded, outcome)
	assert.Equal(t, []pitch.Note{a4, d5}, newest(next))
	for _, k := range next {
		assert.Equal(t, 1, k.CountImperfect())
		assert.Equal(t, 1, k.CountPerfect())
	}
}

func TestNext_InteriorTieAllowsPerfectWithoutDirectMotion(t *testing.T) {
	// d4 over d4, a4 over f4: tally 1-1. Cantus f4 -> e4 descends, so the
	// unison e4 (a4 -> e4 descends too) is forbidden; b4 and e5 ascend.
	s := follow(t, follow(t, mustNew(t, fuxDorian, Above), d4), a4)
	require.Equal(t, 2, s.Index())
	require.Equal(t, s.CountPerfect(), s.CountImperfect())

	outcome, next := s.Next()
	require.Equal(t, Expanded, outcome)
	assert.Equal(t, []pitch.Note{g4, c5, b4, e5}, newest(next))

	assert.Equal(t, []int{2, 2, 1, 1}, []int{
		next[0].CountImperfect(), next[1].CountImperfect(),
		next[2].CountImperfect(), next[3].CountImperfect(),
	})
}

func TestNext_Penultimate(t *testing.T) {
	tests := []struct {
		voice Voice
		want  pitch.Note
	}{
		{Above, cs5},
		{Below, g4},
	}

	for _, tt := range tests {
		t.Run(tt.voice.String(), func(t *testing.T) {
			s := follow(t, mustNew(t, []pitch.Note{d4, e4, d4}, tt.voice), a4)
			require.Equal(t, Penultimate, s.Phase())

			outcome, next := s.Next()
			require.Equal(t, Expanded, outcome)
			require.Len(t, next, 1)
			assert.Equal(t, tt.want, next[0].cp[1])
			assert.Equal(t, 1, next[0].CountImperfect())
			assert.Equal(t, Final, next[0].Phase())
		})
	}
}

func TestNext_Final(t *testing.T) {
	// Cantus e4 -> d4 descends; from c#5 only the octave d5 ascends.
	s := follow(t, follow(t, mustNew(t, []pitch.Note{d4, e4, d4}, Above), d4), cs5)
	require.Equal(t, Final, s.Phase())

	outcome, next := s.Next()
	require.Equal(t, Expanded, outcome)
	assert.Equal(t, []pitch.Note{d5}, newest(next))
	assert.Equal(t, 2, next[0].CountPerfect())

	outcome, after := next[0].Next()
	assert.Equal(t, Done, outcome)
	assert.Empty(t, after)
	assert.Equal(t, Complete, next[0].Phase())
	assert.Equal(t, []pitch.Note{d4, cs5, d5}, next[0].Counterpoint())
}

func TestNext_FinalDeadEnd(t *testing.T) {
	// Cantus leaps up an octave; every perfect consonance above d5 is
	// reached by ascending from d4.
	s := follow(t, mustNew(t, []pitch.Note{d4, d5}, Above), d4)
	require.Equal(t, Final, s.Phase())

	outcome, next := s.Next()
	assert.Equal(t, DeadEnd, outcome)
	assert.Empty(t, next)
}

func TestPhase_TwoNoteCantus(t *testing.T) {
	s := mustNew(t, []pitch.Note{d4, d4}, Above)
	assert.Equal(t, Opening, s.Phase())

	s = follow(t, s, a4)
	assert.Equal(t, Final, s.Phase(), "two-note cantus has no penultimate rule")

	// Cantus holds, so the counterpoint must move.
	_, next := s.Next()
	assert.Equal(t, []pitch.Note{d4, d5}, newest(next))
}

func TestState_String(t *testing.T) {
	s := follow(t, mustNew(t, []pitch.Note{d4, e4, d4}, Above), a4)
	assert.Equal(t, "<Counterpoint\ncp a - -\ncf d e d\nlen 3 penult 1 ult 2 index 1 voice above mode dorian>", s.String())

	s = mustNew(t, []pitch.Note{d4, e4, d4}, Below)
	assert.Contains(t, s.String(), "cf d e d\ncp - - -\n")
}

func TestParseVoice(t *testing.T) {
	v, err := ParseVoice("Above")
	require.NoError(t, err)
	assert.Equal(t, Above, v)

	v, err = ParseVoice("below")
	require.NoError(t, err)
	assert.Equal(t, Below, v)

	_, err = ParseVoice("middle")
	assert.ErrorIs(t, err, ErrInvalidVoice)
}

// enumerate walks the whole tree depth-first and checks the tally
// invariant at every state.
func enumerate(t *testing.T, root *State) (done [][]pitch.Note, deadEnds int) {
	t.Helper()
	stack := []*State{root}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		require.Equal(t, s.Index(), s.CountPerfect()+s.CountImperfect(), "tally invariant at %s", s)

		outcome, next := s.Next()
		switch outcome {
		case Done:
			done = append(done, s.Counterpoint())
		case DeadEnd:
			deadEnds++
		case Expanded:
			require.NotEmpty(t, next)
			for _, k := range next {
				require.Equal(t, s.Index()+1, k.Index())
			}
			stack = append(stack, next...)
		}
	}
	return done, deadEnds
}

func TestNext_AllLinesSatisfyRules(t *testing.T) {
	for _, voice := range []Voice{Above, Below} {
		t.Run(voice.String(), func(t *testing.T) {
			root := mustNew(t, fuxDorian, voice)
			done, _ := enumerate(t, root)
			require.NotEmpty(t, done)

			for _, cp := range done {
				require.Empty(t, Verify(fuxDorian, cp, voice, pitch.Dorian), pitch.Line(cp))
			}
		})
	}
}

func TestNext_EnumerationSizes(t *testing.T) {
	tests := []struct {
		name     string
		cf       string
		voice    Voice
		done     int
		deadEnds int
	}{
		{"fux dorian above", "d f e d g f a g f e d", Above, 17988, 0},
		{"fux dorian below", "d f e d g f a g f e d", Below, 35976, 0},
		{"three notes above", "d e d", Above, 3, 0},
		{"three notes below", "d e d", Below, 6, 0},
		{"octave leap", "d d'", Above, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := mustNew(t, pitch.MustParseLine(tt.cf), tt.voice)
			done, deadEnds := enumerate(t, root)
			assert.Len(t, done, tt.done)
			assert.Equal(t, tt.deadEnds, deadEnds)
		})
	}
}
