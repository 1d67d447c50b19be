package pitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestName(t *testing.T) {
	tests := []struct {
		note Note
		want string
	}{
		{N(C, 4), "c"},
		{N(CSharp, 5), "c#'"},
		{N(D, 3), "d,"},
		{N(B, 2), "b2"},
		{N(FSharp, 6), "f#6"},
		{N(A, 0), "a0"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Name(tt.note))
		})
	}
}

func TestName_NotSet(t *testing.T) {
	for _, n := range []Note{Unset, {Class: 12, Octave: 4}, {Class: -3}} {
		assert.NotPanics(t, func() {
			assert.Equal(t, "-", Name(n))
		})
		assert.Equal(t, "-", n.String())
	}
}

func TestParseNote_RoundTrip(t *testing.T) {
	for octave := 0; octave <= 8; octave++ {
		for class := 0; class < 12; class++ {
			n := N(class, octave)
			got, err := ParseNote(Name(n))
			require.NoError(t, err)
			assert.Equal(t, n, got)
		}
	}
}

func TestParseNote_Flats(t *testing.T) {
	tests := []struct {
		in   string
		want Note
	}{
		{"eb", N(DSharp, 4)},
		{"Bb'", N(ASharp, 5)},
		{"cb", N(B, 3)},
		{"D", N(D, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseNote(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNote_Invalid(t *testing.T) {
	for _, in := range []string{"", "h", "c''", "dx", "e#,,"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseNote(in)
			assert.ErrorIs(t, err, ErrInvalidNoteName)
		})
	}
}

func TestParseLine(t *testing.T) {
	notes, err := ParseLine("d f e  d g")
	require.NoError(t, err)
	assert.Equal(t, []Note{N(D, 4), N(F, 4), N(E, 4), N(D, 4), N(G, 4)}, notes)

	_, err = ParseLine("d q e")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "note 2")
}

func TestLine(t *testing.T) {
	assert.Equal(t, "d c#' -", Line([]Note{N(D, 4), N(CSharp, 5), Unset}))
}

func TestN_Normalizes(t *testing.T) {
	assert.Equal(t, Note{Class: C, Octave: 5}, N(12, 4))
	assert.Equal(t, Note{Class: B, Octave: 3}, N(-1, 4))
}
