package pitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMode_Validation(t *testing.T) {
	tests := []struct {
		name    string
		degrees []int
	}{
		{"empty", nil},
		{"first degree out of range", []int{12, 14}},
		{"not increasing", []int{2, 4, 4, 7}},
		{"spans an octave", []int{0, 2, 12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMode("bad", tt.degrees...)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidMode)
		})
	}
}

func TestNewMode_CopiesDegrees(t *testing.T) {
	degrees := []int{2, 4, 5, 7, 9, 11, 12}
	m, err := NewMode("custom", degrees...)
	require.NoError(t, err)

	degrees[0] = 99
	assert.Equal(t, 2, m.Degrees()[0])

	got := m.Degrees()
	got[1] = 42
	assert.Equal(t, 4, m.Degrees()[1], "Degrees must return a copy")
}

func TestLookupMode(t *testing.T) {
	m, err := LookupMode(" Dorian ")
	require.NoError(t, err)
	assert.Equal(t, "dorian", m.Name())
	assert.Equal(t, []int{2, 4, 5, 7, 9, 11, 12}, m.Degrees())

	_, err = LookupMode("locrian")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestModeNames_Sorted(t *testing.T) {
	assert.Equal(t,
		[]string{"aeolian", "dorian", "ionian", "lydian", "mixolydian", "phrygian"},
		ModeNames())
}

func TestMode_Contains(t *testing.T) {
	assert.True(t, Dorian.Contains(N(D, 4)))
	assert.True(t, Dorian.Contains(N(C, 2)))
	assert.False(t, Dorian.Contains(N(CSharp, 5)))
	assert.False(t, Dorian.Contains(Unset))
}

func TestMode_Above(t *testing.T) {
	tests := []struct {
		name   string
		mode   Mode
		note   Note
		degree int
		want   Note
	}{
		{"unison", Dorian, N(D, 4), 1, N(D, 4)},
		{"octave by degrees", Dorian, N(D, 4), 8, N(D, 5)},
		{"fifth above a4", Dorian, N(A, 4), 5, N(E, 5)},
		{"two octaves", Dorian, N(E, 3), 15, N(E, 5)},
		{"phrygian fifth above e", Phrygian, N(E, 4), 5, N(B, 4)},
		{"phrygian third above d crosses the table top", Phrygian, N(D, 5), 3, N(F, 5)},
		{"ionian sixth above c", Ionian, N(C, 4), 6, N(A, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mode.Above(tt.note, tt.degree))
		})
	}
}

func TestMode_Above_PanicsOutsideMode(t *testing.T) {
	assert.Panics(t, func() { Dorian.Above(N(CSharp, 4), 3) })
	assert.Panics(t, func() { Dorian.Above(N(D, 4), 0) })
}

func TestMode_Final(t *testing.T) {
	assert.Equal(t, N(D, 4), Dorian.Final(4))
	assert.Equal(t, N(A, 3), Aeolian.Final(3))
}
