// Package exercise loads counterpoint exercises from CUE.
//
// An exercise names a cantus firmus, the voice to compose, a mode and an
// optional agenda policy:
//
//	exercise: fux_dorian: {
//		mode:   "dorian"
//		voice:  "above"
//		cantus: ["d", "f", "e", "d", "g", "f", "a", "g", "f", "e", "d"]
//	}
//
// A custom mode is given as a degree table of semitone offsets instead of
// a name:
//
//	exercise: pentatonic: {
//		degrees: [2, 4, 7, 9, 12]
//		cantus:  ["d", "e", "d"]
//	}
//
// Every exercise is unified with the embedded #Exercise schema, which
// supplies defaults, then checked field by field with validator tags and
// finally compiled into notes, a pitch.Mode and an agenda.Policy.
package exercise
