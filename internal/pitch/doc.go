// Package pitch provides the note and interval arithmetic used by the
// counterpoint search.
//
// A Note is a (pitch class, octave) pair. Pitch classes count half-steps
// above C (0..11); octave 4 is the octave starting on middle C.
//
// A Mode is an ordered table of scale degrees. Scale-relative intervals
// (third, fifth, sixth above) are computed by stepping through the table,
// wrapping into the next octave past its top. Fixed intervals (major sixth,
// minor third) are chromatic and independent of the mode.
//
// Everything in this package is a pure function over immutable values.
package pitch
