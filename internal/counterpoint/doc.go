// Package counterpoint implements the first species state machine.
//
// A State is a partially composed counterpoint line against a fixed cantus
// firmus. Next proposes every legal continuation for the position being
// composed, under the rules for that position:
//
//   - Opening: a perfect consonance above the first cantus note.
//   - Interior: an imperfect consonance, or a perfect one reached without
//     direct motion. Perfect consonances are offered only while they do not
//     outnumber imperfect ones.
//   - Penultimate: fixed, a major sixth above the cantus when the
//     counterpoint sounds above it, a minor third when below.
//   - Final: a perfect consonance reached without direct motion. If none is
//     legal the branch is a dead end.
//
// States are immutable once built. Every successor owns its own copy of the
// composed line, so branches never alias each other and can be explored in
// any order or in parallel.
package counterpoint
