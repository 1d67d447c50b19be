// Package engine drives the exhaustive counterpoint search.
//
// The engine owns one Agenda (the search frontier) and runs a single
// pop/expand/push loop:
//
//  1. Put the root State (nothing composed) into the Agenda.
//  2. Get the next State; Next() it.
//  3. DeadEnd: discard. Done: tally the completed line under its rendered
//     key. Expanded: Put every successor.
//  4. Repeat until the Agenda is empty.
//
// Every transition composes exactly one more note, so the tree is finite
// and the loop terminates.
//
// The tally counts how many times each line was derived. A count above one
// means two paths through the tree produced the same notes; the engine logs
// it and reports it in Results.Duplicates rather than failing, since two
// distinct rule choices could in principle converge.
//
// RunParallel splits the top of the tree breadth-first and gives each
// worker its own depth-first Agenda over a disjoint set of subtrees. States
// never alias, so the only shared structure is the tally, which is locked.
package engine
