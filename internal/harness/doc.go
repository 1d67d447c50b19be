// Package harness provides conformance testing for counterpoint searches.
//
// A scenario names an exercise, runs the full enumeration against a fresh
// in-memory store and checks assertions about the result set.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: neighbour_above
//	description: "Three-note cantus, counterpoint above"
//	exercise:
//	  mode: dorian
//	  voice: above
//	  cantus: [d, e, d]
//	assertions:
//	  - type: result_count
//	    count: 3
//	  - type: contains
//	    line: "a c#' d'"
//	  - type: position_in
//	    index: 1
//	    notes: ["c#'"]
//
// Instead of an inline exercise, a scenario may reference a CUE file with
// exercise_file and exercise_name. Paths are relative to the scenario file.
//
// # Assertion Types
//
//   - result_count: number of distinct lines
//   - total_count: number of derivations, duplicates included
//   - dead_ends: number of pruned branches
//   - contains / excludes: a line is / is not in the result set
//   - line_count: a line was derived exactly count times
//   - no_duplicates: every line was derived once
//   - position_in: the notes used at a position are exactly notes
//   - all_valid: every line passes counterpoint.Verify
//
// # Deterministic Testing
//
// Every scenario runs with a fixed run ID (run_id, or DefaultRunID) and an
// isolated in-memory SQLite database, so golden snapshots are identical
// across runs, policies and worker counts.
package harness
