// Package harness runs knowledge-base conformance scenarios.
//
// A scenario applies a sequence of mutations to a fresh in-memory store and
// then checks the read operations against expected answers. Each mutation is
// recorded in a trace, which can be pinned with a golden file.
//
// # Scenario Format
//
//	name: non_monotonic_delete
//	description: "Deleting an asserted fact purges inferred facts"
//	models: [default]
//	steps:
//	  - op: add
//	    triples: [[Rex, type, Dog]]
//	  - op: add_inferred
//	    triples: [[Rex, type, Animal]]
//	  - op: delete
//	    triples: [[Rex, type, Dog]]
//	assertions:
//	  - type: count
//	    count: 0
//	  - type: query
//	    vars: [x]
//	    patterns: [["?x", type, Animal]]
//	    rows: []
//
// Step ops are add, add_inferred, update, delete and clear. A step may name
// the error code it expects (for example INVALID_ARGUMENT).
//
// # Assertion Types
//
//   - query: rows returned by a conjunctive query
//   - has: satisfiability of a pattern list
//   - has_stmt: existence of one exact fact
//   - about: every fact mentioning a resource
//   - classesof: rdf:type objects of a concept
//   - count: number of statements in scope
//   - inferred_count: number of inferred statements in scope
//
// Every assertion may override the read scope with its own models list,
// and may expect an error code instead of a value.
//
// # Deterministic Testing
//
// Scenarios run with testutil.DeterministicClock timestamps, sequential
// operation IDs and an isolated ":memory:" database, so traces are identical
// across runs.
package harness
