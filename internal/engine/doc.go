// Package engine evaluates triple patterns against the statement store.
//
// It has two parts:
//
// Statement Matcher (matcher.go):
// One pattern plus a model set becomes one filtered scan. Constant slots
// become equality filters, the model set becomes a membership filter, and a
// variable that appears in several slots becomes a same-column filter. Each
// distinct row yields one binding of the pattern's variables.
//
// Pattern Join Engine (join.go):
// Patterns are evaluated left to right against a running set of bindings
// that starts with a single empty binding. Each step hash-joins the running
// set with the next pattern's matches on their shared variables. With no
// shared variables the step is a cartesian product. An empty running set
// ends evaluation early.
//
// The engine holds no state of its own besides the store handle. It is safe
// for concurrent use by readers.
//
// CRITICAL PATTERNS:
//
// Set semantics: Match and Query never return duplicates. SQL DISTINCT
// removes duplicate rows and bindings are deduplicated again by key.
//
// No partial results: a storage failure at any step aborts the whole call.
package engine
