// Package queryir provides the abstract query intermediate representation
// (IR) the statement matcher emits and storage backends execute.
//
// One QueryIR Select describes one filtered scan of the statement table:
// which rows (model membership, constant slots, slot self-consistency,
// provenance) and which columns to project as variable bindings. Joins
// across patterns are evaluated above this layer over bindings, so the IR
// stays a single-table fragment every backend can execute.
//
//	[pattern + models] → [Query IR] → [SQL Backend]
//
// FRAGMENT:
//   - Select(from, filter, bindings, distinct, limit)
//   - Predicates: Equals, In, SameColumn, And
//   - Explicit column bindings (no SELECT *)
//
// SEALED INTERFACES:
//
// Query and Predicate are sealed interfaces using the marker method pattern.
// Only types in this package can implement Query or Predicate, which gives
// backends exhaustive type switches:
//
//	switch p := pred.(type) {
//	case Equals:
//	case In:
//	case SameColumn:
//	case And:
//	}
//
// All literal values are parameters, never SQL text. A backend must never
// interpolate Equals.Value or In.Values into the query string.
package queryir
